package infer

import (
	"testing"

	"github.com/open-policy-agent/opa/v1/ast"

	"github.com/vhavlena/typelattice/pkg/types"
)

// fakeProvider serves input shapes from a fixed path map.
type fakeProvider struct {
	paths map[string]types.TypeDef
}

func (p *fakeProvider) TypeAtPath(path []string) (types.TypeDef, bool) {
	shape, ok := p.paths[pathKey(path)]
	return shape, ok
}

func (p *fakeProvider) HasField(path []string) bool {
	_, ok := p.paths[pathKey(path)]
	return ok
}

func pathKey(path []string) string {
	key := ""
	for _, seg := range path {
		key += "/" + seg
	}
	return key
}

func analyzeSource(t *testing.T, source string, provider ShapeProvider) *ShapeInferrer {
	t.Helper()
	module, err := ast.ParseModule("test.rego", source)
	if err != nil {
		t.Fatalf("failed to parse module: %v", err)
	}
	si := NewShapeInferrerForPackage(module.Package.Path, provider)
	si.AnalyzeModule(module)
	return si
}

func TestLiteralShapeInference(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		rule     string
		varName  string
		expected string
	}{
		{
			name: "string assignment",
			rule: `package test
allow if { x := "hello"; x == "hello" }`,
			varName:  "x",
			expected: "'hello'",
		},
		{
			name: "integer assignment",
			rule: `package test
allow if { x := 42; x > 0 }`,
			varName:  "x",
			expected: "42",
		},
		{
			name: "float assignment",
			rule: `package test
allow if { x := 3.14; x > 0 }`,
			varName:  "x",
			expected: "3.14",
		},
		{
			name: "boolean assignment",
			rule: `package test
allow if { x := true; x }`,
			varName:  "x",
			expected: "true",
		},
		{
			name: "unification",
			rule: `package test
allow if { x = "hello" }`,
			varName:  "x",
			expected: "'hello'",
		},
		{
			name: "array literal becomes positional record",
			rule: `package test
allow if { x := ["a", "b"]; count(x) > 0 }`,
			varName:  "x",
			expected: "array(0 => 'a', 1 => 'b')",
		},
		{
			name: "object literal becomes keyed record",
			rule: `package test
allow if { x := {"key": "value"}; count(x) > 0 }`,
			varName:  "x",
			expected: "array(key => 'value')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			si := analyzeSource(t, tt.rule, nil)
			shape, ok := si.RuleShape(tt.varName)
			if !ok {
				t.Fatalf("no shape recorded for %s", tt.varName)
			}
			if got := shape.Describe(types.VerbosityValue); got != tt.expected {
				t.Errorf("expected %q for %s, got %q", tt.expected, tt.varName, got)
			}
		})
	}
}

func TestSetLiteralShape(t *testing.T) {
	t.Parallel()
	si := analyzeSource(t, `package test
allow if { x := {1, 2}; count(x) > 0 }`, nil)
	shape, ok := si.RuleShape("x")
	if !ok {
		t.Fatal("no shape recorded for x")
	}
	if got := shape.Describe(types.VerbosityTypeOnly); got != "array<int, int>" {
		t.Errorf("expected array<int, int>, got %q", got)
	}
}

func TestBuiltinCallShapes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		rule     string
		varName  string
		expected string
	}{
		{
			name: "division widens to number union",
			rule: `package test
allow if { x := div(10, 4); x > 0 }`,
			varName:  "x",
			expected: "float|int",
		},
		{
			name: "count yields an integer",
			rule: `package test
allow if { x := count([1, 2, 3]); x > 0 }`,
			varName:  "x",
			expected: "int",
		},
		{
			name: "string builtin yields a string",
			rule: `package test
allow if { x := lower("ABC"); x == "abc" }`,
			varName:  "x",
			expected: "string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			si := analyzeSource(t, tt.rule, nil)
			shape, ok := si.RuleShape(tt.varName)
			if !ok {
				t.Fatalf("no shape recorded for %s", tt.varName)
			}
			if got := shape.Describe(types.VerbosityValue); got != tt.expected {
				t.Errorf("expected %q for %s, got %q", tt.expected, tt.varName, got)
			}
		})
	}
}

func TestRuleHeadsUnionAcrossDefinitions(t *testing.T) {
	t.Parallel()
	si := analyzeSource(t, `package test
val := 1 if { input.mode == "count" }
val := "unknown" if { input.mode == "label" }`, nil)

	shape, ok := si.RuleShape("val")
	if !ok {
		t.Fatal("no shape recorded for val")
	}
	if !shape.IsUnion() {
		t.Fatalf("expected a union shape, got %v", shape.Kind)
	}
	if got := shape.Describe(types.VerbosityValue); got != "int|string" {
		t.Errorf("expected int|string, got %q", got)
	}
}

func TestInputShapesFromProvider(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{paths: map[string]types.TypeDef{
		"/user/name": types.NewScalarType(types.ScalarString),
		"/user/age":  types.NewScalarType(types.ScalarInt),
	}}
	si := analyzeSource(t, `package test
greeting if { x := input.user.name; x != "" }
limit if { y := input.user.age; y > 0 }`, provider)

	name, ok := si.RuleShape("x")
	if !ok {
		t.Fatal("no shape recorded for x")
	}
	if got := name.Describe(types.VerbosityValue); got != "string" {
		t.Errorf("expected string, got %q", got)
	}
	age, ok := si.RuleShape("y")
	if !ok {
		t.Fatal("no shape recorded for y")
	}
	if got := age.Describe(types.VerbosityValue); got != "int" {
		t.Errorf("expected int, got %q", got)
	}
}

func TestDataReferencesWalkRecordedShapes(t *testing.T) {
	t.Parallel()
	si := analyzeSource(t, `package test
conf := {"name": "app", "port": 8080} if { true }
label := data.test.conf.name if { true }`, nil)

	shape, ok := si.RuleShape("label")
	if !ok {
		t.Fatal("no shape recorded for label")
	}
	if got := shape.Describe(types.VerbosityValue); got != "'app'" {
		t.Errorf("expected 'app', got %q", got)
	}
}

func TestUnknownValuesStayMixed(t *testing.T) {
	t.Parallel()
	si := analyzeSource(t, `package test
allow if { input.whatever == 1 }`, nil)

	shape := si.Shape(ast.Var("unseen"))
	if !shape.IsMixed() {
		t.Errorf("expected mixed for unseen variable, got %v", shape.Kind)
	}
}
