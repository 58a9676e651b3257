package schema

import (
	"testing"

	"github.com/vhavlena/typelattice/pkg/types"
)

func TestExampleShapesFromYAML(t *testing.T) {
	t.Parallel()
	doc := []byte(`
user:
  name: alice
  age: 30
  active: true
scores:
  - 1
  - 2.5
labels: []
`)
	shapes := NewExampleShapes()
	if err := shapes.ProcessInput(doc); err != nil {
		t.Fatalf("failed to process input: %v", err)
	}

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{"nested string", []string{"user", "name"}, "string"},
		{"nested integer", []string{"user", "age"}, "int"},
		{"nested boolean", []string{"user", "active"}, "bool"},
		{"array unions element kinds", []string{"scores"}, "array<int, float|int>"},
		{"whole record", []string{"user"}, "array(active => bool, age => int, name => string)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			shape, ok := shapes.TypeAtPath(tt.path)
			if !ok {
				t.Fatalf("path %v not found", tt.path)
			}
			if got := shape.Describe(types.VerbosityTypeOnly); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	if !shapes.HasField([]string{"user", "age"}) {
		t.Error("expected user.age to exist")
	}
	if shapes.HasField([]string{"user", "missing"}) {
		t.Error("did not expect user.missing to exist")
	}
}

func TestJSONSchemaShapes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		schema   string
		path     []string
		expected string
	}{
		{
			name: "properties with required split",
			schema: `{
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"age": {"type": "integer"}
				},
				"required": ["name"]
			}`,
			path:     nil,
			expected: "array(?age => int, name => string)",
		},
		{
			name: "number widens to int or float",
			schema: `{
				"type": "object",
				"properties": {"ratio": {"type": "number"}}
			}`,
			path:     []string{"ratio"},
			expected: "float|int",
		},
		{
			name: "anyOf becomes a union",
			schema: `{
				"type": "object",
				"properties": {
					"id": {"anyOf": [{"type": "string"}, {"type": "integer"}]}
				}
			}`,
			path:     []string{"id"},
			expected: "int|string",
		},
		{
			name: "oneOf becomes a union",
			schema: `{
				"type": "object",
				"properties": {
					"flag": {"oneOf": [{"type": "boolean"}, {"type": "null"}]}
				}
			}`,
			path:     []string{"flag"},
			expected: "bool|null",
		},
		{
			name: "allOf merges record fields",
			schema: `{
				"allOf": [
					{"type": "object", "properties": {"a": {"type": "string"}}, "required": ["a"]},
					{"type": "object", "properties": {"b": {"type": "integer"}}, "required": ["b"]}
				]
			}`,
			path:     nil,
			expected: "array(a => string, b => int)",
		},
		{
			name: "items sets the element shape",
			schema: `{
				"type": "object",
				"properties": {
					"tags": {"type": "array", "items": {"type": "string"}}
				}
			}`,
			path:     []string{"tags"},
			expected: "array<int, string>",
		},
		{
			name: "type list becomes a union",
			schema: `{
				"type": "object",
				"properties": {"value": {"type": ["string", "null"]}}
			}`,
			path:     []string{"value"},
			expected: "null|string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			shapes := NewJSONSchemaShapes()
			if err := shapes.ProcessInput([]byte(tt.schema)); err != nil {
				t.Fatalf("failed to process schema: %v", err)
			}
			shape, ok := shapes.TypeAtPath(tt.path)
			if !ok {
				t.Fatalf("path %v not found", tt.path)
			}
			if got := shape.Describe(types.VerbosityTypeOnly); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParametersFromSpec(t *testing.T) {
	t.Parallel()
	doc := []byte(`
spec:
  parameters:
    - name: limit
      type: int
      required: true
    - name: label
      type: string
    - name: ratio
      type: number
`)
	params, err := ParametersFromSpec(doc)
	if err != nil {
		t.Fatalf("failed to load parameters: %v", err)
	}

	limit, ok := params.TypeAtPath([]string{"parameters", "limit"})
	if !ok {
		t.Fatal("expected parameters.limit to resolve")
	}
	if got := limit.Describe(types.VerbosityTypeOnly); got != "int" {
		t.Errorf("expected int, got %q", got)
	}
	if !params["limit"].Required {
		t.Error("expected limit to be required")
	}
	if params["label"].Required {
		t.Error("did not expect label to be required")
	}
	ratio, ok := params.TypeAtPath([]string{"parameters", "ratio"})
	if !ok {
		t.Fatal("expected parameters.ratio to resolve")
	}
	if !ratio.IsUnion() {
		t.Errorf("expected number parameter to be a union, got %v", ratio.Kind)
	}
	if _, ok := params.TypeAtPath([]string{"parameters", "missing"}); ok {
		t.Error("did not expect parameters.missing to resolve")
	}
}

func TestParametersMissingSpecField(t *testing.T) {
	t.Parallel()
	if _, err := ParametersFromSpec([]byte(`answer: 42`)); err == nil {
		t.Error("expected an error for a document without spec")
	}
}

func TestLayeredLookupPrecedence(t *testing.T) {
	t.Parallel()
	params := Parameters{
		"limit": {Name: "limit", Shape: types.NewScalarType(types.ScalarInt)},
	}
	example := NewExampleShapes()
	if err := example.ProcessInput([]byte(`
parameters:
  limit: "from-example"
user:
  name: alice
`)); err != nil {
		t.Fatalf("failed to process input: %v", err)
	}

	layered := Layered{params, example}

	limit, ok := layered.TypeAtPath([]string{"parameters", "limit"})
	if !ok {
		t.Fatal("expected parameters.limit to resolve")
	}
	if got := limit.Describe(types.VerbosityTypeOnly); got != "int" {
		t.Errorf("expected declaration to win over example, got %q", got)
	}

	name, ok := layered.TypeAtPath([]string{"user", "name"})
	if !ok {
		t.Fatal("expected user.name to resolve")
	}
	if got := name.Describe(types.VerbosityTypeOnly); got != "string" {
		t.Errorf("expected string, got %q", got)
	}
	if !layered.HasField([]string{"user", "name"}) {
		t.Error("expected user.name to exist")
	}
}
