// Package infer derives type shapes for Rego AST values, variables and
// rules, expressed in the union type model of pkg/types. Conflicting
// assignments to the same variable widen its shape through the active
// union normalizer instead of overwriting it.
package infer

import (
	"github.com/open-policy-agent/opa/v1/ast"

	"github.com/vhavlena/typelattice/pkg/types"
)

// ShapeProvider supplies shapes for paths below the policy input document.
// Implementations derive the shapes from example documents or schemas.
type ShapeProvider interface {
	// TypeAtPath returns the shape at a ground path, if known.
	TypeAtPath(path []string) (types.TypeDef, bool)
	// HasField checks whether the ground path exists in the input shape.
	HasField(path []string) bool
}

// ShapeInferrer performs shape inference on Rego AST.
type ShapeInferrer struct {
	packagePath ast.Ref
	shapes      map[string]types.TypeDef
	provider    ShapeProvider
}

// NewShapeInferrer creates a new shape inferrer.
//
// Parameters:
//
//	provider ShapeProvider: The input shape provider, may be nil.
//
// Returns:
//
//	*ShapeInferrer: A new instance of ShapeInferrer.
func NewShapeInferrer(provider ShapeProvider) *ShapeInferrer {
	return &ShapeInferrer{
		shapes:   make(map[string]types.TypeDef),
		provider: provider,
	}
}

// NewShapeInferrerForPackage creates a new shape inferrer that resolves
// references through the given package path.
//
// Parameters:
//
//	packagePath ast.Ref: The module's package path.
//	provider ShapeProvider: The input shape provider, may be nil.
//
// Returns:
//
//	*ShapeInferrer: A new instance of ShapeInferrer.
func NewShapeInferrerForPackage(packagePath ast.Ref, provider ShapeProvider) *ShapeInferrer {
	si := NewShapeInferrer(provider)
	si.packagePath = packagePath
	return si
}

// valueKey returns a string key for an AST value.
//
// Parameters:
//
//	val ast.Value: The AST value to generate a key for.
//
// Returns:
//
//	string: The string key representing the value.
func (si *ShapeInferrer) valueKey(val ast.Value) string {
	switch v := val.(type) {
	case ast.Ref:
		return v.String()
	case ast.Var:
		return string(v)
	default:
		return val.String()
	}
}

// Shape returns the shape for a given AST value.
//
// Parameters:
//
//	val ast.Value: The AST value to get the shape for.
//
// Returns:
//
//	types.TypeDef: The inferred or cached shape for the value.
func (si *ShapeInferrer) Shape(val ast.Value) types.TypeDef {
	key := si.valueKey(val)
	if shape, exists := si.shapes[key]; exists {
		return shape
	}
	return si.inferValueShape(val)
}

// joinShape merges a newly observed shape into the shape recorded for the
// value. The first observation is stored as-is; later conflicting
// observations widen the stored shape to a normalized union.
//
// Parameters:
//
//	val ast.Value: The AST value to record the shape for.
//	shape types.TypeDef: The observed shape.
func (si *ShapeInferrer) joinShape(val ast.Value, shape types.TypeDef) {
	if shape.IsMixed() {
		// mixed carries no information worth joining in
		return
	}
	key := si.valueKey(val)
	if existing, exists := si.shapes[key]; exists {
		if existing.IsMixed() {
			si.shapes[key] = shape
			return
		}
		si.shapes[key] = types.UnionOf(existing, shape)
		return
	}
	si.shapes[key] = shape
}

// TermShape infers the shape of an AST term by analyzing its value.
//
// Parameters:
//
//	term *ast.Term: The AST term to infer the shape for.
//
// Returns:
//
//	types.TypeDef: The inferred shape of the term.
func (si *ShapeInferrer) TermShape(term *ast.Term) types.TypeDef {
	if term == nil {
		return types.NewMixedType()
	}
	return si.inferValueShape(term.Value)
}

// ExprShape infers the shape of an AST expression.
//
// Parameters:
//
//	expr *ast.Expr: The AST expression to infer the shape for.
//
// Returns:
//
//	types.TypeDef: The inferred shape of the expression.
func (si *ShapeInferrer) ExprShape(expr *ast.Expr) types.TypeDef {
	if expr == nil {
		return types.NewMixedType()
	}

	if term, ok := expr.Terms.(*ast.Term); ok {
		return si.TermShape(term)
	}

	terms, ok := expr.Terms.([]*ast.Term)
	if !ok || len(terms) == 0 {
		return types.NewMixedType()
	}
	if len(terms) == 1 {
		return si.TermShape(terms[0])
	}

	if expr.IsCall() {
		name := terms[0].String()
		if isUnification(name) && len(terms) >= 3 {
			left := si.TermShape(terms[1])
			right := si.TermShape(terms[2])
			si.joinShape(terms[1].Value, right)
			si.joinShape(terms[2].Value, left)
			return types.NewScalarType(types.ScalarBool)
		}
		if sig, ok := BuiltinSignature(name); ok {
			si.applySignature(sig, terms[1:])
			return *sig.Return
		}
	}

	if expr.Operator() != nil {
		return types.NewScalarType(types.ScalarBool)
	}
	return si.TermShape(terms[0])
}

// applySignature records the declared parameter shapes of a builtin call
// against the call's operand terms.
func (si *ShapeInferrer) applySignature(sig types.TypeDef, operands []*ast.Term) {
	for i, operand := range operands {
		if i >= len(sig.Params) {
			break
		}
		if _, isVar := operand.Value.(ast.Var); isVar {
			si.joinShape(operand.Value, sig.Params[i].Type)
		}
	}
}

// inferValueShape infers the shape of an AST value. Literal scalars become
// constant types so the value-mode description can show them; collection
// literals become records keyed by their literal positions or fields.
//
// Parameters:
//
//	val ast.Value: The AST value to infer the shape for.
//
// Returns:
//
//	types.TypeDef: The inferred shape of the value.
func (si *ShapeInferrer) inferValueShape(val ast.Value) types.TypeDef {
	if val == nil {
		return types.NewMixedType()
	}

	key := si.valueKey(val)
	if shape, exists := si.shapes[key]; exists {
		return shape
	}

	var shape types.TypeDef
	switch v := val.(type) {
	case ast.String:
		shape = types.NewConstantScalar(types.ScalarString, string(v))
	case ast.Number:
		shape = numberShape(v)
	case ast.Boolean:
		shape = types.NewConstantBool(bool(v))
	case ast.Null:
		shape = types.NewConstantScalar(types.ScalarNull, "null")
	case *ast.Array:
		shape = si.arrayShape(v)
	case ast.Object:
		shape = si.objectShape(v)
	case ast.Set:
		shape = si.setShape(v)
	case ast.Call:
		shape = si.callShape(v)
	case ast.Ref:
		shape = si.refShape(v)
	case ast.Var:
		shape = types.NewMixedType()
	default:
		shape = types.NewMixedType()
	}

	si.joinShape(val, shape)
	return shape
}

// numberShape maps a numeric literal to a constant int or float shape.
func numberShape(n ast.Number) types.TypeDef {
	if _, ok := n.Int64(); ok {
		return types.NewConstantScalar(types.ScalarInt, n.String())
	}
	return types.NewConstantScalar(types.ScalarFloat, n.String())
}

// arrayShape maps an array literal to a record keyed by element positions.
func (si *ShapeInferrer) arrayShape(v *ast.Array) types.TypeDef {
	if v == nil || v.Len() == 0 {
		return types.NewRecordType(nil)
	}
	entries := make([]types.RecordEntry, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		entries = append(entries, types.RecordEntry{
			Key:   types.NewConstantScalar(types.ScalarInt, ast.IntNumberTerm(i).Value.String()),
			Value: si.Shape(v.Elem(i).Value),
		})
	}
	return types.NewRecordType(entries)
}

// objectShape maps an object literal to a record. Objects with non-string
// keys widen to a general array over the unions of their keys and values.
func (si *ShapeInferrer) objectShape(v ast.Object) types.TypeDef {
	entries := make([]types.RecordEntry, 0, v.Len())
	ground := true
	keys := make([]types.TypeDef, 0, v.Len())
	values := make([]types.TypeDef, 0, v.Len())
	v.Foreach(func(key, val *ast.Term) {
		keyShape := si.Shape(key.Value)
		valShape := si.Shape(val.Value)
		keys = append(keys, keyShape)
		values = append(values, valShape)
		if str, ok := key.Value.(ast.String); ok {
			entries = append(entries, types.RecordEntry{
				Key:   types.NewConstantScalar(types.ScalarString, string(str)),
				Value: valShape,
			})
		} else {
			ground = false
		}
	})
	if ground {
		return types.NewRecordType(entries)
	}
	return types.NewArrayType(types.UnionOf(keys...), types.UnionOf(values...))
}

// setShape maps a set literal to an array whose keys and values are both
// the union of the element shapes: iterating a set yields the element on
// both sides.
func (si *ShapeInferrer) setShape(v ast.Set) types.TypeDef {
	if v.Len() == 0 {
		return types.NewArrayType(types.NewNeverType(), types.NewNeverType())
	}
	elems := make([]types.TypeDef, 0, v.Len())
	v.Foreach(func(elem *ast.Term) {
		elems = append(elems, si.Shape(elem.Value))
	})
	elem := types.UnionOf(elems...)
	return types.NewArrayType(elem, elem)
}

// callShape infers the shape of a call value from the callee's builtin
// signature, recording the declared operand shapes along the way.
func (si *ShapeInferrer) callShape(call ast.Call) types.TypeDef {
	if len(call) == 0 {
		return types.NewMixedType()
	}
	sig, ok := BuiltinSignature(call[0].String())
	if !ok {
		return types.NewMixedType()
	}
	si.applySignature(sig, call[1:])
	return *sig.Return
}

// refShape infers the shape of a reference (e.g., input.x or data.x).
//
// Parameters:
//
//	ref ast.Ref: The reference to infer the shape for.
//
// Returns:
//
//	types.TypeDef: The inferred shape of the reference.
func (si *ShapeInferrer) refShape(ref ast.Ref) types.TypeDef {
	if len(ref) == 0 {
		return types.NewMixedType()
	}

	head := ref[0].Value.String()
	if head == "input" && si.provider != nil {
		path := refToPath(ref[1:])
		if shape, exists := si.provider.TypeAtPath(path); exists {
			return shape
		}
	}

	if si.packagePath != nil && ref.HasPrefix(si.packagePath) && len(ref) > len(si.packagePath) {
		if name, ok := ref[len(si.packagePath)].Value.(ast.String); ok {
			if shape, exists := si.shapes[string(name)]; exists {
				return walkOffsets(shape, ref[len(si.packagePath)+1:])
			}
		}
	}

	if shape, exists := si.shapes[head]; exists {
		return walkOffsets(shape, ref[1:])
	}
	return types.NewMixedType()
}

// walkOffsets resolves the rest of a reference against a shape by reading
// one offset per segment. Ground segments turn into constant offsets;
// variable segments read the shape's iterable value.
func walkOffsets(shape types.TypeDef, rest ast.Ref) types.TypeDef {
	current := shape
	for _, term := range rest {
		var next types.TypeDef
		switch seg := term.Value.(type) {
		case ast.String:
			offset := types.NewConstantScalar(types.ScalarString, string(seg))
			next = current.OffsetValueType(&offset)
		case ast.Number:
			offset := numberShape(seg)
			next = current.OffsetValueType(&offset)
		default:
			next = current.IterableValueType()
		}
		if next.IsNever() {
			return types.NewMixedType()
		}
		current = next
	}
	return current
}

// AnalyzeRule performs shape inference on a Rego rule. Multiple rules with
// the same head accumulate a union of their head shapes.
//
// Parameters:
//
//	rule *ast.Rule: The Rego rule to analyze.
func (si *ShapeInferrer) AnalyzeRule(rule *ast.Rule) {
	for _, expr := range rule.Body {
		si.ExprShape(expr)
	}

	if rule.Head == nil {
		return
	}
	if rule.Head.Value != nil {
		shape := si.inferValueShape(rule.Head.Value.Value)
		si.joinShape(rule.Head.Name, shape)
	}
}

// AnalyzeModule performs iterative shape inference on all rules in a Rego
// module until the shape map stabilizes.
//
// Parameters:
//
//	mod *ast.Module: The Rego module to analyze.
func (si *ShapeInferrer) AnalyzeModule(mod *ast.Module) {
	var prev map[string]types.TypeDef
	for {
		for _, rule := range mod.Rules {
			si.AnalyzeRule(rule)
		}
		current := si.AllShapes()
		if prev != nil && shapeMapsEqual(prev, current) {
			break
		}
		prev = current
	}
}

// RuleShape returns the accumulated shape of a named rule.
//
// Parameters:
//
//	name string: The rule name.
//
// Returns:
//
//	types.TypeDef: The rule's shape.
//	bool: True if the rule has an inferred shape.
func (si *ShapeInferrer) RuleShape(name string) (types.TypeDef, bool) {
	shape, ok := si.shapes[name]
	return shape, ok
}

// AllShapes returns a copy of all inferred shapes.
//
// Returns:
//
//	map[string]types.TypeDef: A map of value keys to their inferred shapes.
func (si *ShapeInferrer) AllShapes() map[string]types.TypeDef {
	result := make(map[string]types.TypeDef, len(si.shapes))
	for k, v := range si.shapes {
		result[k] = v
	}
	return result
}

// shapeMapsEqual reports whether two shape maps carry structurally equal
// shapes under the same keys.
func shapeMapsEqual(a, b map[string]types.TypeDef) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !av.Equals(&bv) {
			return false
		}
	}
	return true
}

// isUnification checks if an operator name performs unification.
//
// Parameters:
//
//	name string: The operator name to check.
//
// Returns:
//
//	bool: True if the operator unifies its operands.
func isUnification(name string) bool {
	return name == "eq" || name == "assign"
}

// refToPath converts a Rego AST reference to a slice of strings
// representing the path.
//
// Parameters:
//
//	ref ast.Ref: The reference to convert.
//
// Returns:
//
//	[]string: The path as a slice of strings.
func refToPath(ref ast.Ref) []string {
	path := make([]string, 0, len(ref))
	for _, term := range ref {
		if str, ok := term.Value.(ast.String); ok {
			path = append(path, string(str))
		} else {
			path = append(path, term.String())
		}
	}
	return path
}
