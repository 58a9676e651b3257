// Builtin function signatures used during shape inference.
package infer

import (
	"github.com/vhavlena/typelattice/pkg/types"
)

// builtinSignatures maps builtin operator names to callable shapes. The
// callable's parameters are the expected operand shapes and its return is
// the call result shape. Division and number parsing return an int|float
// union since the result kind depends on the runtime values.
var builtinSignatures = buildBuiltinSignatures()

// BuiltinSignature returns the callable shape of a builtin operator.
//
// Parameters:
//
//	name string: The operator name.
//
// Returns:
//
//	types.TypeDef: The callable shape.
//	bool: True if the operator has a registered signature.
func BuiltinSignature(name string) (types.TypeDef, bool) {
	sig, ok := builtinSignatures[name]
	return sig, ok
}

// buildBuiltinSignatures constructs the registry of builtin signatures.
//
// Returns:
//
//	map[string]types.TypeDef: A mapping from operator name to its shape.
func buildBuiltinSignatures() map[string]types.TypeDef {
	str := types.NewScalarType(types.ScalarString)
	integer := types.NewScalarType(types.ScalarInt)
	float := types.NewScalarType(types.ScalarFloat)
	boolean := types.NewScalarType(types.ScalarBool)
	number := types.UnionOf(integer, float)
	strArray := types.NewArrayType(integer, str)

	sigs := make(map[string]types.TypeDef)

	// string operations: string operands, string result
	for _, name := range []string{
		"trim", "trim_left", "trim_right", "trim_space",
		"replace", "lower", "upper", "sprintf", "substring",
	} {
		sigs[name] = unaryOrMore(str, str)
	}
	sigs["concat"] = types.NewCallableType([]types.ParameterAcceptor{
		{Name: "delimiter", Type: str},
		{Name: "collection", Type: strArray},
	}, str)
	sigs["split"] = types.NewCallableType([]types.ParameterAcceptor{
		{Name: "s", Type: str},
		{Name: "delimiter", Type: str},
	}, strArray)
	sigs["format_int"] = types.NewCallableType([]types.ParameterAcceptor{
		{Name: "number", Type: number},
		{Name: "base", Type: integer},
	}, str)

	// numeric operations
	for _, name := range []string{"plus", "minus", "mul", "rem"} {
		sigs[name] = types.NewCallableType([]types.ParameterAcceptor{
			{Name: "x", Type: number},
			{Name: "y", Type: number},
		}, number)
	}
	sigs["div"] = types.NewCallableType([]types.ParameterAcceptor{
		{Name: "x", Type: number},
		{Name: "y", Type: number},
	}, number)
	sigs["abs"] = unaryOrMore(number, number)
	sigs["round"] = unaryOrMore(number, integer)
	sigs["count"] = types.NewCallableType([]types.ParameterAcceptor{
		{Name: "collection", Type: types.NewMixedType()},
	}, integer)
	sigs["to_number"] = types.NewCallableType([]types.ParameterAcceptor{
		{Name: "x", Type: types.UnionOf(str, integer, float, boolean)},
	}, types.UnionOf(integer, float))

	// comparisons and predicates
	for _, name := range []string{"lt", "lte", "gt", "gte", "neq"} {
		sigs[name] = types.NewCallableType([]types.ParameterAcceptor{
			{Name: "x", Type: types.NewMixedType()},
			{Name: "y", Type: types.NewMixedType()},
		}, boolean)
	}
	for _, name := range []string{"startswith", "endswith", "contains"} {
		sigs[name] = types.NewCallableType([]types.ParameterAcceptor{
			{Name: "s", Type: str},
			{Name: "search", Type: str},
		}, boolean)
	}
	sigs["is_number"] = unaryOrMore(types.NewMixedType(), boolean)
	sigs["is_string"] = unaryOrMore(types.NewMixedType(), boolean)
	sigs["is_boolean"] = unaryOrMore(types.NewMixedType(), boolean)

	return sigs
}

// unaryOrMore builds a single-parameter callable shape.
func unaryOrMore(param, ret types.TypeDef) types.TypeDef {
	return types.NewCallableType([]types.ParameterAcceptor{
		{Name: "x", Type: param},
	}, ret)
}
