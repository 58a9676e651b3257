package schema

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/vhavlena/typelattice/pkg/types"
)

// Parameter describes one declared input parameter.
type Parameter struct {
	Name     string
	Shape    types.TypeDef
	Required bool
}

// Parameters maps parameter names to their declarations.
type Parameters map[string]Parameter

// ParametersFromSpec creates Parameters from a YAML spec.parameters field.
//
// Parameters:
//
//	yamlData []byte: The YAML bytes of the spec document.
//
// Returns:
//
//	Parameters: The declared parameters.
//	error: An error if the document misses the spec.parameters field.
func ParametersFromSpec(yamlData []byte) (Parameters, error) {
	var data map[string]interface{}
	if err := yaml.Unmarshal(yamlData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	spec, ok := data["spec"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing 'spec' field in YAML")
	}
	params, ok := spec["parameters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'spec.parameters' field in YAML")
	}

	result := make(Parameters)
	for _, p := range params {
		paramMap, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := paramMap["name"].(string)
		typeStr, _ := paramMap["type"].(string)
		required, _ := paramMap["required"].(bool)

		result[name] = Parameter{
			Name:     name,
			Shape:    shapeForParameterType(typeStr),
			Required: required,
		}
	}
	return result, nil
}

// shapeForParameterType maps a declared parameter type name to a shape.
func shapeForParameterType(name string) types.TypeDef {
	switch name {
	case "string":
		return types.NewScalarType(types.ScalarString)
	case "int", "integer":
		return types.NewScalarType(types.ScalarInt)
	case "float":
		return types.NewScalarType(types.ScalarFloat)
	case "number":
		return types.UnionOf(
			types.NewScalarType(types.ScalarInt),
			types.NewScalarType(types.ScalarFloat),
		)
	case "boolean":
		return types.NewScalarType(types.ScalarBool)
	default:
		return types.NewMixedType()
	}
}

// TypeAtPath resolves paths of the form parameters.<name> against the
// declared parameters, so Parameters can be layered over a document
// provider.
//
// Parameters:
//
//	path []string: The ground path to look up.
//
// Returns:
//
//	types.TypeDef: The declared shape.
//	bool: True if the path names a declared parameter.
func (p Parameters) TypeAtPath(path []string) (types.TypeDef, bool) {
	if len(path) < 2 || path[0] != "parameters" {
		return types.TypeDef{}, false
	}
	param, ok := p[path[1]]
	if !ok {
		return types.TypeDef{}, false
	}
	if len(path) == 2 {
		return param.Shape, true
	}
	return walkPath(param.Shape, path[2:])
}

// HasField checks whether the path names a declared parameter.
//
// Parameters:
//
//	path []string: The ground path to check.
//
// Returns:
//
//	bool: True if the path resolves against a declared parameter.
func (p Parameters) HasField(path []string) bool {
	_, ok := p.TypeAtPath(path)
	return ok
}
