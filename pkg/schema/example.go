package schema

import (
	"fmt"
	"math"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/vhavlena/typelattice/pkg/types"
)

// ExampleShapes derives input shapes from an example instance document
// (YAML or JSON). Mappings become fixed-shape records, sequences become
// arrays over the union of their element shapes, and scalars widen to
// their scalar kind since a single example does not pin the value.
type ExampleShapes struct {
	root types.TypeDef
}

// NewExampleShapes creates a new example-document provider with an empty
// record as the root shape.
//
// Returns:
//
//	*ExampleShapes: A new ExampleShapes instance.
func NewExampleShapes() *ExampleShapes {
	return &ExampleShapes{root: types.NewRecordType(nil)}
}

// ProcessInput parses an example document and derives the root shape.
//
// Parameters:
//
//	input []byte: The YAML or JSON bytes of the example document.
//
// Returns:
//
//	error: An error if the document cannot be unmarshaled, otherwise nil.
func (s *ExampleShapes) ProcessInput(input []byte) error {
	var data map[string]interface{}
	if err := yaml.Unmarshal(input, &data); err != nil {
		return fmt.Errorf("failed to unmarshal input: %w", err)
	}
	s.root = shapeOfNode(data)
	return nil
}

// shapeOfNode recursively derives the shape of a decoded document node.
//
// Parameters:
//
//	node interface{}: The decoded node.
//
// Returns:
//
//	types.TypeDef: The shape of the node.
func shapeOfNode(node interface{}) types.TypeDef {
	switch v := node.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entries := make([]types.RecordEntry, 0, len(v))
		for _, key := range keys {
			entries = append(entries, types.RecordEntry{
				Key:   types.NewConstantScalar(types.ScalarString, key),
				Value: shapeOfNode(v[key]),
			})
		}
		return types.NewRecordType(entries)
	case []interface{}:
		if len(v) == 0 {
			return types.NewArrayType(types.NewNeverType(), types.NewNeverType())
		}
		elems := make([]types.TypeDef, 0, len(v))
		for _, elem := range v {
			elems = append(elems, shapeOfNode(elem))
		}
		return types.NewArrayType(
			types.NewScalarType(types.ScalarInt),
			types.UnionOf(elems...),
		)
	case string:
		return types.NewScalarType(types.ScalarString)
	case float64:
		if v == math.Trunc(v) {
			return types.NewScalarType(types.ScalarInt)
		}
		return types.NewScalarType(types.ScalarFloat)
	case int:
		return types.NewScalarType(types.ScalarInt)
	case bool:
		return types.NewScalarType(types.ScalarBool)
	case nil:
		return types.NewScalarType(types.ScalarNull)
	default:
		return types.NewMixedType()
	}
}

// TypeAtPath returns the shape at a ground path in the example document.
//
// Parameters:
//
//	path []string: A slice of strings representing nested field names.
//
// Returns:
//
//	types.TypeDef: The shape at the path, if found.
//	bool: True if the path exists, false otherwise.
func (s *ExampleShapes) TypeAtPath(path []string) (types.TypeDef, bool) {
	return walkPath(s.root, path)
}

// HasField checks if a field exists at the given path in the example
// document.
//
// Parameters:
//
//	path []string: A slice of strings representing nested field names.
//
// Returns:
//
//	bool: True if the field exists, false otherwise.
func (s *ExampleShapes) HasField(path []string) bool {
	_, ok := s.TypeAtPath(path)
	return ok
}

// RootShape returns the complete shape of the example document.
//
// Returns:
//
//	types.TypeDef: The root shape.
func (s *ExampleShapes) RootShape() types.TypeDef {
	return s.root
}
