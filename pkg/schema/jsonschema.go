package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	jptr "github.com/qri-io/jsonpointer"
	qjsonschema "github.com/qri-io/jsonschema"

	"github.com/vhavlena/typelattice/pkg/types"
)

// JSONSchemaShapes derives input shapes from a JSON Schema document
// (Draft-07-like subset). It mirrors the semantics of ExampleShapes but
// reads the shape from schema keywords instead of an example instance.
//
// Supported keywords include (non-exhaustive):
//   - type (string or array of strings: "object", "array", "string",
//     "integer", "number", "boolean", "null")
//   - properties / required for object types; optional keys come from
//     properties absent from required
//   - additionalProperties (schema widens the object to a general array
//     shape when no properties are declared)
//   - items (schema or array of schemas) for array types
//   - anyOf / oneOf (array of schemas) -> union of member shapes
//   - allOf (array of schemas) -> merged records where possible,
//     intersection otherwise
//
// Unsupported or unrecognized keywords are ignored; enum/const and $ref
// are not resolved and map to mixed.
type JSONSchemaShapes struct {
	root types.TypeDef
}

// NewJSONSchemaShapes creates a new JSON Schema provider with an empty
// record as the root shape.
//
// Returns:
//
//	*JSONSchemaShapes: A new JSONSchemaShapes instance.
func NewJSONSchemaShapes() *JSONSchemaShapes {
	return &JSONSchemaShapes{root: types.NewRecordType(nil)}
}

// ProcessInput parses a JSON Schema document and derives the root shape.
//
// Parameters:
//
//	input []byte: The JSON bytes of a JSON Schema document.
//
// Returns:
//
//	error: An error if the schema cannot be parsed; otherwise nil.
func (s *JSONSchemaShapes) ProcessInput(input []byte) error {
	rs := &qjsonschema.Schema{}
	if err := json.Unmarshal(input, rs); err != nil {
		return fmt.Errorf("failed to parse JSON schema: %w", err)
	}
	s.root = shapeOfSchema(rs)
	return nil
}

// TypeAtPath returns the shape at a ground path in the schema.
//
// Parameters:
//
//	path []string: A slice of strings representing nested field names.
//
// Returns:
//
//	types.TypeDef: The shape at the path, if found.
//	bool: True if the path exists, false otherwise.
func (s *JSONSchemaShapes) TypeAtPath(path []string) (types.TypeDef, bool) {
	return walkPath(s.root, path)
}

// HasField checks if a field exists at the given path in the schema.
//
// Parameters:
//
//	path []string: A slice of strings representing nested field names.
//
// Returns:
//
//	bool: True if the field exists, false otherwise.
func (s *JSONSchemaShapes) HasField(path []string) bool {
	_, ok := s.TypeAtPath(path)
	return ok
}

// RootShape returns the complete shape derived from the schema.
//
// Returns:
//
//	types.TypeDef: The root shape.
func (s *JSONSchemaShapes) RootShape() types.TypeDef {
	return s.root
}

// shapeOfSchema converts a parsed schema node into a shape by interpreting
// core JSON Schema keywords. Unknown or unsupported shapes map to mixed.
//
// Parameters:
//
//	rs *qjsonschema.Schema: The parsed schema node to convert.
//
// Returns:
//
//	types.TypeDef: The shape for the given schema node.
func shapeOfSchema(rs *qjsonschema.Schema) types.TypeDef {
	if rs == nil {
		return types.NewMixedType()
	}

	if shape, ok := combinatorShape(rs); ok {
		return shape
	}

	typeNames := schemaTypeNames(rs)
	if len(typeNames) == 0 {
		if shape, ok := objectShapeFromProperties(rs); ok {
			return shape
		}
		if shape, ok := arrayShapeFromItems(rs); ok {
			return shape
		}
		return types.NewMixedType()
	}

	if len(typeNames) > 1 {
		parts := make([]types.TypeDef, 0, len(typeNames))
		for _, name := range typeNames {
			parts = append(parts, shapeForTypeName(rs, name))
		}
		return types.UnionOf(parts...)
	}
	return shapeForTypeName(rs, typeNames[0])
}

// schemaTypeNames returns the list of JSON Schema type names from the
// "type" keyword, handling both single-string and array representations.
//
// Parameters:
//
//	rs *qjsonschema.Schema: The schema node to inspect.
//
// Returns:
//
//	[]string: The list of type names; empty if none could be determined.
func schemaTypeNames(rs *qjsonschema.Schema) []string {
	v := rs.JSONProp("type")
	if v == nil {
		return nil
	}
	var t *qjsonschema.Type
	switch tv := v.(type) {
	case *qjsonschema.Type:
		t = tv
	case qjsonschema.Type:
		t = &tv
	case string:
		return []string{tv}
	default:
		return nil
	}
	if t == nil {
		return nil
	}
	b, err := t.MarshalJSON()
	if err != nil || len(b) == 0 {
		if s := t.String(); s != "" {
			return []string{s}
		}
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil && single != "" {
		return []string{single}
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil && len(arr) > 0 {
		return arr
	}
	return nil
}

// shapeForTypeName builds a shape for a specific JSON Schema "type" value,
// delegating to object/array helpers when applicable.
//
// Parameters:
//
//	rs *qjsonschema.Schema: The schema node whose type is interpreted.
//	name string: The JSON Schema type name.
//
// Returns:
//
//	types.TypeDef: The shape for the provided type name.
func shapeForTypeName(rs *qjsonschema.Schema, name string) types.TypeDef {
	switch name {
	case "object":
		if shape, ok := objectShapeFromProperties(rs); ok {
			return shape
		}
		return types.NewRecordType(nil)
	case "array":
		if shape, ok := arrayShapeFromItems(rs); ok {
			return shape
		}
		return types.NewArrayType(types.NewScalarType(types.ScalarInt), types.NewMixedType())
	case "string":
		return types.NewScalarType(types.ScalarString)
	case "integer":
		return types.NewScalarType(types.ScalarInt)
	case "number":
		return types.UnionOf(
			types.NewScalarType(types.ScalarInt),
			types.NewScalarType(types.ScalarFloat),
		)
	case "boolean":
		return types.NewScalarType(types.ScalarBool)
	case "null":
		return types.NewScalarType(types.ScalarNull)
	default:
		return types.NewMixedType()
	}
}

// arrayShapeFromItems builds an array shape from the "items" keyword if
// present.
//
// Parameters:
//
//	rs *qjsonschema.Schema: The schema node potentially containing items.
//
// Returns:
//
//	types.TypeDef: The array shape with the element shape derived from
//	items.
//	bool: True if items were found and processed; otherwise false.
func arrayShapeFromItems(rs *qjsonschema.Schema) (types.TypeDef, bool) {
	v := rs.JSONProp("items")
	if v == nil {
		return types.TypeDef{}, false
	}
	switch items := v.(type) {
	case *qjsonschema.Items:
		if items == nil {
			return types.NewArrayType(types.NewScalarType(types.ScalarInt), types.NewMixedType()), true
		}
		return arrayShapeFromItemSchemas(items.Schemas), true
	default:
		return types.TypeDef{}, false
	}
}

// arrayShapeFromItemSchemas returns an array shape whose element shape is
// derived from the provided item schemas (mixed for empty, direct shape
// for one, union for multiple/tuple-style).
//
// Parameters:
//
//	schemas []*qjsonschema.Schema: The list of item schemas.
//
// Returns:
//
//	types.TypeDef: The resulting array shape with the computed element
//	shape.
func arrayShapeFromItemSchemas(schemas []*qjsonschema.Schema) types.TypeDef {
	if len(schemas) == 0 {
		return types.NewArrayType(types.NewScalarType(types.ScalarInt), types.NewMixedType())
	}
	if len(schemas) == 1 {
		return types.NewArrayType(types.NewScalarType(types.ScalarInt), shapeOfSchema(schemas[0]))
	}
	return types.NewArrayType(types.NewScalarType(types.ScalarInt), unionOfSchemas(schemas))
}

// combinatorShape handles anyOf/oneOf/allOf branches.
//
// Parameters:
//
//	rs *qjsonschema.Schema: The schema node to inspect for combinators.
//
// Returns:
//
//	types.TypeDef: The computed shape if a combinator was applied.
//	bool: True if a combinator was found and handled; otherwise false.
func combinatorShape(rs *qjsonschema.Schema) (types.TypeDef, bool) {
	if v := rs.JSONProp("anyOf"); v != nil {
		if subs, ok := schemaSlice(v); ok && len(subs) > 0 {
			return unionOfSchemas(subs), true
		}
	}
	if v := rs.JSONProp("oneOf"); v != nil {
		if subs, ok := schemaSlice(v); ok && len(subs) > 0 {
			return unionOfSchemas(subs), true
		}
	}
	if v := rs.JSONProp("allOf"); v != nil {
		if subs, ok := schemaSlice(v); ok && len(subs) > 0 {
			return mergeAllOf(subs), true
		}
	}
	return types.TypeDef{}, false
}

// schemaSlice converts anyOf/oneOf/allOf keyword values to a slice of
// schemas.
//
// Parameters:
//
//	v interface{}: The raw keyword value from the parsed schema.
//
// Returns:
//
//	[]*qjsonschema.Schema: The extracted list of subschemas (if any).
//	bool: True if the conversion succeeded; otherwise false.
func schemaSlice(v interface{}) ([]*qjsonschema.Schema, bool) {
	switch s := v.(type) {
	case *qjsonschema.AnyOf:
		if s == nil {
			return nil, false
		}
		return []*qjsonschema.Schema(*s), true
	case *qjsonschema.OneOf:
		if s == nil {
			return nil, false
		}
		return []*qjsonschema.Schema(*s), true
	case *qjsonschema.AllOf:
		if s == nil {
			return nil, false
		}
		return []*qjsonschema.Schema(*s), true
	default:
		return nil, false
	}
}

// unionOfSchemas converts a slice of schemas to the normalized union of
// their shapes.
//
// Parameters:
//
//	subs []*qjsonschema.Schema: The list of subschemas to union.
//
// Returns:
//
//	types.TypeDef: The union of the subschema shapes.
func unionOfSchemas(subs []*qjsonschema.Schema) types.TypeDef {
	parts := make([]types.TypeDef, 0, len(subs))
	for _, sub := range subs {
		parts = append(parts, shapeOfSchema(sub))
	}
	return types.UnionOf(parts...)
}

// mergeAllOf merges a list of schemas as in JSON Schema allOf. Records
// merge field-wise; anything else combines into an intersection.
//
// Parameters:
//
//	subs []*qjsonschema.Schema: The list of schemas to merge conjunctively.
//
// Returns:
//
//	types.TypeDef: The merged shape.
func mergeAllOf(subs []*qjsonschema.Schema) types.TypeDef {
	if len(subs) == 0 {
		return types.NewMixedType()
	}
	acc := shapeOfSchema(subs[0])
	for i := 1; i < len(subs); i++ {
		acc = mergeConjunct(acc, shapeOfSchema(subs[i]))
	}
	return acc
}

// mergeConjunct combines two shapes that must hold at once. Equal shapes
// collapse, records merge entries per key, and everything else becomes an
// intersection.
func mergeConjunct(a, b types.TypeDef) types.TypeDef {
	if a.Equals(&b) {
		return a
	}
	if a.IsRecord() && b.IsRecord() {
		merged := make([]types.RecordEntry, 0, len(a.Entries)+len(b.Entries))
		merged = append(merged, a.Entries...)
		for i := range b.Entries {
			be := b.Entries[i]
			found := false
			for j := range merged {
				if merged[j].Key.Equals(&be.Key) {
					merged[j].Value = mergeConjunct(merged[j].Value, be.Value)
					merged[j].Optional = merged[j].Optional && be.Optional
					found = true
					break
				}
			}
			if !found {
				merged = append(merged, be)
			}
		}
		return types.NewRecordType(merged)
	}
	return types.NewIntersectionType([]types.TypeDef{a, b})
}

// objectShapeFromProperties builds a record shape from the "properties"
// keyword if present. Keys missing from "required" become optional
// entries. A schema-valued additionalProperties on an object without
// properties widens to a general array shape keyed by strings.
//
// Parameters:
//
//	rs *qjsonschema.Schema: The schema node potentially containing
//	properties.
//
// Returns:
//
//	types.TypeDef: The record shape derived from properties.
//	bool: True if the node was treated as an object.
func objectShapeFromProperties(rs *qjsonschema.Schema) (types.TypeDef, bool) {
	if rs.HasKeyword("properties") {
		props, ok := rs.JSONProp("properties").(*qjsonschema.Properties)
		if !ok || props == nil {
			return types.TypeDef{}, false
		}
		required := requiredKeys(rs)
		keys := make([]string, 0, len(*props))
		for key := range *props {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entries := make([]types.RecordEntry, 0, len(keys))
		for _, key := range keys {
			entries = append(entries, types.RecordEntry{
				Key:      types.NewConstantScalar(types.ScalarString, key),
				Value:    shapeOfSchema((*props)[key]),
				Optional: !required[key],
			})
		}
		return types.NewRecordType(entries), true
	}

	if apShape, ok := additionalPropertiesShape(rs); ok {
		return types.NewArrayType(types.NewScalarType(types.ScalarString), apShape), true
	}
	return types.TypeDef{}, false
}

// requiredKeys returns the set of keys named by the "required" keyword.
func requiredKeys(rs *qjsonschema.Schema) map[string]bool {
	result := make(map[string]bool)
	v := rs.JSONProp("required")
	if v == nil {
		return result
	}
	var names []string
	switch req := v.(type) {
	case *qjsonschema.Required:
		if req != nil {
			names = []string(*req)
		}
	case qjsonschema.Required:
		names = []string(req)
	case []string:
		names = req
	}
	for _, name := range names {
		result[name] = true
	}
	return result
}

// additionalPropertiesShape extracts the value shape of a schema-valued
// additionalProperties keyword. Boolean forms carry no shape information.
func additionalPropertiesShape(rs *qjsonschema.Schema) (types.TypeDef, bool) {
	v := rs.JSONProp("additionalProperties")
	if v == nil {
		return types.TypeDef{}, false
	}
	switch ap := v.(type) {
	case *qjsonschema.AdditionalProperties:
		if ap == nil {
			return types.TypeDef{}, false
		}
		sch := ap.Resolve(jptr.Pointer{}, "")
		if sch == nil {
			return types.TypeDef{}, false
		}
		if b, err := sch.MarshalJSON(); err == nil {
			if string(b) == "true" {
				return types.NewMixedType(), true
			}
			if string(b) == "false" {
				return types.TypeDef{}, false
			}
		}
		return shapeOfSchema(sch), true
	case *qjsonschema.Schema:
		if ap == nil {
			return types.TypeDef{}, false
		}
		return shapeOfSchema(ap), true
	case bool:
		if ap {
			return types.NewMixedType(), true
		}
		return types.TypeDef{}, false
	}
	return types.TypeDef{}, false
}
