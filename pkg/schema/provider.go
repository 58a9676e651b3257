// Package schema derives input document shapes from example instance
// documents (YAML/JSON) and from JSON Schemas, exposing them through a
// unified provider API consumed by shape inference.
package schema

import (
	"github.com/vhavlena/typelattice/pkg/types"
)

// Lookup resolves ground paths below the input root to shapes.
type Lookup interface {
	// TypeAtPath returns the shape at a ground path below the input root.
	TypeAtPath(path []string) (types.TypeDef, bool)

	// HasField checks if a field exists at the given ground path.
	HasField(path []string) bool
}

// Provider defines a common interface for input shape providers.
//
// Semantics of TypeAtPath, HasField and RootShape must be consistent
// across implementations to keep shape inference stable regardless of
// where the input shape came from.
type Provider interface {
	Lookup

	// ProcessInput ingests raw schema or example document bytes and
	// prepares the internal shape representation. Implementations decide
	// the exact format (e.g., YAML example or JSON Schema).
	ProcessInput(input []byte) error

	// RootShape returns the complete shape of the input document.
	RootShape() types.TypeDef
}

// Layered combines lookups; queries return the first match in order. It
// lets explicit parameter declarations take precedence over shapes
// derived from a schema or example document.
type Layered []Lookup

// TypeAtPath returns the shape from the first layer that knows the path.
//
// Parameters:
//
//	path []string: The ground path to look up.
//
// Returns:
//
//	types.TypeDef: The shape at the path.
//	bool: True if any layer knows the path.
func (l Layered) TypeAtPath(path []string) (types.TypeDef, bool) {
	for _, p := range l {
		if shape, ok := p.TypeAtPath(path); ok {
			return shape, true
		}
	}
	return types.TypeDef{}, false
}

// HasField checks the path against every layer in order.
//
// Parameters:
//
//	path []string: The ground path to check.
//
// Returns:
//
//	bool: True if any layer has the field.
func (l Layered) HasField(path []string) bool {
	for _, p := range l {
		if p.HasField(path) {
			return true
		}
	}
	return false
}

// walkPath resolves a ground path against a shape by reading one constant
// string offset per segment. A Never result means the path does not exist
// in the shape.
func walkPath(shape types.TypeDef, path []string) (types.TypeDef, bool) {
	current := shape
	for _, seg := range path {
		offset := types.NewConstantScalar(types.ScalarString, seg)
		next := current.OffsetValueType(&offset)
		if next.IsNever() {
			return types.TypeDef{}, false
		}
		current = next
	}
	return current, true
}
