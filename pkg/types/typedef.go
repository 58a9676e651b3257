// Package types implements the type-representation core of a static
// analyzer for dynamically-typed languages. A type value models the set of
// possible runtime shapes of an expression; queries about compatibility,
// capability, and coercion are answered without executing the analyzed
// program. Type values are immutable after construction and safe to share
// across analysis workers.
package types

import (
	"sort"

	verr "github.com/vhavlena/typelattice/pkg/err"
)

// TypeKind represents the kind of a type value
type TypeKind string

const (
	KindNever        TypeKind = "never"
	KindScalar       TypeKind = "scalar"
	KindConstant     TypeKind = "constant"
	KindArray        TypeKind = "array"
	KindRecord       TypeKind = "record"
	KindObject       TypeKind = "object"
	KindCallable     TypeKind = "callable"
	KindIntersection TypeKind = "intersection"
	KindUnion        TypeKind = "union"
	KindMixed        TypeKind = "mixed"
)

// ScalarKind represents scalar types of the analyzed language
type ScalarKind string

const (
	ScalarBool   ScalarKind = "bool"
	ScalarInt    ScalarKind = "int"
	ScalarFloat  ScalarKind = "float"
	ScalarString ScalarKind = "string"
	ScalarNull   ScalarKind = "null"
)

// Contextual class references resolved against the enclosing static
// context via ResolveStatic/ChangeBaseClass.
const (
	SelfRefName   = "self"
	StaticRefName = "static"
	ParentRefName = "parent"
)

// RecordEntry is one key/value pair of a fixed-shape record. The key is
// always a constant scalar. Optional marks keys that are not guaranteed to
// be present in every runtime instance of the record.
type RecordEntry struct {
	Key      TypeDef
	Value    TypeDef
	Optional bool
}

// ParameterAcceptor describes one parameter of a callable signature.
type ParameterAcceptor struct {
	Name     string
	Type     TypeDef
	Optional bool
	Variadic bool
}

// TypeDef represents a full type value. Exactly one group of fields is
// populated depending on Kind. Treat values as immutable: operations never
// mutate a TypeDef, they produce a new one.
type TypeDef struct {
	Kind TypeKind

	Scalar  ScalarKind // scalar and constant kinds
	Literal string     // source form of the literal for constant kinds

	KeyType   *TypeDef // array kinds
	ValueType *TypeDef // array kinds

	Entries []RecordEntry // record kinds, in declaration order

	ClassName string          // object kinds
	Class     ClassReflection // object kinds; nil when the class is unresolved

	Params []ParameterAcceptor // callable kinds
	Return *TypeDef            // callable kinds

	Members []TypeDef // union and intersection kinds, canonical order
}

// NewNeverType creates the bottom type, the result of an operation no
// runtime shape can produce.
func NewNeverType() TypeDef {
	return TypeDef{Kind: KindNever}
}

// NewMixedType creates the top type covering every runtime shape.
func NewMixedType() TypeDef {
	return TypeDef{Kind: KindMixed}
}

// NewScalarType creates a new TypeDef for a scalar kind.
//
// Parameters:
//
//	kind ScalarKind: The scalar kind.
//
// Returns:
//
//	TypeDef: The scalar type.
func NewScalarType(kind ScalarKind) TypeDef {
	return TypeDef{Kind: KindScalar, Scalar: kind}
}

// NewConstantScalar creates a new TypeDef for a literal value of a scalar
// kind. The literal is kept in its source form (unquoted for strings).
//
// Parameters:
//
//	kind ScalarKind: The scalar kind of the literal.
//	literal string: The source form of the literal value.
//
// Returns:
//
//	TypeDef: The constant scalar type.
func NewConstantScalar(kind ScalarKind, literal string) TypeDef {
	return TypeDef{Kind: KindConstant, Scalar: kind, Literal: literal}
}

// NewConstantBool creates a constant boolean type.
func NewConstantBool(v bool) TypeDef {
	if v {
		return NewConstantScalar(ScalarBool, "true")
	}
	return NewConstantScalar(ScalarBool, "false")
}

// NewArrayType creates a new TypeDef for a general array with the given
// key and value types.
//
// Parameters:
//
//	key TypeDef: The key type.
//	value TypeDef: The value type.
//
// Returns:
//
//	TypeDef: The array type.
func NewArrayType(key, value TypeDef) TypeDef {
	return TypeDef{Kind: KindArray, KeyType: &key, ValueType: &value}
}

// NewRecordType creates a new TypeDef for a fixed-shape record with the
// given ordered entries.
//
// Parameters:
//
//	entries []RecordEntry: The key/value pairs in declaration order.
//
// Returns:
//
//	TypeDef: The record type.
func NewRecordType(entries []RecordEntry) TypeDef {
	return TypeDef{Kind: KindRecord, Entries: entries}
}

// NewObjectType creates a new TypeDef for an object shape backed by the
// given class reflection.
//
// Parameters:
//
//	class ClassReflection: The reflection provider for the class.
//
// Returns:
//
//	TypeDef: The object type.
func NewObjectType(class ClassReflection) TypeDef {
	return TypeDef{Kind: KindObject, ClassName: class.Name(), Class: class}
}

// NewNamedObjectType creates an object type whose class metadata is not
// resolved. Capability probes on it stay optimistic; named-member existence
// checks answer false.
//
// Parameters:
//
//	name string: The class name.
//
// Returns:
//
//	TypeDef: The object type without reflection backing.
func NewNamedObjectType(name string) TypeDef {
	return TypeDef{Kind: KindObject, ClassName: name}
}

// NewCallableType creates a new TypeDef for a callable shape.
//
// Parameters:
//
//	params []ParameterAcceptor: The parameter acceptors.
//	ret TypeDef: The return type.
//
// Returns:
//
//	TypeDef: The callable type.
func NewCallableType(params []ParameterAcceptor, ret TypeDef) TypeDef {
	return TypeDef{Kind: KindCallable, Params: params, Return: &ret}
}

// NewIntersectionType creates a new TypeDef for a conjunction of member
// types. Members are sorted canonically for deterministic rendering.
//
// Parameters:
//
//	members []TypeDef: The member types.
//
// Returns:
//
//	TypeDef: The intersection type.
func NewIntersectionType(members []TypeDef) TypeDef {
	sorted := make([]TypeDef, len(members))
	copy(sorted, members)
	sortMembers(sorted)
	return TypeDef{Kind: KindIntersection, Members: sorted}
}

// NewUnionType creates a new TypeDef for a disjunction of at least two
// member types. Members must be pre-flattened by the normalizer: supplying
// fewer than two members or a member that is itself a union is a contract
// violation and fails immediately. Members are stored in canonical order so
// that two unions built from the same set of members are interchangeable
// regardless of construction order.
//
// Parameters:
//
//	members []TypeDef: The member types, at least two, none of them a union.
//
// Returns:
//
//	TypeDef: The union type with members in canonical order.
//	error: An error wrapping err.ErrInvariant on a contract violation.
func NewUnionType(members []TypeDef) (TypeDef, error) {
	if len(members) < 2 {
		return TypeDef{}, verr.ErrTooFewUnionMembers(len(members))
	}
	var nested []string
	for i := range members {
		if members[i].Kind == KindUnion {
			nested = append(nested, members[i].Describe(VerbosityValue))
		}
	}
	if len(nested) > 0 {
		return TypeDef{}, verr.ErrNestedUnionMember(nested)
	}
	sorted := make([]TypeDef, len(members))
	copy(sorted, members)
	sortMembers(sorted)
	return TypeDef{Kind: KindUnion, Members: sorted}, nil
}

// IsScalar returns true if the type is a scalar
func (t *TypeDef) IsScalar() bool {
	return t.Kind == KindScalar
}

// IsConstant returns true if the type is a constant scalar
func (t *TypeDef) IsConstant() bool {
	return t.Kind == KindConstant
}

// IsArray returns true if the type is a general array
func (t *TypeDef) IsArray() bool {
	return t.Kind == KindArray
}

// IsRecord returns true if the type is a fixed-shape record
func (t *TypeDef) IsRecord() bool {
	return t.Kind == KindRecord
}

// IsObject returns true if the type is an object
func (t *TypeDef) IsObject() bool {
	return t.Kind == KindObject
}

// IsUnion returns true if the type is a union
func (t *TypeDef) IsUnion() bool {
	return t.Kind == KindUnion
}

// IsMixed returns true if the type is the top type
func (t *TypeDef) IsMixed() bool {
	return t.Kind == KindMixed
}

// IsNever returns true if the type is the bottom type
func (t *TypeDef) IsNever() bool {
	return t.Kind == KindNever
}

// HasMember reports whether a union or intersection carries a member
// structurally equal to the given type.
//
// Parameters:
//
//	member TypeDef: The member to look for.
//
// Returns:
//
//	bool: True if an equal member is present
func (t *TypeDef) HasMember(member TypeDef) bool {
	for i := range t.Members {
		if t.Members[i].Equals(&member) {
			return true
		}
	}
	return false
}

// isCompound reports whether a kind participates in compound double
// dispatch (the compound side of a comparison decides it).
func isCompound(k TypeKind) bool {
	return k == KindUnion || k == KindIntersection
}

// GeneralizedType returns the non-literal shape of the type: constant
// scalars widen to their scalar kind, boolean literals stay literal.
// All other kinds are returned unchanged.
//
// Returns:
//
//	TypeDef: The generalized type.
func (t *TypeDef) GeneralizedType() TypeDef {
	if t.Kind == KindConstant && t.Scalar != ScalarBool {
		return NewScalarType(t.Scalar)
	}
	return *t
}

// Equals checks if this type is structurally equal to another type.
//
// Parameters:
//
//	other *TypeDef: The type to compare against.
//
// Returns:
//
//	bool: True if the types are structurally equal
func (t *TypeDef) Equals(other *TypeDef) bool {
	if t.Kind != other.Kind {
		return false
	}

	switch t.Kind {
	case KindNever, KindMixed:
		return true
	case KindScalar:
		return t.Scalar == other.Scalar
	case KindConstant:
		return t.Scalar == other.Scalar && t.Literal == other.Literal
	case KindArray:
		return ptrEquals(t.KeyType, other.KeyType) && ptrEquals(t.ValueType, other.ValueType)
	case KindRecord:
		if len(t.Entries) != len(other.Entries) {
			return false
		}
		for i := range t.Entries {
			e1, e2 := &t.Entries[i], &other.Entries[i]
			if e1.Optional != e2.Optional ||
				!e1.Key.Equals(&e2.Key) || !e1.Value.Equals(&e2.Value) {
				return false
			}
		}
		return true
	case KindObject:
		return t.ClassName == other.ClassName
	case KindCallable:
		if len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			p1, p2 := &t.Params[i], &other.Params[i]
			if p1.Optional != p2.Optional || p1.Variadic != p2.Variadic ||
				!p1.Type.Equals(&p2.Type) {
				return false
			}
		}
		return ptrEquals(t.Return, other.Return)
	case KindUnion, KindIntersection:
		if len(t.Members) != len(other.Members) {
			return false
		}
		for i := range t.Members {
			if !t.Members[i].Equals(&other.Members[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ptrEquals compares two optional type references structurally, treating
// nil as equal only to nil.
func ptrEquals(a, b *TypeDef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(b)
}

// kindRank assigns each kind a position in the canonical member order.
var kindRank = map[TypeKind]int{
	KindNever:        0,
	KindScalar:       1,
	KindConstant:     2,
	KindArray:        3,
	KindRecord:       4,
	KindObject:       5,
	KindCallable:     6,
	KindIntersection: 7,
	KindUnion:        8,
	KindMixed:        9,
}

// sortMembers sorts members in place into canonical order: by kind rank,
// then by value-mode description. The order is deterministic so unions
// built from the same member set render and compare identically.
func sortMembers(members []TypeDef) {
	sort.SliceStable(members, func(i, j int) bool {
		ri, rj := kindRank[members[i].Kind], kindRank[members[j].Kind]
		if ri != rj {
			return ri < rj
		}
		return members[i].Describe(VerbosityValue) < members[j].Describe(VerbosityValue)
	})
}

// TypeDepth computes the nesting depth of the type.
//
// Returns:
//
//	int: 0 for leaf kinds, otherwise 1 plus the maximum depth of nested types.
func (t *TypeDef) TypeDepth() int {
	switch t.Kind {
	case KindArray:
		d := t.KeyType.TypeDepth()
		if vd := t.ValueType.TypeDepth(); vd > d {
			d = vd
		}
		return 1 + d
	case KindRecord:
		maxDepth := 0
		for i := range t.Entries {
			if d := t.Entries[i].Value.TypeDepth(); d > maxDepth {
				maxDepth = d
			}
		}
		return 1 + maxDepth
	case KindCallable:
		maxDepth := t.Return.TypeDepth()
		for i := range t.Params {
			if d := t.Params[i].Type.TypeDepth(); d > maxDepth {
				maxDepth = d
			}
		}
		return 1 + maxDepth
	case KindUnion, KindIntersection:
		maxDepth := 0
		for i := range t.Members {
			if d := t.Members[i].TypeDepth(); d > maxDepth {
				maxDepth = d
			}
		}
		return 1 + maxDepth
	}
	return 0
}
