package types

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// IterableKeyType returns the type of keys produced by iterating shapes of
// this type. For a union it is the normalized disjunction of the
// per-member key types; alternatives that cannot be iterated contribute
// the bottom type, which the normalizer absorbs.
func (t *TypeDef) IterableKeyType() TypeDef {
	switch t.Kind {
	case KindArray:
		return *t.KeyType
	case KindRecord:
		if len(t.Entries) == 0 {
			return NewNeverType()
		}
		keys := make([]TypeDef, len(t.Entries))
		for i := range t.Entries {
			keys[i] = t.Entries[i].Key
		}
		return UnionOf(keys...)
	case KindObject, KindMixed:
		if t.IsIterable().IsNo() {
			return NewNeverType()
		}
		return NewMixedType()
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers((*TypeDef).IterableKeyType)
	}
	return NewNeverType()
}

// IterableValueType returns the type of values produced by iterating
// shapes of this type.
func (t *TypeDef) IterableValueType() TypeDef {
	switch t.Kind {
	case KindArray:
		return *t.ValueType
	case KindRecord:
		if len(t.Entries) == 0 {
			return NewNeverType()
		}
		values := make([]TypeDef, len(t.Entries))
		for i := range t.Entries {
			values[i] = t.Entries[i].Value
		}
		return UnionOf(values...)
	case KindObject, KindMixed:
		if t.IsIterable().IsNo() {
			return NewNeverType()
		}
		return NewMixedType()
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers((*TypeDef).IterableValueType)
	}
	return NewNeverType()
}

// OffsetValueType returns the type read from shapes of this type at the
// given offset. A record resolves constant offsets against its keys; a
// non-constant offset may hit any entry.
//
// Parameters:
//
//	offset *TypeDef: The offset type.
//
// Returns:
//
//	TypeDef: The value type, or the bottom type when no shape supports the
//	access.
func (t *TypeDef) OffsetValueType(offset *TypeDef) TypeDef {
	switch t.Kind {
	case KindScalar, KindConstant:
		if t.Scalar == ScalarString {
			return NewScalarType(ScalarString)
		}
	case KindArray:
		return *t.ValueType
	case KindRecord:
		if offset.Kind == KindConstant {
			for i := range t.Entries {
				if t.Entries[i].Key.Equals(offset) {
					return t.Entries[i].Value
				}
			}
			return NewNeverType()
		}
		if len(t.Entries) == 0 {
			return NewNeverType()
		}
		values := make([]TypeDef, len(t.Entries))
		for i := range t.Entries {
			values[i] = t.Entries[i].Value
		}
		return UnionOf(values...)
	case KindMixed:
		return NewMixedType()
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers(func(m *TypeDef) TypeDef {
			return m.OffsetValueType(offset)
		})
	}
	return NewNeverType()
}

// SetOffsetValueType returns the type that results from writing the value
// at the offset. Types are immutable; the receiver is unchanged. A record
// keeps its fixed shape for constant offsets and widens to a general array
// otherwise; a union is rebuilt member by member with the same arity.
//
// Parameters:
//
//	offset *TypeDef: The offset type.
//	value *TypeDef: The written value type.
//
// Returns:
//
//	TypeDef: The post-write type.
func (t *TypeDef) SetOffsetValueType(offset, value *TypeDef) TypeDef {
	switch t.Kind {
	case KindArray:
		return NewArrayType(UnionOf(*t.KeyType, *offset), UnionOf(*t.ValueType, *value))
	case KindRecord:
		if offset.Kind == KindConstant {
			entries := make([]RecordEntry, 0, len(t.Entries)+1)
			replaced := false
			for i := range t.Entries {
				e := t.Entries[i]
				if e.Key.Equals(offset) {
					e.Value = *value
					e.Optional = false
					replaced = true
				}
				entries = append(entries, e)
			}
			if !replaced {
				entries = append(entries, RecordEntry{Key: *offset, Value: *value})
			}
			return NewRecordType(entries)
		}
		keys := make([]TypeDef, 0, len(t.Entries)+1)
		values := make([]TypeDef, 0, len(t.Entries)+1)
		for i := range t.Entries {
			keys = append(keys, t.Entries[i].Key)
			values = append(values, t.Entries[i].Value)
		}
		keys = append(keys, *offset)
		values = append(values, *value)
		return NewArrayType(UnionOf(keys...), UnionOf(values...))
	case KindUnion:
		return t.rebuildMembers(func(m *TypeDef) TypeDef {
			return m.SetOffsetValueType(offset, value)
		})
	}
	return *t
}

// ToBoolean returns the boolean coercion of shapes of this type.
func (t *TypeDef) ToBoolean() TypeDef {
	switch t.Kind {
	case KindScalar:
		if t.Scalar == ScalarBool {
			return *t
		}
		if t.Scalar == ScalarNull {
			return NewConstantBool(false)
		}
		return NewScalarType(ScalarBool)
	case KindConstant:
		return NewConstantBool(constantTruthiness(t))
	case KindRecord:
		if len(t.Entries) == 0 {
			return NewConstantBool(false)
		}
		for i := range t.Entries {
			if t.Entries[i].Optional {
				return NewScalarType(ScalarBool)
			}
		}
		return NewConstantBool(true)
	case KindObject, KindCallable:
		return NewConstantBool(true)
	case KindNever:
		return NewNeverType()
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers((*TypeDef).ToBoolean)
	}
	return NewScalarType(ScalarBool)
}

// ToNumber returns the numeric coercion of shapes of this type.
func (t *TypeDef) ToNumber() TypeDef {
	switch t.Kind {
	case KindScalar:
		switch t.Scalar {
		case ScalarInt, ScalarFloat:
			return *t
		case ScalarBool:
			return NewScalarType(ScalarInt)
		case ScalarString:
			return UnionOf(NewScalarType(ScalarInt), NewScalarType(ScalarFloat))
		case ScalarNull:
			return NewConstantScalar(ScalarInt, "0")
		}
	case KindConstant:
		switch t.Scalar {
		case ScalarInt, ScalarFloat:
			return *t
		case ScalarBool:
			if t.Literal == "true" {
				return NewConstantScalar(ScalarInt, "1")
			}
			return NewConstantScalar(ScalarInt, "0")
		case ScalarString:
			if _, convErr := strconv.ParseInt(t.Literal, 10, 64); convErr == nil {
				return NewConstantScalar(ScalarInt, t.Literal)
			}
			if _, convErr := strconv.ParseFloat(t.Literal, 64); convErr == nil {
				return NewConstantScalar(ScalarFloat, t.Literal)
			}
			return NewNeverType()
		case ScalarNull:
			return NewConstantScalar(ScalarInt, "0")
		}
	case KindMixed:
		return UnionOf(NewScalarType(ScalarInt), NewScalarType(ScalarFloat))
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers((*TypeDef).ToNumber)
	}
	return NewNeverType()
}

// ToInteger returns the integer coercion of shapes of this type.
func (t *TypeDef) ToInteger() TypeDef {
	switch t.Kind {
	case KindConstant:
		switch t.Scalar {
		case ScalarInt:
			return *t
		case ScalarFloat:
			if f, convErr := strconv.ParseFloat(t.Literal, 64); convErr == nil {
				return NewConstantScalar(ScalarInt, strconv.FormatInt(int64(f), 10))
			}
		case ScalarBool:
			if t.Literal == "true" {
				return NewConstantScalar(ScalarInt, "1")
			}
			return NewConstantScalar(ScalarInt, "0")
		case ScalarNull:
			return NewConstantScalar(ScalarInt, "0")
		}
		return NewScalarType(ScalarInt)
	case KindNever:
		return NewNeverType()
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers((*TypeDef).ToInteger)
	}
	return NewScalarType(ScalarInt)
}

// ToFloat returns the float coercion of shapes of this type.
func (t *TypeDef) ToFloat() TypeDef {
	switch t.Kind {
	case KindConstant:
		switch t.Scalar {
		case ScalarFloat:
			return *t
		case ScalarInt:
			return NewConstantScalar(ScalarFloat, t.Literal)
		case ScalarNull:
			return NewConstantScalar(ScalarFloat, "0")
		}
		return NewScalarType(ScalarFloat)
	case KindNever:
		return NewNeverType()
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers((*TypeDef).ToFloat)
	}
	return NewScalarType(ScalarFloat)
}

// ToString returns the string coercion of shapes of this type. Arrays and
// records have no string form.
func (t *TypeDef) ToString() TypeDef {
	switch t.Kind {
	case KindScalar:
		if t.Scalar == ScalarString {
			return *t
		}
		return NewScalarType(ScalarString)
	case KindConstant:
		switch t.Scalar {
		case ScalarString:
			return *t
		case ScalarInt, ScalarFloat:
			return NewConstantScalar(ScalarString, t.Literal)
		}
		return NewScalarType(ScalarString)
	case KindArray, KindRecord, KindNever:
		return NewNeverType()
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers((*TypeDef).ToString)
	}
	return NewScalarType(ScalarString)
}

// ToArray returns the array coercion of shapes of this type. Scalars wrap
// into a single-entry record; null becomes the empty record.
func (t *TypeDef) ToArray() TypeDef {
	switch t.Kind {
	case KindArray, KindRecord:
		return *t
	case KindScalar, KindConstant:
		if t.Scalar == ScalarNull {
			return NewRecordType(nil)
		}
		return NewRecordType([]RecordEntry{
			{Key: NewConstantScalar(ScalarInt, "0"), Value: *t},
		})
	case KindCallable:
		return NewRecordType([]RecordEntry{
			{Key: NewConstantScalar(ScalarInt, "0"), Value: *t},
		})
	case KindObject:
		return NewArrayType(NewScalarType(ScalarString), NewMixedType())
	case KindNever:
		return NewNeverType()
	case KindUnion, KindIntersection:
		return t.normalizedOverMembers((*TypeDef).ToArray)
	}
	return NewArrayType(NewMixedType(), NewMixedType())
}

// ResolveStatic replaces late-bound class references with the given class
// name, recursing through nested types. A union is rebuilt member by
// member with the same arity.
//
// Parameters:
//
//	class string: The class name the static context resolves to.
//
// Returns:
//
//	TypeDef: The resolved type.
func (t *TypeDef) ResolveStatic(class string) TypeDef {
	switch t.Kind {
	case KindObject:
		if t.ClassName == StaticRefName {
			return NewNamedObjectType(class)
		}
	case KindArray:
		return NewArrayType(t.KeyType.ResolveStatic(class), t.ValueType.ResolveStatic(class))
	case KindRecord:
		return t.mapEntries(func(v *TypeDef) TypeDef { return v.ResolveStatic(class) })
	case KindCallable:
		return t.mapSignature(func(v *TypeDef) TypeDef { return v.ResolveStatic(class) })
	case KindUnion, KindIntersection:
		return t.rebuildMembers(func(m *TypeDef) TypeDef { return m.ResolveStatic(class) })
	}
	return *t
}

// ChangeBaseClass rebinds contextual class references (self, parent,
// static) to the given class name, recursing through nested types.
//
// Parameters:
//
//	class string: The class name of the new base.
//
// Returns:
//
//	TypeDef: The rebased type.
func (t *TypeDef) ChangeBaseClass(class string) TypeDef {
	switch t.Kind {
	case KindObject:
		if isContextualRef(t.ClassName) {
			return NewNamedObjectType(class)
		}
	case KindArray:
		return NewArrayType(t.KeyType.ChangeBaseClass(class), t.ValueType.ChangeBaseClass(class))
	case KindRecord:
		return t.mapEntries(func(v *TypeDef) TypeDef { return v.ChangeBaseClass(class) })
	case KindCallable:
		return t.mapSignature(func(v *TypeDef) TypeDef { return v.ChangeBaseClass(class) })
	case KindUnion, KindIntersection:
		return t.rebuildMembers(func(m *TypeDef) TypeDef { return m.ChangeBaseClass(class) })
	}
	return *t
}

// ReferencedClasses enumerates the class names this type refers to,
// deduplicated and sorted for deterministic bookkeeping.
//
// Returns:
//
//	[]string: The referenced class names.
func (t *TypeDef) ReferencedClasses() []string {
	switch t.Kind {
	case KindObject:
		return []string{t.ClassName}
	case KindArray:
		return mergeClassNames(t.KeyType.ReferencedClasses(), t.ValueType.ReferencedClasses())
	case KindRecord:
		var names []string
		for i := range t.Entries {
			names = mergeClassNames(names, t.Entries[i].Value.ReferencedClasses())
		}
		return names
	case KindCallable:
		names := t.Return.ReferencedClasses()
		for i := range t.Params {
			names = mergeClassNames(names, t.Params[i].Type.ReferencedClasses())
		}
		return names
	case KindUnion, KindIntersection:
		var names []string
		for i := range t.Members {
			names = mergeClassNames(names, t.Members[i].ReferencedClasses())
		}
		return names
	}
	return nil
}

// mergeClassNames merges two class-name lists into a deduplicated, sorted
// list.
func mergeClassNames(a, b []string) []string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	merged := set.From(a)
	merged.InsertSlice(b)
	out := merged.Slice()
	sort.Strings(out)
	return out
}

// isContextualRef reports whether the class name is a late-bound reference
// resolved against the enclosing static context.
func isContextualRef(name string) bool {
	switch name {
	case SelfRefName, StaticRefName, ParentRefName:
		return true
	}
	return false
}

// constantTruthiness evaluates the boolean value of a constant scalar.
func constantTruthiness(t *TypeDef) bool {
	switch t.Scalar {
	case ScalarBool:
		return t.Literal == "true"
	case ScalarInt, ScalarFloat:
		trimmed := strings.TrimLeft(t.Literal, "0.")
		return trimmed != "" && t.Literal != "0"
	case ScalarString:
		return t.Literal != "" && t.Literal != "0"
	}
	return false
}

// normalizedOverMembers maps the operation over the members and combines
// the results through the installed normalizer.
func (t *TypeDef) normalizedOverMembers(op func(*TypeDef) TypeDef) TypeDef {
	results := make([]TypeDef, len(t.Members))
	for i := range t.Members {
		results[i] = op(&t.Members[i])
	}
	return UnionOf(results...)
}

// rebuildMembers maps the operation over the members and re-wraps the
// result with the same arity. No renormalization is needed: member count
// and kind compatibility are preserved by construction.
func (t *TypeDef) rebuildMembers(op func(*TypeDef) TypeDef) TypeDef {
	results := make([]TypeDef, len(t.Members))
	for i := range t.Members {
		results[i] = op(&t.Members[i])
	}
	if t.Kind == KindIntersection {
		return NewIntersectionType(results)
	}
	rebuilt, uerr := NewUnionType(results)
	if uerr != nil {
		// unreachable: arity and non-union member kinds are preserved
		return results[0]
	}
	return rebuilt
}

// mapEntries returns a record with every entry value transformed.
func (t *TypeDef) mapEntries(op func(*TypeDef) TypeDef) TypeDef {
	entries := make([]RecordEntry, len(t.Entries))
	for i := range t.Entries {
		entries[i] = RecordEntry{
			Key:      t.Entries[i].Key,
			Value:    op(&t.Entries[i].Value),
			Optional: t.Entries[i].Optional,
		}
	}
	return NewRecordType(entries)
}

// mapSignature returns a callable with parameter and return types
// transformed.
func (t *TypeDef) mapSignature(op func(*TypeDef) TypeDef) TypeDef {
	params := make([]ParameterAcceptor, len(t.Params))
	for i := range t.Params {
		params[i] = ParameterAcceptor{
			Name:     t.Params[i].Name,
			Type:     op(&t.Params[i].Type),
			Optional: t.Params[i].Optional,
			Variadic: t.Params[i].Variadic,
		}
	}
	return NewCallableType(params, op(t.Return))
}
