package types

import (
	"github.com/vhavlena/typelattice/pkg/trilean"
)

// Accepts reports whether this type, as the declared/expected type, may
// include the candidate's shapes. A union accepts a non-compound candidate
// when any member accepts it; compound candidates are resolved through the
// registered compound comparisons so the more specific compound side
// decides. Maybe counts as accepted: acceptance is open-world.
//
// Parameters:
//
//	other *TypeDef: The candidate type.
//
// Returns:
//
//	bool: True if the candidate is not definitely rejected.
func (t *TypeDef) Accepts(other *TypeDef) bool {
	if other.Kind == KindUnion {
		if cmp, ok := lookupCompoundComparison(other.Kind, t.Kind); ok {
			return !cmp(other, t).IsNo()
		}
		// every alternative of the candidate must fit the declared type
		for i := range other.Members {
			if !t.Accepts(&other.Members[i]) {
				return false
			}
		}
		return true
	}
	if t.Kind == KindUnion {
		if isCompound(other.Kind) {
			if cmp, ok := lookupCompoundComparison(other.Kind, t.Kind); ok {
				return !cmp(other, t).IsNo()
			}
			return !other.IsSubTypeOf(t).IsNo()
		}
		for i := range t.Members {
			if t.Members[i].Accepts(other) {
				return true
			}
		}
		return false
	}
	return !t.IsSuperTypeOf(other).IsNo()
}

// IsSuperTypeOf reports whether this type's set of shapes includes the
// other type's shapes. For a union the result is the disjunction over its
// members: any alternative able to host the other type suffices. When only
// the other side is compound, the comparison is delegated there so the
// more specific compound kind decides.
//
// Parameters:
//
//	other *TypeDef: The type to compare against.
//
// Returns:
//
//	trilean.Value: Yes, No, or Maybe.
func (t *TypeDef) IsSuperTypeOf(other *TypeDef) trilean.Value {
	if isCompound(other.Kind) && !isCompound(t.Kind) {
		return other.IsSubTypeOf(t)
	}

	switch t.Kind {
	case KindUnion:
		vs := make([]trilean.Value, len(t.Members))
		for i := range t.Members {
			vs[i] = t.Members[i].IsSuperTypeOf(other)
		}
		return trilean.Or(vs...)
	case KindIntersection:
		vs := make([]trilean.Value, len(t.Members))
		for i := range t.Members {
			vs[i] = t.Members[i].IsSuperTypeOf(other)
		}
		return trilean.And(vs...)
	case KindMixed:
		return trilean.Yes
	case KindNever:
		return trilean.FromBool(other.Kind == KindNever)
	}

	if other.Kind == KindNever {
		return trilean.Yes
	}
	if other.Kind == KindMixed {
		return trilean.Maybe
	}

	switch t.Kind {
	case KindScalar:
		if (other.Kind == KindScalar || other.Kind == KindConstant) && other.Scalar == t.Scalar {
			return trilean.Yes
		}
		return trilean.No
	case KindConstant:
		if other.Kind == KindConstant && other.Scalar == t.Scalar {
			return trilean.FromBool(other.Literal == t.Literal)
		}
		if other.Kind == KindScalar && other.Scalar == t.Scalar {
			// a general value of the kind might happen to be this literal
			return trilean.Maybe
		}
		return trilean.No
	case KindArray:
		return t.arrayIsSuperTypeOf(other)
	case KindRecord:
		return t.recordIsSuperTypeOf(other)
	case KindObject:
		return t.objectIsSuperTypeOf(other)
	case KindCallable:
		return t.callableIsSuperTypeOf(other)
	}
	return trilean.No
}

// IsSubTypeOf reports whether this type's shapes are all included in the
// other type. A union is only definitely a subtype when every alternative
// is, and definitely not one when no alternative is; registered compound
// comparisons take precedence so special compound kinds can widen the
// rules.
//
// Parameters:
//
//	other *TypeDef: The type to compare against.
//
// Returns:
//
//	trilean.Value: Yes, No, or Maybe.
func (t *TypeDef) IsSubTypeOf(other *TypeDef) trilean.Value {
	switch t.Kind {
	case KindUnion:
		if cmp, ok := lookupCompoundComparison(KindUnion, other.Kind); ok {
			return cmp(t, other)
		}
		vs := make([]trilean.Value, len(t.Members))
		for i := range t.Members {
			vs[i] = other.IsSuperTypeOf(&t.Members[i])
		}
		return trilean.Uniform(vs...)
	case KindIntersection:
		if cmp, ok := lookupCompoundComparison(KindIntersection, other.Kind); ok {
			return cmp(t, other)
		}
		vs := make([]trilean.Value, len(t.Members))
		for i := range t.Members {
			vs[i] = t.Members[i].IsSubTypeOf(other)
		}
		return trilean.Or(vs...)
	}
	return other.IsSuperTypeOf(t)
}

// arrayIsSuperTypeOf compares a general array against the other type.
func (t *TypeDef) arrayIsSuperTypeOf(other *TypeDef) trilean.Value {
	switch other.Kind {
	case KindArray:
		return trilean.And(
			t.KeyType.IsSuperTypeOf(other.KeyType),
			t.ValueType.IsSuperTypeOf(other.ValueType),
		)
	case KindRecord:
		result := trilean.Yes
		for i := range other.Entries {
			e := &other.Entries[i]
			fit := trilean.And(
				t.KeyType.IsSuperTypeOf(&e.Key),
				t.ValueType.IsSuperTypeOf(&e.Value),
			)
			if e.Optional && fit.IsNo() {
				// the entry may be absent and the instance still fit
				fit = trilean.Maybe
			}
			result = trilean.And(result, fit)
		}
		return result
	}
	return trilean.No
}

// recordIsSuperTypeOf compares a fixed-shape record against the other
// type. A record hosts another record only when required keys are covered,
// values fit per key, and the other record carries no extra keys. Optional
// keys on the candidate side never yield a definite answer: the key may be
// absent from the runtime instance, so a required host key matched only
// optionally, or an extra optional candidate key, both downgrade to Maybe.
func (t *TypeDef) recordIsSuperTypeOf(other *TypeDef) trilean.Value {
	switch other.Kind {
	case KindRecord:
		matched := make([]bool, len(other.Entries))
		result := trilean.Yes
		for i := range t.Entries {
			e := &t.Entries[i]
			found := false
			for j := range other.Entries {
				o := &other.Entries[j]
				if e.Key.Equals(&o.Key) {
					matched[j] = true
					found = true
					result = trilean.And(result, e.Value.IsSuperTypeOf(&o.Value))
					if o.Optional && !e.Optional {
						// the instance may omit a key this shape requires
						result = trilean.And(result, trilean.Maybe)
					}
					break
				}
			}
			if !found && !e.Optional {
				return trilean.No
			}
		}
		for j := range matched {
			if !matched[j] {
				if other.Entries[j].Optional {
					// the extra key may be absent from the instance
					result = trilean.And(result, trilean.Maybe)
					continue
				}
				return trilean.No
			}
		}
		return result
	case KindArray:
		// a general array might happen to carry exactly this shape
		return trilean.Maybe
	}
	return trilean.No
}

// objectIsSuperTypeOf compares an object shape against the other type
// using the class hierarchy exposed by reflection. Unresolved hierarchies
// stay undecided.
func (t *TypeDef) objectIsSuperTypeOf(other *TypeDef) trilean.Value {
	if other.Kind != KindObject {
		return trilean.No
	}
	down := classDescendsFrom(other, t.ClassName)
	if down.IsYes() {
		return trilean.Yes
	}
	if classDescendsFrom(t, other.ClassName).IsYes() {
		// this type is the narrower class; the other's instance might be it
		return trilean.Maybe
	}
	if down.IsMaybe() {
		return trilean.Maybe
	}
	return trilean.No
}

// classDescendsFrom reports whether the object's class is the named class
// or one of its descendants. Without reflection backing the hierarchy is
// unknown.
func classDescendsFrom(t *TypeDef, ancestor string) trilean.Value {
	if t.ClassName == ancestor {
		return trilean.Yes
	}
	if t.Class == nil {
		return trilean.Maybe
	}
	for _, a := range t.Class.Ancestors() {
		if a == ancestor {
			return trilean.Yes
		}
	}
	return trilean.No
}

// callableIsSuperTypeOf compares a callable signature against the other
// type: covariant return, contravariant parameters, matching arity.
func (t *TypeDef) callableIsSuperTypeOf(other *TypeDef) trilean.Value {
	switch other.Kind {
	case KindCallable:
		if len(t.Params) != len(other.Params) {
			return trilean.No
		}
		result := t.Return.IsSuperTypeOf(other.Return)
		for i := range t.Params {
			result = trilean.And(result,
				other.Params[i].Type.IsSuperTypeOf(&t.Params[i].Type))
		}
		return result
	case KindObject:
		if other.Class == nil {
			return trilean.Maybe
		}
		return trilean.FromBool(other.Class.IsInvokable())
	}
	return trilean.No
}
