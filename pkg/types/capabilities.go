package types

import (
	verr "github.com/vhavlena/typelattice/pkg/err"
	"github.com/vhavlena/typelattice/pkg/trilean"
)

// CanAccessProperties reports whether shapes of this type carry named
// properties. A union answers definitely only when its members agree.
func (t *TypeDef) CanAccessProperties() trilean.Value {
	switch t.Kind {
	case KindObject:
		return trilean.Yes
	case KindMixed:
		return trilean.Maybe
	case KindUnion:
		return t.uniformOverMembers((*TypeDef).CanAccessProperties)
	case KindIntersection:
		return t.anyOverMembers((*TypeDef).CanAccessProperties)
	}
	return trilean.No
}

// CanCallMethods reports whether shapes of this type carry named methods.
func (t *TypeDef) CanCallMethods() trilean.Value {
	switch t.Kind {
	case KindObject:
		return trilean.Yes
	case KindMixed:
		return trilean.Maybe
	case KindUnion:
		return t.uniformOverMembers((*TypeDef).CanCallMethods)
	case KindIntersection:
		return t.anyOverMembers((*TypeDef).CanCallMethods)
	}
	return trilean.No
}

// CanAccessConstants reports whether shapes of this type carry named
// constants.
func (t *TypeDef) CanAccessConstants() trilean.Value {
	switch t.Kind {
	case KindObject:
		return trilean.Yes
	case KindMixed:
		return trilean.Maybe
	case KindUnion:
		return t.uniformOverMembers((*TypeDef).CanAccessConstants)
	case KindIntersection:
		return t.anyOverMembers((*TypeDef).CanAccessConstants)
	}
	return trilean.No
}

// IsIterable reports whether shapes of this type can be iterated.
func (t *TypeDef) IsIterable() trilean.Value {
	switch t.Kind {
	case KindArray, KindRecord:
		return trilean.Yes
	case KindObject:
		if t.Class == nil {
			return trilean.Maybe
		}
		return trilean.FromBool(t.Class.IsTraversable())
	case KindMixed:
		return trilean.Maybe
	case KindUnion:
		return t.uniformOverMembers((*TypeDef).IsIterable)
	case KindIntersection:
		return t.anyOverMembers((*TypeDef).IsIterable)
	}
	return trilean.No
}

// IsOffsetAccessible reports whether shapes of this type support indexed
// access. Strings are offset accessible per character.
func (t *TypeDef) IsOffsetAccessible() trilean.Value {
	switch t.Kind {
	case KindArray, KindRecord:
		return trilean.Yes
	case KindScalar, KindConstant:
		return trilean.FromBool(t.Scalar == ScalarString)
	case KindMixed:
		return trilean.Maybe
	case KindUnion:
		return t.uniformOverMembers((*TypeDef).IsOffsetAccessible)
	case KindIntersection:
		return t.anyOverMembers((*TypeDef).IsOffsetAccessible)
	}
	return trilean.No
}

// IsCallable reports whether shapes of this type can be invoked.
func (t *TypeDef) IsCallable() trilean.Value {
	switch t.Kind {
	case KindCallable:
		return trilean.Yes
	case KindObject:
		if t.Class == nil {
			return trilean.Maybe
		}
		return trilean.FromBool(t.Class.IsInvokable())
	case KindMixed:
		return trilean.Maybe
	case KindUnion:
		return t.uniformOverMembers((*TypeDef).IsCallable)
	case KindIntersection:
		return t.anyOverMembers((*TypeDef).IsCallable)
	}
	return trilean.No
}

// IsCloneable reports whether shapes of this type can be cloned.
func (t *TypeDef) IsCloneable() trilean.Value {
	switch t.Kind {
	case KindObject:
		return trilean.Yes
	case KindMixed:
		return trilean.Maybe
	case KindUnion:
		return t.uniformOverMembers((*TypeDef).IsCloneable)
	case KindIntersection:
		return t.anyOverMembers((*TypeDef).IsCloneable)
	}
	return trilean.No
}

// uniformOverMembers combines a capability probe across union members:
// the union's answer is definite only when every alternative agrees.
func (t *TypeDef) uniformOverMembers(probe func(*TypeDef) trilean.Value) trilean.Value {
	vs := make([]trilean.Value, len(t.Members))
	for i := range t.Members {
		vs[i] = probe(&t.Members[i])
	}
	return trilean.Uniform(vs...)
}

// anyOverMembers combines a capability probe across intersection members:
// any part granting the capability grants it for the whole.
func (t *TypeDef) anyOverMembers(probe func(*TypeDef) trilean.Value) trilean.Value {
	vs := make([]trilean.Value, len(t.Members))
	for i := range t.Members {
		vs[i] = probe(&t.Members[i])
	}
	return trilean.Or(vs...)
}

// HasProperty checks if every property-bearing alternative of this type
// declares the named property.
//
// Parameters:
//
//	name string: The property name.
//
// Returns:
//
//	bool: True if the property access is unambiguous across alternatives
func (t *TypeDef) HasProperty(name string) bool {
	switch t.Kind {
	case KindObject:
		return t.Class != nil && t.Class.HasProperty(name)
	case KindUnion:
		return t.hasAcrossMembers(
			(*TypeDef).CanAccessProperties,
			func(m *TypeDef) bool { return m.HasProperty(name) },
		)
	case KindIntersection:
		for i := range t.Members {
			if t.Members[i].HasProperty(name) {
				return true
			}
		}
	}
	return false
}

// HasMethod checks if every method-bearing alternative of this type
// declares the named method.
func (t *TypeDef) HasMethod(name string) bool {
	switch t.Kind {
	case KindObject:
		return t.Class != nil && t.Class.HasMethod(name)
	case KindUnion:
		return t.hasAcrossMembers(
			(*TypeDef).CanCallMethods,
			func(m *TypeDef) bool { return m.HasMethod(name) },
		)
	case KindIntersection:
		for i := range t.Members {
			if t.Members[i].HasMethod(name) {
				return true
			}
		}
	}
	return false
}

// HasConstant checks if every constant-bearing alternative of this type
// declares the named constant.
func (t *TypeDef) HasConstant(name string) bool {
	switch t.Kind {
	case KindObject:
		return t.Class != nil && t.Class.HasConstant(name)
	case KindUnion:
		return t.hasAcrossMembers(
			(*TypeDef).CanAccessConstants,
			func(m *TypeDef) bool { return m.HasConstant(name) },
		)
	case KindIntersection:
		for i := range t.Members {
			if t.Members[i].HasConstant(name) {
				return true
			}
		}
	}
	return false
}

// hasAcrossMembers implements the existence policy for unions: members
// incapable of the access kind at all are excluded from the agreement
// requirement, but the named member must exist on every capability-bearing
// alternative, otherwise the access is ambiguous at one of the possible
// runtime shapes.
func (t *TypeDef) hasAcrossMembers(capable func(*TypeDef) trilean.Value, has func(*TypeDef) bool) bool {
	capableCount := 0
	holding := 0
	for i := range t.Members {
		m := &t.Members[i]
		if capable(m).IsNo() {
			continue
		}
		capableCount++
		if has(m) {
			holding++
		}
	}
	return capableCount > 0 && holding == capableCount
}

// GetProperty resolves the named property on the first alternative (in
// canonical order) able to carry properties. Invoking it when no
// alternative is capable is a contract violation; check HasProperty or
// CanAccessProperties first.
//
// Parameters:
//
//	scope Scope: The analysis context, passed through to reflection.
//	name string: The property name.
//
// Returns:
//
//	PropertyReflection: The resolved property.
//	error: An error wrapping err.ErrInvariant when no alternative is capable.
func (t *TypeDef) GetProperty(scope Scope, name string) (PropertyReflection, error) {
	switch t.Kind {
	case KindObject:
		if t.Class != nil {
			if p, ok := t.Class.GetProperty(scope, name); ok {
				return p, nil
			}
		}
	case KindUnion, KindIntersection:
		for i := range t.Members {
			m := &t.Members[i]
			if m.CanAccessProperties().IsNo() {
				continue
			}
			return m.GetProperty(scope, name)
		}
	}
	return nil, verr.ErrNoCapableMember("property", name)
}

// GetMethod resolves the named method on the first alternative able to
// carry methods. Invoking it when no alternative is capable is a contract
// violation; check HasMethod or CanCallMethods first.
func (t *TypeDef) GetMethod(scope Scope, name string) (MethodReflection, error) {
	switch t.Kind {
	case KindObject:
		if t.Class != nil {
			if m, ok := t.Class.GetMethod(scope, name); ok {
				return m, nil
			}
		}
	case KindUnion, KindIntersection:
		for i := range t.Members {
			m := &t.Members[i]
			if m.CanCallMethods().IsNo() {
				continue
			}
			return m.GetMethod(scope, name)
		}
	}
	return nil, verr.ErrNoCapableMember("method", name)
}

// GetConstant resolves the named constant on the first alternative able to
// carry constants. Invoking it when no alternative is capable is a
// contract violation; check HasConstant or CanAccessConstants first.
func (t *TypeDef) GetConstant(scope Scope, name string) (ConstantReflection, error) {
	switch t.Kind {
	case KindObject:
		if t.Class != nil {
			if c, ok := t.Class.GetConstant(scope, name); ok {
				return c, nil
			}
		}
	case KindUnion, KindIntersection:
		for i := range t.Members {
			m := &t.Members[i]
			if m.CanAccessConstants().IsNo() {
				continue
			}
			return m.GetConstant(scope, name)
		}
	}
	return nil, verr.ErrNoCapableMember("constant", name)
}

// GetCallableAcceptors resolves the call signature of the first
// alternative that is callable. Invoking it when no alternative is
// callable is a contract violation; check IsCallable first.
//
// Parameters:
//
//	scope Scope: The analysis context, passed through to reflection.
//
// Returns:
//
//	[]ParameterAcceptor: The parameter acceptors of the signature.
//	error: An error wrapping err.ErrInvariant when nothing is callable.
func (t *TypeDef) GetCallableAcceptors(scope Scope) ([]ParameterAcceptor, error) {
	switch t.Kind {
	case KindCallable:
		return t.Params, nil
	case KindObject:
		if t.Class != nil && t.Class.IsInvokable() {
			return t.Class.InvokeAcceptors(), nil
		}
	case KindUnion, KindIntersection:
		for i := range t.Members {
			m := &t.Members[i]
			if m.IsCallable().IsNo() {
				continue
			}
			return m.GetCallableAcceptors(scope)
		}
	}
	return nil, verr.ErrNotCallable()
}
