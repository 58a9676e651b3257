package types

import (
	"testing"

	"github.com/vhavlena/typelattice/pkg/trilean"
)

// Not parallel: the comparison registry is package-global state shared
// with every subtyping call.
func TestCompoundComparisonRegistry(t *testing.T) {
	intType := NewScalarType(ScalarInt)
	u := mustUnion(t, NewScalarType(ScalarInt), NewScalarType(ScalarString))
	inter := NewIntersectionType([]TypeDef{
		NewNamedObjectType("Countable"),
		NewNamedObjectType("Traversable"),
	})

	// without a registered entry the default per-member rules decide
	if got := u.IsSubTypeOf(&intType); got != trilean.Maybe {
		t.Errorf("expected per-member fallback to yield maybe, got %v", got)
	}
	if intType.Accepts(&u) {
		t.Error("expected the string alternative to block acceptance")
	}
	if got := inter.IsSubTypeOf(&intType); got != trilean.No {
		t.Errorf("expected per-member fallback to yield no, got %v", got)
	}

	unionKey := [2]TypeKind{KindUnion, KindScalar}
	interKey := [2]TypeKind{KindIntersection, KindScalar}
	defer func() {
		delete(compoundComparisons, unionKey)
		delete(compoundComparisons, interKey)
	}()
	RegisterCompoundComparison(KindUnion, KindScalar,
		func(compound, other *TypeDef) trilean.Value {
			return trilean.Yes
		})
	RegisterCompoundComparison(KindIntersection, KindScalar,
		func(compound, other *TypeDef) trilean.Value {
			return trilean.Maybe
		})

	// a registered comparison takes precedence over member iteration
	if got := u.IsSubTypeOf(&intType); got != trilean.Yes {
		t.Errorf("expected registered comparison to decide, got %v", got)
	}
	if !intType.Accepts(&u) {
		t.Error("expected acceptance through the registered comparison")
	}
	if got := inter.IsSubTypeOf(&intType); got != trilean.Maybe {
		t.Errorf("expected registered comparison to decide, got %v", got)
	}

	// unregistered kind pairs keep falling back to member iteration
	obj := NewNamedObjectType("Countable")
	if got := u.IsSubTypeOf(&obj); got != trilean.No {
		t.Errorf("expected fallback for unregistered pair, got %v", got)
	}
}
