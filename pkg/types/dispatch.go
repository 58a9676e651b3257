package types

import (
	"github.com/vhavlena/typelattice/pkg/trilean"
)

// CompoundComparison decides whether the compound type on the left is a
// subtype of the type on the right. Registering one per compound kind pair
// lets two compound kinds agree on how to compare without recursing into
// each other's member lists from the wrong side.
type CompoundComparison func(compound, other *TypeDef) trilean.Value

var compoundComparisons = map[[2]TypeKind]CompoundComparison{}

// RegisterCompoundComparison installs the comparison used when a compound
// type of the given kind is asked whether it is a subtype of a type of the
// other kind. Call it during engine setup, before analysis workers start;
// the registry is not synchronized.
//
// Parameters:
//
//	compound TypeKind: The compound kind on the left of the comparison.
//	other TypeKind: The kind on the right of the comparison.
//	cmp CompoundComparison: The comparison to install.
func RegisterCompoundComparison(compound, other TypeKind, cmp CompoundComparison) {
	compoundComparisons[[2]TypeKind{compound, other}] = cmp
}

// lookupCompoundComparison returns the registered comparison for the kind
// pair, if any.
func lookupCompoundComparison(compound, other TypeKind) (CompoundComparison, bool) {
	cmp, ok := compoundComparisons[[2]TypeKind{compound, other}]
	return cmp, ok
}
