package types

// Normalizer builds a single type value out of a non-empty member list.
// The semantic result is commutative in its inputs; nested unions are
// flattened, members wholly subsumed by another member are dropped, and a
// single surviving shape is returned as that plain type rather than a
// one-member union.
//
// The analysis engine may install its own combinator via SetNormalizer;
// the bundled StandardNormalizer implements exactly the contract above.
type Normalizer interface {
	Union(members []TypeDef) TypeDef
}

var activeNormalizer Normalizer = StandardNormalizer{}

// SetNormalizer installs the union combinator used by type operations that
// merge per-member results. Call it once during engine setup, before any
// analysis workers start; the core does not synchronize the swap.
//
// Parameters:
//
//	n Normalizer: The combinator to install.
func SetNormalizer(n Normalizer) {
	activeNormalizer = n
}

// UnionOf combines the given types through the installed normalizer.
//
// Parameters:
//
//	members ...TypeDef: The types to combine; at least one.
//
// Returns:
//
//	TypeDef: The normalized disjunction of the inputs.
func UnionOf(members ...TypeDef) TypeDef {
	return activeNormalizer.Union(members)
}

// StandardNormalizer is the bundled union combinator.
type StandardNormalizer struct{}

// Union combines the members into a normalized disjunction: nested unions
// are absorbed, the bottom type is dropped, structural duplicates are
// removed, and members definitely subsumed by another member are dropped.
//
// Parameters:
//
//	members []TypeDef: The types to combine; at least one.
//
// Returns:
//
//	TypeDef: The bottom type for an empty survivor set, the single survivor
//	as a plain type, or a canonical union of the survivors.
func (StandardNormalizer) Union(members []TypeDef) TypeDef {
	flat := make([]TypeDef, 0, len(members))
	for i := range members {
		flat = appendFlattened(flat, members[i])
	}

	// structural dedup, first occurrence wins
	distinct := make([]TypeDef, 0, len(flat))
	for i := range flat {
		dup := false
		for j := range distinct {
			if distinct[j].Equals(&flat[i]) {
				dup = true
				break
			}
		}
		if !dup {
			distinct = append(distinct, flat[i])
		}
	}

	// absorption: drop members another member definitely subsumes
	dropped := make([]bool, len(distinct))
	for i := range distinct {
		for j := range distinct {
			if i == j || dropped[j] {
				continue
			}
			if distinct[j].IsSuperTypeOf(&distinct[i]).IsYes() {
				dropped[i] = true
				break
			}
		}
	}
	kept := make([]TypeDef, 0, len(distinct))
	for i := range distinct {
		if !dropped[i] {
			kept = append(kept, distinct[i])
		}
	}

	switch len(kept) {
	case 0:
		return NewNeverType()
	case 1:
		return kept[0]
	}
	u, uerr := NewUnionType(kept)
	if uerr != nil {
		// unreachable: members are flattened and at least two survive
		return kept[0]
	}
	return u
}

// appendFlattened appends the member to the list, absorbing nested unions
// and dropping the bottom type.
func appendFlattened(list []TypeDef, member TypeDef) []TypeDef {
	switch member.Kind {
	case KindUnion:
		for i := range member.Members {
			list = appendFlattened(list, member.Members[i])
		}
		return list
	case KindNever:
		return list
	}
	return append(list, member)
}
