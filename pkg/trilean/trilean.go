// Package trilean implements the three-valued logic used by the type
// lattice. A query against a type whose members may disagree (e.g. a union
// of an object and an integer asked "can you be iterated?") cannot always
// be answered with a boolean; the third state records that the answer
// depends on which alternative materializes at runtime.
package trilean

// Value represents a three-valued logic result
type Value string

const (
	Yes   Value = "yes"
	No    Value = "no"
	Maybe Value = "maybe"
)

// FromBool converts a boolean into a definite Value.
//
// Parameters:
//
//	b bool: The boolean to convert.
//
// Returns:
//
//	Value: Yes when b is true, No otherwise.
func FromBool(b bool) Value {
	if b {
		return Yes
	}
	return No
}

// IsYes returns true if the value is definitely yes
func (v Value) IsYes() bool {
	return v == Yes
}

// IsNo returns true if the value is definitely no
func (v Value) IsNo() bool {
	return v == No
}

// IsMaybe returns true if the value is undecided
func (v Value) IsMaybe() bool {
	return v == Maybe
}

// Negate returns the logical negation of the value. Maybe is its own
// negation.
//
// Returns:
//
//	Value: No for Yes, Yes for No, Maybe for Maybe.
func (v Value) Negate() Value {
	switch v {
	case Yes:
		return No
	case No:
		return Yes
	case Maybe:
		return Maybe
	}
	return Maybe
}

// And combines the values conjunctively.
//
// Parameters:
//
//	vs ...Value: The values to combine. Callers always supply at least one.
//
// Returns:
//
//	Value: Yes if all values are Yes, No if any value is No, Maybe otherwise.
func And(vs ...Value) Value {
	result := Yes
	for _, v := range vs {
		if v == No {
			return No
		}
		if v == Maybe {
			result = Maybe
		}
	}
	return result
}

// Or combines the values disjunctively.
//
// Parameters:
//
//	vs ...Value: The values to combine. Callers always supply at least one.
//
// Returns:
//
//	Value: Yes if any value is Yes, No if all values are No, Maybe otherwise.
func Or(vs ...Value) Value {
	result := No
	for _, v := range vs {
		if v == Yes {
			return Yes
		}
		if v == Maybe {
			result = Maybe
		}
	}
	return result
}

// Uniform reports whether all values agree on a definite answer. It differs
// from And in that a single No among mixed Yes/Maybe inputs does not force
// No; the result is only definite when every input carries the same definite
// value. This models "uniform capability across all alternatives": a union
// supports an operation outright only when every member does, rejects it
// outright only when no member does, and is undecided in between.
//
// Parameters:
//
//	vs ...Value: The values to combine. Callers always supply at least one.
//
// Returns:
//
//	Value: Yes if all values are Yes, No if all values are No, Maybe otherwise.
func Uniform(vs ...Value) Value {
	allYes := true
	allNo := true
	for _, v := range vs {
		if v != Yes {
			allYes = false
		}
		if v != No {
			allNo = false
		}
	}
	if allYes {
		return Yes
	}
	if allNo {
		return No
	}
	return Maybe
}

// And combines the receiver conjunctively with the given values.
func (v Value) And(vs ...Value) Value {
	return And(append([]Value{v}, vs...)...)
}

// Or combines the receiver disjunctively with the given values.
func (v Value) Or(vs ...Value) Value {
	return Or(append([]Value{v}, vs...)...)
}
