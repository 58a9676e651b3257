package types

import (
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Describe returns a human-readable rendering of the type at the given
// verbosity level. Rendering is deterministic: the same type value always
// yields the same text, and unions render identically regardless of the
// member order they were constructed from.
//
// Parameters:
//
//	level VerbosityLevel: The rendering mode.
//
// Returns:
//
//	string: The rendered type.
func (t *TypeDef) Describe(level VerbosityLevel) string {
	switch t.Kind {
	case KindNever:
		return "never"
	case KindMixed:
		return "mixed"
	case KindScalar:
		return string(t.Scalar)
	case KindConstant:
		return t.describeConstant(level)
	case KindArray:
		return "array<" + t.KeyType.Describe(level) + ", " + t.ValueType.Describe(level) + ">"
	case KindRecord:
		return t.describeRecord(level)
	case KindObject:
		return t.ClassName
	case KindCallable:
		return t.describeCallable(level)
	case KindIntersection:
		parts := make([]string, len(t.Members))
		for i := range t.Members {
			parts[i] = t.Members[i].Describe(level)
		}
		return strings.Join(parts, "&")
	case KindUnion:
		return t.describeUnion(level)
	}
	return "invalid"
}

// describeConstant renders a literal scalar: the exact literal in value
// mode, the widened scalar kind otherwise. Boolean literals stay literal
// in every mode.
func (t *TypeDef) describeConstant(level VerbosityLevel) string {
	rendered, derr := level.Dispatch(map[VerbosityLevel]func() string{
		VerbosityValue: func() string {
			return t.constantLiteral()
		},
		VerbosityTypeOnly: func() string {
			if t.Scalar == ScalarBool {
				return t.Literal
			}
			return string(t.Scalar)
		},
	})
	if derr != nil {
		return "invalid"
	}
	return rendered
}

// constantLiteral renders the literal in source form, quoting strings.
func (t *TypeDef) constantLiteral() string {
	if t.Scalar == ScalarString {
		return "'" + t.Literal + "'"
	}
	return t.Literal
}

// describeRecord renders a fixed-shape record as array(k => v, ...), with
// optional keys marked by a leading question mark.
func (t *TypeDef) describeRecord(level VerbosityLevel) string {
	if len(t.Entries) == 0 {
		return "array()"
	}
	parts := make([]string, 0, len(t.Entries))
	for i := range t.Entries {
		e := &t.Entries[i]
		prefix := ""
		if e.Optional {
			prefix = "?"
		}
		parts = append(parts, prefix+recordKeyString(&e.Key)+" => "+e.Value.Describe(level))
	}
	return "array(" + strings.Join(parts, ", ") + ")"
}

// recordKeyString renders a record key: string keys bare, other constants
// in literal form.
func recordKeyString(key *TypeDef) string {
	if key.Kind == KindConstant && key.Scalar == ScalarString {
		return key.Literal
	}
	return key.Describe(VerbosityValue)
}

// describeCallable renders a callable signature.
func (t *TypeDef) describeCallable(level VerbosityLevel) string {
	params := make([]string, len(t.Params))
	for i := range t.Params {
		params[i] = t.Params[i].Type.Describe(level)
		if t.Params[i].Variadic {
			params[i] = "..." + params[i]
		}
	}
	return "callable(" + strings.Join(params, ", ") + "): " + t.Return.Describe(level)
}

// describeUnion renders the union in one of two modes. Value mode widens
// literal members (booleans exempt), re-normalizes, and joins the
// resulting members with "|", suppressing duplicate renderings. Structural
// mode folds fixed-shape records that share keys into a single synthetic
// record with per-key optionality.
func (t *TypeDef) describeUnion(level VerbosityLevel) string {
	rendered, derr := level.Dispatch(map[VerbosityLevel]func() string{
		VerbosityValue:    t.describeUnionValues,
		VerbosityTypeOnly: t.describeUnionStructure,
	})
	if derr != nil {
		return "invalid"
	}
	return rendered
}

// describeUnionValues implements the precise/value rendering mode.
func (t *TypeDef) describeUnionValues() string {
	generalized := make([]TypeDef, len(t.Members))
	for i := range t.Members {
		generalized[i] = t.Members[i].GeneralizedType()
	}
	// generalizing can re-collapse members, e.g. two int literals into int
	norm := UnionOf(generalized...)
	if norm.Kind != KindUnion {
		return norm.Describe(VerbosityValue)
	}
	return joinMembers(norm.Members, VerbosityValue)
}

// describeUnionStructure implements the structural/default rendering mode.
func (t *TypeDef) describeUnionStructure() string {
	var records, others []TypeDef
	for i := range t.Members {
		if t.Members[i].Kind == KindRecord {
			records = append(records, t.Members[i])
		} else {
			others = append(others, t.Members[i])
		}
	}

	if !recordsShareKeys(records) {
		// no merge benefit, plain join of all members in canonical order
		resorted := make([]TypeDef, len(t.Members))
		copy(resorted, t.Members)
		sortMembers(resorted)
		return joinMembers(resorted, VerbosityTypeOnly)
	}

	merged := foldRecords(records)
	if len(others) == 0 {
		return merged
	}
	return joinMembers(others, VerbosityTypeOnly) + "|" + merged
}

// recordsShareKeys reports whether at least two of the records carry a
// common key, which is the precondition for the merged rendering.
func recordsShareKeys(records []TypeDef) bool {
	if len(records) < 2 {
		return false
	}
	counts := make(map[string]int)
	for i := range records {
		for j := range records[i].Entries {
			k := recordKeyString(&records[i].Entries[j].Key)
			counts[k]++
			if counts[k] > 1 {
				return true
			}
		}
	}
	return false
}

// foldRecords builds the synthetic per-key description of the records: the
// value type of each key is the normalized union across every record that
// carries the key, and keys absent from at least one record are marked
// optional.
func foldRecords(records []TypeDef) string {
	type keyAggregate struct {
		rendered string
		values   []TypeDef
		count    int
	}
	var order []string
	aggregates := make(map[string]*keyAggregate)
	for i := range records {
		for j := range records[i].Entries {
			e := &records[i].Entries[j]
			k := recordKeyString(&e.Key)
			agg, ok := aggregates[k]
			if !ok {
				agg = &keyAggregate{rendered: k}
				aggregates[k] = agg
				order = append(order, k)
			}
			agg.values = append(agg.values, e.Value)
			agg.count++
		}
	}

	parts := make([]string, 0, len(order))
	for _, k := range order {
		agg := aggregates[k]
		prefix := ""
		if agg.count < len(records) {
			prefix = "?"
		}
		value := UnionOf(agg.values...)
		parts = append(parts, prefix+agg.rendered+" => "+value.Describe(VerbosityTypeOnly))
	}
	return "array(" + strings.Join(parts, ", ") + ")"
}

// joinMembers renders the members and joins them with "|", suppressing
// duplicate renderings and parenthesizing compound members.
func joinMembers(members []TypeDef, level VerbosityLevel) string {
	seen := set.New[string](len(members))
	parts := make([]string, 0, len(members))
	for i := range members {
		s := members[i].Describe(level)
		if members[i].Kind == KindIntersection || members[i].Kind == KindCallable {
			s = "(" + s + ")"
		}
		if seen.Contains(s) {
			continue
		}
		seen.Insert(s)
		parts = append(parts, s)
	}
	return strings.Join(parts, "|")
}
