package types

import (
	verr "github.com/vhavlena/typelattice/pkg/err"
)

// VerbosityLevel selects how much detail a type description exposes.
type VerbosityLevel string

const (
	// VerbosityTypeOnly renders structural summaries for human-facing
	// output; literal values are widened to their scalar kinds.
	VerbosityTypeOnly VerbosityLevel = "type"
	// VerbosityValue renders exact literal values where they matter.
	VerbosityValue VerbosityLevel = "value"
)

// Dispatch selects the caller-supplied handler for the level. The handler
// map is open for additional levels; invoking Dispatch with a level the
// caller supplied no handler for is a contract violation.
//
// Parameters:
//
//	handlers map[VerbosityLevel]func() string: One handler per supported level.
//
// Returns:
//
//	string: The handler result.
//	error: An error wrapping err.ErrInvariant when no handler matches.
func (l VerbosityLevel) Dispatch(handlers map[VerbosityLevel]func() string) (string, error) {
	h, ok := handlers[l]
	if !ok {
		return "", verr.ErrNoVerbosityHandler(string(l))
	}
	return h(), nil
}
