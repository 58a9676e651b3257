// Package err defines common errors for the typelattice project.
package err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvariant marks programmer-error conditions: a malformed union
// construction or a resolver invoked without checking the corresponding
// capability probe first. These indicate a bug in the caller or the
// normalizer, never a property of the analyzed program, and must propagate
// loudly. Ordinary capability absence is represented as data, not as an
// error.
var ErrInvariant = errors.New("type invariant violation")

// ErrTooFewUnionMembers returns an error for a union constructed with
// fewer than two members.
//
// Parameters:
//
//	count int: The number of members supplied.
//
// Returns:
//
//	error: The formatted error, wrapping ErrInvariant.
func ErrTooFewUnionMembers(count int) error {
	return fmt.Errorf("%w: union requires at least 2 members, got %d", ErrInvariant, count)
}

// ErrNestedUnionMember returns an error for a union constructed with a
// member that is itself a union. Unions must be flattened by the normalizer
// before construction.
//
// Parameters:
//
//	descriptions []string: The descriptions of the offending members.
//
// Returns:
//
//	error: The formatted error, wrapping ErrInvariant.
func ErrNestedUnionMember(descriptions []string) error {
	return fmt.Errorf("%w: union members must not be unions themselves: %s",
		ErrInvariant, strings.Join(descriptions, ", "))
}

// ErrNoCapableMember returns an error for a named-member resolver invoked
// on a type none of whose alternatives supports the access kind.
//
// Parameters:
//
//	access string: The access kind, e.g. "property" or "method".
//	name string: The requested member name.
//
// Returns:
//
//	error: The formatted error, wrapping ErrInvariant.
func ErrNoCapableMember(access, name string) error {
	return fmt.Errorf("%w: no member supports %s access for %q", ErrInvariant, access, name)
}

// ErrNotCallable returns an error for callable-signature resolution on a
// type none of whose alternatives is callable.
//
// Returns:
//
//	error: The formatted error, wrapping ErrInvariant.
func ErrNotCallable() error {
	return fmt.Errorf("%w: type is not callable", ErrInvariant)
}

// ErrNoVerbosityHandler returns an error for a verbosity dispatch invoked
// with a level the caller supplied no handler for.
//
// Parameters:
//
//	level string: The requested verbosity level.
//
// Returns:
//
//	error: The formatted error, wrapping ErrInvariant.
func ErrNoVerbosityHandler(level string) error {
	return fmt.Errorf("%w: no handler for verbosity level %q", ErrInvariant, level)
}
