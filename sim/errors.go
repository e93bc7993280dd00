package sim

import (
	"errors"
	"fmt"
)

// Error taxonomy. Configuration errors (missing parameter, bad distribution)
// are returned from Build/SetUp and are fatal to the run. Contract violations
// (drawing from an empty locus, dangling edge endpoints, posting into the
// past) indicate a bug in a process implementation; the kernel panics on them
// rather than limping on with a corrupt run.
var (
	// ErrEmptyLocus is raised by Locus.Draw when the locus has no elements.
	ErrEmptyLocus = errors.New("draw from empty locus")

	// ErrUnknownEndpoint is raised when an edge names a node that is not in
	// the working graph. There is no safe default state for an implicitly
	// created node, so implicit creation is forbidden.
	ErrUnknownEndpoint = errors.New("edge endpoint not in graph")

	// ErrMissingParameter wraps the name of a required parameter absent from
	// the experimental parameters at Build or SetUp time.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrPastEvent is raised when an event is posted at a time earlier than
	// the current simulation clock.
	ErrPastEvent = errors.New("event posted in the past")

	// ErrDuplicateLocus is raised at build time when two distinct processes
	// in a sequence declare the same undecorated locus name.
	ErrDuplicateLocus = errors.New("duplicate locus name")
)

// MissingParameter returns the error reported when a process cannot find a
// required key in its experimental parameters.
func MissingParameter(key string) error {
	return fmt.Errorf("%w: %s", ErrMissingParameter, key)
}
