package container

import "fmt"

// ProgrammerError reports a misuse of the container's API contract: a
// caller violated a precondition the container documents (e.g. Start()
// called twice, a SegmentCount <= 0). It is never expected to occur in
// correct code and is always concrete enough for errors.As to recover.
type ProgrammerError struct {
	Op      string
	Message string
}

func (e *ProgrammerError) Error() string {
	return fmt.Sprintf("container: programmer error in %s: %s", e.Op, e.Message)
}

// CollaboratorFailure wraps an error returned by one of the container's
// pluggable collaborators (passivation store, activation purge, etc.) so
// callers can distinguish "the container itself is broken" from "a
// collaborator failed" via errors.As, while still reaching the underlying
// cause via errors.Unwrap.
type CollaboratorFailure struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorFailure) Error() string {
	return fmt.Sprintf("container: %s collaborator failed: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorFailure) Unwrap() error {
	return e.Err
}

// TransientMiss is not an error type: a read that finds no live entry for a
// key returns (zero value, false), never an error, so callers never need to
// distinguish "absent" from "the container broke" via error inspection.
