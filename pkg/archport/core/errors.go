package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatUnrecognized is returned when neither the path suffix nor the
	// content identifies a supported archive format. It never blocks by itself.
	ErrFormatUnrecognized = errors.New("archive format not recognized")
	// ErrPathBlocked marks a user-correctable path or selection problem.
	ErrPathBlocked = errors.New("path blocked")
	// ErrOpenFailure marks an archive that could not be opened or read.
	ErrOpenFailure = errors.New("cannot read archive / bad format")
	// ErrOperationFailure marks a failure reported by an import or export run.
	ErrOperationFailure = errors.New("transfer operation failed")
	// ErrCancelled marks a user-initiated cancellation. It is not a failure.
	ErrCancelled = errors.New("transfer cancelled")
)

// OpenError represents a failure to open a path as an archive.
type OpenError struct {
	Path   string
	Format string
	Err    error
}

func (e *OpenError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("cannot open %s as %s archive: %v", e.Path, e.Format, e.Err)
	}
	return fmt.Sprintf("cannot open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Is makes every OpenError match ErrOpenFailure.
func (e *OpenError) Is(target error) bool {
	return target == ErrOpenFailure
}

// BlockedError carries a blocking validation outcome out of a call that
// returns errors.
type BlockedError struct {
	Path    string
	Outcome Outcome
}

func (e *BlockedError) Error() string {
	if e.Path == "" {
		return e.Outcome.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Outcome.Message)
}

// Is makes every BlockedError match ErrPathBlocked.
func (e *BlockedError) Is(target error) bool {
	return target == ErrPathBlocked
}

// OperationError provides context about an import or export failure.
type OperationError struct {
	Op   string // "import" or "export"
	Path string // destination of the run
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s to '%s' failed: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is makes every OperationError match ErrOperationFailure.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailure
}

// StateError reports a call made in a session state that does not allow it.
type StateError struct {
	Action string
	State  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Action, e.State)
}
