package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is matched by every [*CycleError]. A commit history that
	// contains a cycle is corrupt input and cannot be laid out.
	ErrCycle = errors.New("commit history contains a cycle")

	// ErrMalformedRecord is matched by every [*MalformedError].
	ErrMalformedRecord = errors.New("malformed commit record")
)

// CycleError reports a commit that is (transitively) its own ancestor.
// ID is the commit at which the back-edge was found.
type CycleError struct {
	ID ID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("commit history contains a cycle at %s", e.ID)
}

// Is makes errors.Is(err, ErrCycle) succeed for cycle errors.
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// MalformedError describes a record that was skipped during [Build].
// It is a warning: the build continues without the record.
type MalformedError struct {
	Index  int // position of the record in the input
	Record Record
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedRecord) succeed for malformed records.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformedRecord }
