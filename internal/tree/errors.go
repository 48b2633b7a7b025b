package tree

import (
	"errors"
	"fmt"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// ErrMalformedTree is matched by every *MalformedTreeError.
var ErrMalformedTree = errors.New("malformed tree")

// Violation names the structural invariant a rejected update broke.
type Violation string

const (
	ViolationMissingRoot     Violation = "missing root"
	ViolationDuplicateID     Violation = "duplicate identifier"
	ViolationMultipleParents Violation = "multiple parents"
	ViolationCycle           Violation = "cycle"
	ViolationDanglingChild   Violation = "dangling child reference"
	ViolationOrphan          Violation = "node unreachable from root"
	ViolationUnknownPatch    Violation = "patch target not in tree"
	ViolationMissingFocus    Violation = "focus not in tree"
	ViolationZeroID          Violation = "zero identifier"
	ViolationMissingNode     Violation = "missing node data"
)

// MalformedTreeError reports a rejected update. The store keeps its
// previous snapshot when it returns this error.
type MalformedTreeError struct {
	Violation Violation
	ID        model.NodeID
	Detail    string
}

func (e *MalformedTreeError) Error() string {
	msg := fmt.Sprintf("malformed tree: %s (node %s)", e.Violation, e.ID)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is makes errors.Is(err, ErrMalformedTree) succeed.
func (e *MalformedTreeError) Is(target error) bool {
	return target == ErrMalformedTree
}

func malformed(v Violation, id model.NodeID, format string, args ...any) *MalformedTreeError {
	return &MalformedTreeError{Violation: v, ID: id, Detail: fmt.Sprintf(format, args...)}
}
