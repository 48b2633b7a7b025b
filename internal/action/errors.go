package action

import (
	"errors"
	"fmt"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/registry"
)

// Sentinel errors for the action package.
var (
	// ErrStaleObject is returned for handles that no longer name a node.
	ErrStaleObject = registry.ErrStaleObject

	// ErrUnsupportedAction is matched by every *UnsupportedActionError.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrInvalidActionData is returned when an action's argument is
	// missing or malformed.
	ErrInvalidActionData = errors.New("invalid action data")

	// ErrQueueFull is returned when the request queue is at capacity.
	ErrQueueFull = errors.New("action queue is full")

	// ErrRouterClosed is returned by Request after Close.
	ErrRouterClosed = errors.New("action router is closed")
)

// UnsupportedActionError reports an action the target node does not
// accept in its current role and state.
type UnsupportedActionError struct {
	Action model.Action
	Target model.NodeID
	Role   model.Role
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action %s on %s node %s", e.Action, e.Role, e.Target)
}

// Is reports whether target is ErrUnsupportedAction.
func (e *UnsupportedActionError) Is(target error) bool {
	return target == ErrUnsupportedAction
}
