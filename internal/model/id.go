package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NodeID identifies a node across tree updates. The zero value is not a
// valid identifier; it is used to mean "no node" (for example, no focus).
type NodeID struct {
	Hi uint64
	Lo uint64
}

// NewNodeID returns the identifier for a toolkit-assigned integer id.
func NewNodeID(n uint64) NodeID {
	return NodeID{Lo: n}
}

// NodeIDFromUUID returns the identifier for a 128-bit UUID.
func NodeIDFromUUID(u uuid.UUID) NodeID {
	var id NodeID
	for i := 0; i < 8; i++ {
		id.Hi = id.Hi<<8 | uint64(u[i])
		id.Lo = id.Lo<<8 | uint64(u[i+8])
	}
	return id
}

// ParseNodeID parses a decimal integer or a UUID string.
func ParseNodeID(s string) (NodeID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NodeID{}, fmt.Errorf("empty node id")
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		if n == 0 {
			return NodeID{}, fmt.Errorf("node id must be non-zero")
		}
		return NewNodeID(n), nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return NodeID{}, fmt.Errorf("invalid node id %q: %w", s, err)
	}
	id := NodeIDFromUUID(u)
	if id.IsZero() {
		return NodeID{}, fmt.Errorf("node id must be non-zero")
	}
	return id, nil
}

// IsZero reports whether id is the zero (absent) identifier.
func (id NodeID) IsZero() bool {
	return id.Hi == 0 && id.Lo == 0
}

// Less orders identifiers for deterministic output.
func (id NodeID) Less(other NodeID) bool {
	if id.Hi != other.Hi {
		return id.Hi < other.Hi
	}
	return id.Lo < other.Lo
}

// UUID returns the identifier as a UUID.
func (id NodeID) UUID() uuid.UUID {
	var u uuid.UUID
	for i := 7; i >= 0; i-- {
		u[i] = byte(id.Hi >> (8 * (7 - i)))
		u[i+8] = byte(id.Lo >> (8 * (7 - i)))
	}
	return u
}

func (id NodeID) String() string {
	if id.Hi == 0 {
		return strconv.FormatUint(id.Lo, 10)
	}
	return id.UUID().String()
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The text "0" decodes to the zero identifier.
func (id *NodeID) UnmarshalText(b []byte) error {
	if string(b) == "0" {
		*id = NodeID{}
		return nil
	}
	parsed, err := ParseNodeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
