package model

import (
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func TestParseNodeID(t *testing.T) {
	tests := []struct {
		input   string
		want    NodeID
		wantErr bool
	}{
		{"42", NewNodeID(42), false},
		{" 7 ", NewNodeID(7), false},
		{"0", NodeID{}, true},
		{"", NodeID{}, true},
		{"abc", NodeID{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseNodeID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNodeID_UUIDRoundTrip(t *testing.T) {
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	id := NodeIDFromUUID(u)
	if id.Hi == 0 {
		t.Fatal("expected high bits to be set")
	}
	if id.UUID() != u {
		t.Errorf("UUID() = %s, want %s", id.UUID(), u)
	}
	parsed, err := ParseNodeID(id.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != id {
		t.Errorf("parsed %v, want %v", parsed, id)
	}
}

func TestNodeID_Less(t *testing.T) {
	a, b := NewNodeID(1), NewNodeID(2)
	if !a.Less(b) || b.Less(a) {
		t.Error("expected 1 < 2")
	}
	hi := NodeID{Hi: 1}
	if !b.Less(hi) {
		t.Error("expected high word to dominate ordering")
	}
}

func TestNodeID_YAML(t *testing.T) {
	var u TreeUpdate
	src := "tree: {root: 1}\nfocus: 2\nnodes:\n  - id: 1\n    node: {role: window, children: [2]}\n  - id: 2\n    node: {role: button, name: OK, actions: \"default,focus\"}\n"
	if err := yaml.Unmarshal([]byte(src), &u); err != nil {
		t.Fatal(err)
	}
	if u.Tree == nil || u.Tree.Root != NewNodeID(1) {
		t.Fatalf("root not decoded: %+v", u.Tree)
	}
	if u.Focus == nil || *u.Focus != NewNodeID(2) {
		t.Fatalf("focus not decoded: %v", u.Focus)
	}
	if len(u.Nodes) != 2 || u.Nodes[0].Node.Children[0] != NewNodeID(2) {
		t.Fatalf("nodes not decoded: %+v", u.Nodes)
	}
	btn := u.Nodes[1].Node
	if btn.Role != RoleButton || btn.Name != "OK" {
		t.Errorf("unexpected button: %+v", btn)
	}
	if !btn.Actions.Has(ActionDefault) || !btn.Actions.Has(ActionFocus) {
		t.Errorf("actions not decoded: %v", btn.Actions)
	}
}
