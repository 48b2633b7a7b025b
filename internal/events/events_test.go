package events

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nid(n uint64) model.NodeID { return model.NewNodeID(n) }

func focus(n uint64) *model.NodeID {
	v := nid(n)
	return &v
}

func kids(ids ...uint64) []model.NodeID {
	var out []model.NodeID
	for _, i := range ids {
		out = append(out, nid(i))
	}
	return out
}

func step(t *testing.T, s *tree.Store, u model.TreeUpdate) (*tree.Snapshot, []Notification) {
	t.Helper()
	prev := s.Current()
	snap, d, err := s.Apply(u)
	require.NoError(t, err)
	return snap, Compute(prev, snap, d)
}

func kinds(notes []Notification) []Kind {
	var out []Kind
	for _, n := range notes {
		out = append(out, n.Kind)
	}
	return out
}

func count(notes []Notification, k Kind) int {
	c := 0
	for _, n := range notes {
		if n.Kind == k {
			c++
		}
	}
	return c
}

// base is R(1) -> [A(2), B(3)], F(4) under A, G(5) under B; focus on F.
func base(t *testing.T) *tree.Store {
	t.Helper()
	s := tree.NewStore()
	_, _, err := s.Apply(model.TreeUpdate{
		Tree:  &model.TreeInfo{Root: nid(1)},
		Focus: focus(4),
		Nodes: []model.NodeUpdate{
			{ID: nid(1), Node: &model.Node{Role: model.RoleWindow, Children: kids(2, 3)}},
			{ID: nid(2), Node: &model.Node{Role: model.RoleGroup, Children: kids(4)}},
			{ID: nid(3), Node: &model.Node{Role: model.RoleGroup, Children: kids(5)}},
			{ID: nid(4), Node: &model.Node{Role: model.RoleButton, Focusable: true}},
			{ID: nid(5), Node: &model.Node{Role: model.RoleButton, Focusable: true}},
		},
	})
	require.NoError(t, err)
	return s
}

func TestCompute_DeleteAndInsert(t *testing.T) {
	s := tree.NewStore()
	_, _, err := s.Apply(model.TreeUpdate{
		Tree: &model.TreeInfo{Root: nid(1)},
		Nodes: []model.NodeUpdate{
			{ID: nid(1), Node: &model.Node{Role: model.RoleWindow, Children: kids(2, 3)}},
			{ID: nid(2), Node: &model.Node{Role: model.RoleGroup}},
			{ID: nid(3), Node: &model.Node{Role: model.RoleButton}},
		},
	})
	require.NoError(t, err)

	_, notes := step(t, s, model.TreeUpdate{
		Deleted: []model.NodeID{nid(3)},
		Nodes: []model.NodeUpdate{
			{ID: nid(2), Node: &model.Node{Role: model.RoleGroup, Children: kids(10)}},
			{ID: nid(10), Node: &model.Node{Role: model.RoleButton}},
		},
	})

	require.Equal(t, 1, count(notes, KindChildrenChanged))
	for _, n := range notes {
		switch n.Kind {
		case KindChildrenChanged:
			assert.Equal(t, nid(2), n.Target)
			assert.Equal(t, kids(10), n.Inserted)
		case KindNodeRemoved:
			assert.Equal(t, nid(1), n.Target)
			assert.Equal(t, nid(3), n.Node)
			assert.Equal(t, 1, n.Index)
		}
	}
	assert.Equal(t, []Kind{KindNodeRemoved, KindChildrenChanged}, kinds(notes))
}

func TestCompute_FocusOnly(t *testing.T) {
	s := base(t)
	_, notes := step(t, s, model.TreeUpdate{Focus: focus(5)})
	require.Len(t, notes, 1)
	assert.Equal(t, KindFocusChanged, notes[0].Kind)
	assert.Equal(t, nid(5), notes[0].Target)
	assert.Equal(t, nid(4), notes[0].Previous)
}

func TestCompute_Ordering(t *testing.T) {
	s := base(t)
	_, notes := step(t, s, model.TreeUpdate{
		Focus: focus(6),
		Nodes: []model.NodeUpdate{
			{ID: nid(3), Node: &model.Node{Role: model.RoleGroup, Children: kids(5, 6), Name: "renamed"}},
			{ID: nid(6), Node: &model.Node{Role: model.RoleStatus, Name: "Saved", Live: model.LivePolite, Focusable: true}},
		},
	})
	assert.Equal(t, []Kind{KindChildrenChanged, KindPropertyChanged, KindLiveRegion, KindFocusChanged}, kinds(notes))
	assert.Equal(t, nid(3), notes[0].Target)
	assert.Equal(t, model.PropName, notes[1].Property)
	assert.Equal(t, "renamed", notes[1].NewValue)
	assert.Equal(t, "Saved", notes[2].Text)
	assert.Equal(t, model.LivePolite, notes[2].Politeness)
}

func TestCompute_LCAOfSeparateInsertions(t *testing.T) {
	s := base(t)
	_, notes := step(t, s, model.TreeUpdate{
		Nodes: []model.NodeUpdate{
			{ID: nid(2), Node: &model.Node{Role: model.RoleGroup, Children: kids(4, 7)}},
			{ID: nid(3), Node: &model.Node{Role: model.RoleGroup, Children: kids(5, 8)}},
			{ID: nid(7), Node: &model.Node{Role: model.RoleButton}},
			{ID: nid(8), Node: &model.Node{Role: model.RoleButton}},
		},
	})
	require.Len(t, notes, 1)
	assert.Equal(t, KindChildrenChanged, notes[0].Kind)
	assert.Equal(t, nid(1), notes[0].Target)
	assert.Equal(t, kids(7, 8), notes[0].Inserted)
}

func TestCompute_Reorder(t *testing.T) {
	s := base(t)
	_, notes := step(t, s, model.TreeUpdate{
		Nodes: []model.NodeUpdate{{ID: nid(1), Node: &model.Node{Role: model.RoleWindow, Children: kids(3, 2)}}},
	})
	require.Len(t, notes, 1)
	assert.Equal(t, KindChildrenChanged, notes[0].Kind)
	assert.Equal(t, nid(1), notes[0].Target)
	assert.Empty(t, notes[0].Inserted)
}

func TestCompute_Reparent(t *testing.T) {
	s := base(t)
	_, notes := step(t, s, model.TreeUpdate{
		Nodes: []model.NodeUpdate{
			{ID: nid(2), Node: &model.Node{Role: model.RoleGroup, Children: kids(4, 5)}},
			{ID: nid(3), Node: &model.Node{Role: model.RoleGroup}},
		},
	})
	require.Len(t, notes, 1)
	assert.Equal(t, KindChildrenChanged, notes[0].Kind)
	assert.Equal(t, nid(1), notes[0].Target)
	assert.Equal(t, kids(5), notes[0].Inserted)
	assert.Zero(t, count(notes, KindNodeRemoved))
}

func TestCompute_MoveOutOnly(t *testing.T) {
	s := base(t)
	// G leaves B for R; B is the only other parent touched.
	_, notes := step(t, s, model.TreeUpdate{
		Nodes: []model.NodeUpdate{
			{ID: nid(1), Node: &model.Node{Role: model.RoleWindow, Children: kids(2, 3, 5)}},
			{ID: nid(3), Node: &model.Node{Role: model.RoleGroup}},
		},
	})
	require.Len(t, notes, 1)
	assert.Equal(t, nid(1), notes[0].Target)
	assert.Equal(t, kids(5), notes[0].Inserted)
}

func TestCompute_LiveRegionPoliteness(t *testing.T) {
	tests := []struct {
		name string
		live model.Live
		want int
	}{
		{"off is suppressed", model.LiveOff, 0},
		{"polite announces", model.LivePolite, 1},
		{"assertive announces", model.LiveAssertive, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base(t)
			_, _, err := s.Apply(model.TreeUpdate{Nodes: []model.NodeUpdate{
				{ID: nid(3), Node: &model.Node{Role: model.RoleGroup, Children: kids(5, 6)}},
				{ID: nid(6), Node: &model.Node{Role: model.RoleStatus, Name: "Idle", Live: tt.live}},
			}})
			require.NoError(t, err)

			name := "Saving"
			_, notes := step(t, s, model.TreeUpdate{Patches: []model.PatchUpdate{
				{ID: nid(6), Patch: model.NodePatch{Name: &name}},
			}})
			assert.Equal(t, tt.want, count(notes, KindLiveRegion))
			if tt.want > 0 {
				assert.Equal(t, "Saving", notes[len(notes)-1].Text)
			}
		})
	}
}

func TestEmitter_FailureIsLoggedAndSkipped(t *testing.T) {
	s := base(t)
	snap := s.Current()
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	var delivered []Kind
	e := NewEmitter(RaiserFunc(func(_ *tree.Snapshot, n Notification) error {
		if n.Kind == KindPropertyChanged {
			return errors.New("sink closed")
		}
		delivered = append(delivered, n.Kind)
		return nil
	}), WithLogger(log))

	notes := []Notification{
		{Kind: KindChildrenChanged, Target: nid(1)},
		{Kind: KindPropertyChanged, Target: nid(2), Property: model.PropName},
		{Kind: KindFocusChanged, Target: nid(4)},
	}
	rep := e.Emit(snap, notes)

	assert.Equal(t, 2, rep.Sent)
	assert.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Errors, 1)
	assert.ErrorIs(t, rep.Errors[0], ErrNotificationDeliveryFailed)
	assert.Equal(t, []Kind{KindChildrenChanged, KindFocusChanged}, delivered)
	assert.True(t, strings.Contains(buf.String(), "notification delivery failed"))

	sent, failed := e.Totals()
	assert.Equal(t, uint64(2), sent)
	assert.Equal(t, uint64(1), failed)
}

func TestEmitter_RecoversPanics(t *testing.T) {
	s := base(t)
	e := NewEmitter(RaiserFunc(func(*tree.Snapshot, Notification) error {
		panic("boom")
	}))
	q := e.Queue(s.Current(), []Notification{{Kind: KindFocusChanged, Target: nid(4)}})
	require.Len(t, q.Notifications(), 1)

	rep := q.Raise()
	assert.Equal(t, 1, rep.Failed)
	var perr *PanicError
	assert.ErrorAs(t, rep.Errors[0], &perr)
}
