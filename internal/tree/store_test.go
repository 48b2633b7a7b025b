package tree

import (
	"sync"
	"testing"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_InitialTree(t *testing.T) {
	s := NewStore()
	snap, diff, err := s.Apply(baseTree())
	require.NoError(t, err)

	assert.Same(t, snap, s.Current())
	assert.Equal(t, uint64(1), snap.Version())
	assert.Equal(t, id(1), snap.Root())
	assert.Equal(t, id(4), snap.Focus())
	assert.Equal(t, 4, snap.Len())

	p, ok := snap.Parent(id(4))
	require.True(t, ok)
	assert.Equal(t, id(2), p)
	_, ok = snap.Parent(id(1))
	assert.False(t, ok)

	assert.Len(t, diff.Added, 4)
	assert.True(t, diff.FocusChanged)
}

func TestApply_FirstUpdateNeedsRoot(t *testing.T) {
	s := NewStore()
	_, _, err := s.Apply(model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(1, node(model.RoleWindow))}})
	require.ErrorIs(t, err, ErrMalformedTree)

	var mt *MalformedTreeError
	require.ErrorAs(t, err, &mt)
	assert.Equal(t, ViolationMissingRoot, mt.Violation)
}

func TestApply_MalformedLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		update model.TreeUpdate
		want   Violation
	}{
		{
			name:   "duplicate upsert",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(3, node(model.RoleButton)), upsert(3, node(model.RoleLink))}},
			want:   ViolationDuplicateID,
		},
		{
			name:   "duplicate child entry",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(1, node(model.RoleWindow, 2, 3, 3))}},
			want:   ViolationDuplicateID,
		},
		{
			name:   "dangling child",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(3, node(model.RoleGroup, 99))}},
			want:   ViolationDanglingChild,
		},
		{
			name:   "cycle",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(4, node(model.RoleGroup, 2))}},
			want:   ViolationCycle,
		},
		{
			name:   "self reference",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(3, node(model.RoleGroup, 3))}},
			want:   ViolationCycle,
		},
		{
			name:   "root as child",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(3, node(model.RoleGroup, 1))}},
			want:   ViolationCycle,
		},
		{
			name:   "two parents",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(3, node(model.RoleGroup, 4))}},
			want:   ViolationMultipleParents,
		},
		{
			name:   "orphan upsert",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{upsert(50, node(model.RoleButton))}},
			want:   ViolationOrphan,
		},
		{
			name:   "unknown patch target",
			update: model.TreeUpdate{Patches: []model.PatchUpdate{{ID: id(77)}}},
			want:   ViolationUnknownPatch,
		},
		{
			name:   "focus on absent node",
			update: model.TreeUpdate{Focus: idPtr(42)},
			want:   ViolationMissingFocus,
		},
		{
			name:   "root deleted",
			update: model.TreeUpdate{Deleted: []model.NodeID{id(1)}},
			want:   ViolationMissingRoot,
		},
		{
			name:   "zero id",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{{Node: node(model.RoleButton)}}},
			want:   ViolationZeroID,
		},
		{
			name:   "nil node",
			update: model.TreeUpdate{Nodes: []model.NodeUpdate{{ID: id(3)}}},
			want:   ViolationMissingNode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			before, _, err := s.Apply(baseTree())
			require.NoError(t, err)

			got, diff, err := s.Apply(tt.update)
			require.ErrorIs(t, err, ErrMalformedTree)
			var mt *MalformedTreeError
			require.ErrorAs(t, err, &mt)
			assert.Equal(t, tt.want, mt.Violation)

			assert.Same(t, before, got)
			assert.Same(t, before, s.Current())
			assert.True(t, diff.Empty())
		})
	}
}

func TestApply_OrphanNamesFirstInBatch(t *testing.T) {
	for i := 0; i < 20; i++ {
		s := NewStore()
		_, _, err := s.Apply(baseTree())
		require.NoError(t, err)

		_, _, err = s.Apply(model.TreeUpdate{Nodes: []model.NodeUpdate{
			upsert(60, node(model.RoleButton)),
			upsert(50, node(model.RoleButton)),
			upsert(70, node(model.RoleButton)),
		}})
		var mt *MalformedTreeError
		require.ErrorAs(t, err, &mt)
		assert.Equal(t, ViolationOrphan, mt.Violation)
		assert.Equal(t, id(60), mt.ID)
	}
}

func TestApply_Idempotent(t *testing.T) {
	s := NewStore()
	_, _, err := s.Apply(baseTree())
	require.NoError(t, err)

	batch := model.TreeUpdate{
		Nodes: []model.NodeUpdate{
			upsert(2, node(model.RoleGroup, 4, 5)),
			upsert(5, &model.Node{Role: model.RoleStaticText, Name: "hello"}),
		},
		Deleted: []model.NodeID{id(3)},
	}
	first, _, err := s.Apply(batch)
	require.NoError(t, err)
	second, diff, err := s.Apply(batch)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.True(t, diff.Empty())
	assert.Equal(t, first.Version()+1, second.Version())
}

func TestApply_DeleteAndInsertScenario(t *testing.T) {
	s := NewStore()
	_, _, err := s.Apply(model.TreeUpdate{
		Tree: &model.TreeInfo{Root: id(1)},
		Nodes: []model.NodeUpdate{
			upsert(1, node(model.RoleWindow, 2, 3)),
			upsert(2, node(model.RoleGroup)),
			upsert(3, node(model.RoleButton)),
		},
	})
	require.NoError(t, err)

	snap, diff, err := s.Apply(model.TreeUpdate{
		Deleted: []model.NodeID{id(3)},
		Nodes: []model.NodeUpdate{
			upsert(2, node(model.RoleGroup, 10)),
			upsert(10, node(model.RoleButton)),
		},
	})
	require.NoError(t, err)

	root, _ := snap.Node(id(1))
	assert.Equal(t, []model.NodeID{id(2)}, root.Children)
	a, _ := snap.Node(id(2))
	assert.Equal(t, []model.NodeID{id(10)}, a.Children)

	require.Len(t, diff.Removed, 1)
	assert.Equal(t, id(3), diff.Removed[0].ID)
	assert.Equal(t, id(1), diff.Removed[0].Parent)
	assert.True(t, diff.Removed[0].SubtreeRoot)

	require.Len(t, diff.Added, 1)
	assert.Equal(t, id(10), diff.Added[0].ID)
	assert.Equal(t, id(2), diff.Added[0].Parent)

	var aChange *Change
	for i := range diff.Changed {
		if diff.Changed[i].ID == id(2) {
			aChange = &diff.Changed[i]
		}
	}
	require.NotNil(t, aChange)
	assert.True(t, aChange.Has(model.PropChildren))
}

func TestApply_FocusOnly(t *testing.T) {
	s := NewStore()
	_, _, err := s.Apply(baseTree())
	require.NoError(t, err)

	_, diff, err := s.Apply(model.TreeUpdate{Focus: idPtr(3)})
	require.NoError(t, err)

	assert.True(t, diff.FocusChanged)
	assert.Equal(t, id(4), diff.OldFocus)
	assert.Equal(t, id(3), diff.NewFocus)
	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
	assert.Empty(t, diff.Changed)
}

func TestApply_UnreachableSubtreeDropped(t *testing.T) {
	s := NewStore()
	_, _, err := s.Apply(baseTree())
	require.NoError(t, err)

	snap, diff, err := s.Apply(model.TreeUpdate{
		Nodes: []model.NodeUpdate{upsert(1, node(model.RoleWindow, 3))},
	})
	require.NoError(t, err)

	assert.False(t, snap.Contains(id(2)))
	assert.False(t, snap.Contains(id(4)))
	assert.True(t, snap.Focus().IsZero(), "focus on a dropped node is cleared")

	require.Len(t, diff.Removed, 2)
	assert.Equal(t, id(2), diff.Removed[0].ID)
	assert.True(t, diff.Removed[0].SubtreeRoot)
	assert.Equal(t, id(4), diff.Removed[1].ID)
	assert.False(t, diff.Removed[1].SubtreeRoot)
}

func TestApply_Patch(t *testing.T) {
	s := NewStore()
	before, _, err := s.Apply(baseTree())
	require.NoError(t, err)

	name := "Submit"
	snap, diff, err := s.Apply(model.TreeUpdate{
		Patches: []model.PatchUpdate{{ID: id(3), Patch: model.NodePatch{Name: &name}}},
	})
	require.NoError(t, err)

	n, _ := snap.Node(id(3))
	assert.Equal(t, "Submit", n.Name)
	old, _ := before.Node(id(3))
	assert.Empty(t, old.Name, "previous snapshot must not change")

	require.Len(t, diff.Changed, 1)
	assert.Equal(t, []model.Property{model.PropName}, diff.Changed[0].Properties)
	assert.Equal(t, [2]string{"", "Submit"}, diff.Changed[0].Values[model.PropName])
}

func TestApply_DeleteAbsentIsNoop(t *testing.T) {
	s := NewStore()
	before, _, err := s.Apply(baseTree())
	require.NoError(t, err)

	snap, diff, err := s.Apply(model.TreeUpdate{Deleted: []model.NodeID{id(999)}})
	require.NoError(t, err)
	assert.True(t, before.Equal(snap))
	assert.True(t, diff.Empty())
}

func TestStore_PreviousTracksLastApply(t *testing.T) {
	s := NewStore()
	first, _, err := s.Apply(baseTree())
	require.NoError(t, err)
	_, _, err = s.Apply(model.TreeUpdate{Focus: idPtr(3)})
	require.NoError(t, err)
	assert.Same(t, first, s.Previous())
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	s := NewStore()
	_, _, err := s.Apply(baseTree())
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := s.Current()
				snap.Walk(func(nid model.NodeID, n *model.Node, _ int) bool {
					for _, c := range n.Children {
						if !snap.Contains(c) {
							select {
							case errs <- "dangling child " + c.String():
							default:
							}
						}
					}
					return true
				})
			}
		}()
	}

	for i := uint64(0); i < 200; i++ {
		extra := 100 + i
		_, _, err := s.Apply(model.TreeUpdate{
			Nodes: []model.NodeUpdate{
				upsert(3, node(model.RoleGroup, extra)),
				upsert(extra, node(model.RoleButton)),
			},
		})
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
