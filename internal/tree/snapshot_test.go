package tree

import (
	"testing"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_LowestCommonAncestor(t *testing.T) {
	s := NewStore()
	snap, _, err := s.Apply(baseTree())
	require.NoError(t, err)

	tests := []struct {
		name string
		ids  []model.NodeID
		want model.NodeID
	}{
		{"single", []model.NodeID{id(4)}, id(4)},
		{"siblings", []model.NodeID{id(2), id(3)}, id(1)},
		{"ancestor and descendant", []model.NodeID{id(4), id(2)}, id(2)},
		{"cousins", []model.NodeID{id(4), id(3)}, id(1)},
		{"unknown ignored", []model.NodeID{id(4), id(99)}, id(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := snap.LowestCommonAncestor(tt.ids...)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := snap.LowestCommonAncestor(id(99))
	assert.False(t, ok)
}

func TestSnapshot_WalkAndIndex(t *testing.T) {
	s := NewStore()
	snap, _, err := s.Apply(baseTree())
	require.NoError(t, err)

	var order []model.NodeID
	var depths []int
	snap.Walk(func(nid model.NodeID, _ *model.Node, depth int) bool {
		order = append(order, nid)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []model.NodeID{id(1), id(2), id(4), id(3)}, order)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)

	assert.Equal(t, 1, snap.IndexInParent(id(3)))
	assert.Equal(t, -1, snap.IndexInParent(id(1)))
	assert.Equal(t, []model.NodeID{id(2), id(1)}, snap.Ancestors(id(4)))
	assert.Equal(t, []model.NodeID{id(1), id(2), id(3), id(4)}, snap.IDs())
}
