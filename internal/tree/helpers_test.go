package tree

import (
	"github.com/mj1618/a11y-bridge/internal/model"
)

func id(n uint64) model.NodeID { return model.NewNodeID(n) }

func idPtr(n uint64) *model.NodeID {
	v := id(n)
	return &v
}

func node(role model.Role, children ...uint64) *model.Node {
	n := &model.Node{Role: role}
	for _, c := range children {
		n.Children = append(n.Children, id(c))
	}
	return n
}

func upsert(n uint64, nd *model.Node) model.NodeUpdate {
	return model.NodeUpdate{ID: id(n), Node: nd}
}

// baseTree is R(1) -> [A(2), B(3)], A -> [D(4)], focus on D.
func baseTree() model.TreeUpdate {
	return model.TreeUpdate{
		Tree:  &model.TreeInfo{Root: id(1)},
		Focus: idPtr(4),
		Nodes: []model.NodeUpdate{
			upsert(1, node(model.RoleWindow, 2, 3)),
			upsert(2, node(model.RoleGroup, 4)),
			upsert(3, node(model.RoleButton)),
			upsert(4, &model.Node{Role: model.RoleTextInput, Focusable: true}),
		},
	}
}
