package tree

import (
	"github.com/mj1618/a11y-bridge/internal/model"
)

// FlatNode is a node with a path breadcrumb instead of children.
type FlatNode struct {
	ID          model.NodeID `yaml:"id"                    json:"id"`
	Role        model.Role   `yaml:"role"                  json:"role"`
	Name        string       `yaml:"name,omitempty"        json:"name,omitempty"`
	Value       string       `yaml:"value,omitempty"       json:"value,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Bounds      *model.Rect  `yaml:"bounds,omitempty"      json:"bounds,omitempty"`
	Focused     bool         `yaml:"focused,omitempty"     json:"focused,omitempty"`
	Disabled    bool         `yaml:"disabled,omitempty"    json:"disabled,omitempty"`
	Live        model.Live   `yaml:"live,omitempty"        json:"live,omitempty"`
	Children    int          `yaml:"children,omitempty"    json:"children,omitempty"`
	Path        string       `yaml:"path,omitempty"        json:"path,omitempty"`
}

// TreeNode is a nested rendering of a snapshot for output.
type TreeNode struct {
	ID       model.NodeID `yaml:"id"                 json:"id"`
	Role     model.Role   `yaml:"role"               json:"role"`
	Name     string       `yaml:"name,omitempty"     json:"name,omitempty"`
	Value    string       `yaml:"value,omitempty"    json:"value,omitempty"`
	Focused  bool         `yaml:"focused,omitempty"  json:"focused,omitempty"`
	Children []TreeNode   `yaml:"children,omitempty" json:"children,omitempty"`
}

// Flatten converts a snapshot into a flat list in pre-order. Each node
// gets a path string showing its location in the tree using role names
// joined with " > ".
func Flatten(s *Snapshot) []FlatNode {
	var result []FlatNode
	if s.root.IsZero() {
		return result
	}
	flattenRecursive(s, s.root, "", &result)
	return result
}

func flattenRecursive(s *Snapshot, id model.NodeID, parentPath string, result *[]FlatNode) {
	n := s.nodes[id]
	currentPath := n.Role.String()
	if parentPath != "" {
		currentPath = parentPath + " > " + currentPath
	}

	*result = append(*result, FlatNode{
		ID:          id,
		Role:        n.Role,
		Name:        n.Name,
		Value:       n.Value,
		Description: n.Description,
		Bounds:      n.Bounds,
		Focused:     id == s.focus,
		Disabled:    n.Disabled,
		Live:        n.Live,
		Children:    len(n.Children),
		Path:        currentPath,
	})

	for _, child := range n.Children {
		flattenRecursive(s, child, currentPath, result)
	}
}

// Nest renders the subtree rooted at id.
func Nest(s *Snapshot, id model.NodeID) (TreeNode, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return TreeNode{}, false
	}
	tn := TreeNode{ID: id, Role: n.Role, Name: n.Name, Value: n.Value, Focused: id == s.focus}
	for _, c := range n.Children {
		child, _ := Nest(s, c)
		tn.Children = append(tn.Children, child)
	}
	return tn, true
}
