package tree

import (
	"strings"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// FilterFlat applies filters to a flat node list, returning only matching
// nodes. It filters by roles and by a bounding box in root coordinates.
func FilterFlat(nodes []FlatNode, roles []model.Role, bbox *model.Rect) []FlatNode {
	if len(roles) == 0 && bbox == nil {
		return nodes
	}

	roleSet := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	var result []FlatNode
	for _, n := range nodes {
		roleMatch := len(roleSet) == 0 || roleSet[n.Role]
		bboxMatch := bbox == nil || (n.Bounds != nil && boundsIntersect(*n.Bounds, *bbox))
		if roleMatch && bboxMatch {
			result = append(result, n)
		}
	}
	return result
}

// FilterByText keeps nodes whose name, value, or description contains
// text (case-insensitive).
func FilterByText(nodes []FlatNode, text string) []FlatNode {
	if text == "" {
		return nodes
	}
	textLower := strings.ToLower(text)
	var result []FlatNode
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Name), textLower) ||
			strings.Contains(strings.ToLower(n.Value), textLower) ||
			strings.Contains(strings.ToLower(n.Description), textLower) {
			result = append(result, n)
		}
	}
	return result
}

// FilterByFocused keeps only the focused node.
func FilterByFocused(nodes []FlatNode) []FlatNode {
	for _, n := range nodes {
		if n.Focused {
			return []FlatNode{n}
		}
	}
	return nil
}

// boundsIntersect checks if two rectangles overlap.
func boundsIntersect(a, b model.Rect) bool {
	return a.X0 < b.X1 && a.X1 > b.X0 && a.Y0 < b.Y1 && a.Y1 > b.Y0
}
