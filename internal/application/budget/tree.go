package budget

import (
	"sort"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
)

type treeInput struct {
	ID        uuid.UUID
	ParentID  *uuid.UUID
	Level     int
	Code      string
	Name      string
	SortOrder int
}

// buildTree nests rows under their parents. Rows whose parent is missing are
// promoted to roots so nothing is dropped from the view.
func buildTree(rows []treeInput) []CategoryTreeNode {
	known := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		known[r.ID] = true
	}
	children := make(map[uuid.UUID][]treeInput)
	var roots []treeInput
	for _, r := range rows {
		if r.ParentID == nil || !known[*r.ParentID] {
			roots = append(roots, r)
			continue
		}
		children[*r.ParentID] = append(children[*r.ParentID], r)
	}

	var build func([]treeInput) []CategoryTreeNode
	build = func(level []treeInput) []CategoryTreeNode {
		sort.SliceStable(level, func(i, j int) bool {
			if level[i].SortOrder != level[j].SortOrder {
				return level[i].SortOrder < level[j].SortOrder
			}
			return level[i].Code < level[j].Code
		})
		out := make([]CategoryTreeNode, len(level))
		for i, r := range level {
			out[i] = CategoryTreeNode{
				ID:        r.ID,
				ParentID:  r.ParentID,
				Level:     r.Level,
				Code:      r.Code,
				Name:      r.Name,
				SortOrder: r.SortOrder,
			}
			if kids := children[r.ID]; len(kids) > 0 {
				out[i].Children = build(kids)
			}
		}
		return out
	}
	return build(roots)
}

func categoryTree(categories []budget.Category) []CategoryTreeNode {
	rows := make([]treeInput, len(categories))
	for i, c := range categories {
		rows[i] = treeInput{ID: c.ID, ParentID: c.ParentID, Level: c.Level, Code: c.Code, Name: c.Name, SortOrder: c.SortOrder}
	}
	return buildTree(rows)
}
