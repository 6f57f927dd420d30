package budget

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryNode is a category with its own item total and the total of its subtree.
type SummaryNode struct {
	Category    Category
	OwnTotal    decimal.Decimal
	RolledTotal decimal.Decimal
	ItemCount   int64
	Children    []*SummaryNode
}

// CategoryTotal is the sum of item amounts booked directly to a category
type CategoryTotal struct {
	CategoryID uuid.UUID
	Total      decimal.Decimal
	ItemCount  int64
}

// Summary is a project budget rolled up through its category tree
type Summary struct {
	Roots      []*SummaryNode
	GrandTotal decimal.Decimal
	// Uncategorized holds totals booked to categories no longer in the tree.
	Uncategorized decimal.Decimal
}

// BuildSummary assembles the category tree, attaches item totals and rolls
// them up. Siblings are ordered by sort order then code.
func BuildSummary(categories []Category, totals []CategoryTotal) Summary {
	nodes := make(map[uuid.UUID]*SummaryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &SummaryNode{Category: c, OwnTotal: decimal.Zero, RolledTotal: decimal.Zero}
	}

	var s Summary
	s.GrandTotal = decimal.Zero
	s.Uncategorized = decimal.Zero
	for _, t := range totals {
		n, ok := nodes[t.CategoryID]
		if !ok {
			s.Uncategorized = s.Uncategorized.Add(t.Total)
			s.GrandTotal = s.GrandTotal.Add(t.Total)
			continue
		}
		n.OwnTotal = n.OwnTotal.Add(t.Total)
		n.ItemCount += t.ItemCount
	}

	for _, c := range categories {
		n := nodes[c.ID]
		if c.ParentID == nil {
			s.Roots = append(s.Roots, n)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			s.Roots = append(s.Roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	sortNodes(s.Roots)
	for _, r := range s.Roots {
		s.GrandTotal = s.GrandTotal.Add(rollUp(r))
	}
	return s
}

func rollUp(n *SummaryNode) decimal.Decimal {
	total := n.OwnTotal
	sortNodes(n.Children)
	for _, c := range n.Children {
		total = total.Add(rollUp(c))
	}
	n.RolledTotal = total
	return total
}

func sortNodes(nodes []*SummaryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Category, nodes[j].Category
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Code < b.Code
	})
}

// Flatten walks the summary depth-first, parents before children
func (s Summary) Flatten() []*SummaryNode {
	var out []*SummaryNode
	var walk func([]*SummaryNode)
	walk = func(ns []*SummaryNode) {
		for _, n := range ns {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(s.Roots)
	return out
}
