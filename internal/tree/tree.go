// Package tree assembles flat document records into a hierarchy.
package tree

import "docmanager/internal/model"

// Result is the outcome of Build.
type Result struct {
	// Root is the synthetic root. It has ID 0 and is never persisted;
	// its children are the top-level documents.
	Root *model.Document

	// Dropped holds records that could not be reached from Root, either because
	// their parent id matches no record in the set or because their ancestry
	// never reaches a top-level record.
	Dropped []model.Document
}

// Build links records by ParentID in a single pass over an id index.
// When ids repeat, children attach to the first record carrying that id.
// Children keep the relative order they had in records.
func Build(records []model.Document) Result {
	root := &model.Document{}
	nodes := make([]*model.Document, len(records))
	byID := make(map[int64]*model.Document, len(records))

	for i := range records {
		n := records[i]
		n.Children = nil
		nodes[i] = &n
		if _, seen := byID[n.ID]; !seen {
			byID[n.ID] = nodes[i]
		}
	}

	var dropped []model.Document
	for i, n := range nodes {
		if n.ParentID == 0 {
			root.Children = append(root.Children, n)
			continue
		}
		parent, ok := byID[n.ParentID]
		if !ok {
			dropped = append(dropped, records[i])
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	// Records below a dropped one, and cycles, are linked but unreachable.
	reached := make(map[*model.Document]bool, len(nodes))
	markReached(root, reached)
	for i, n := range nodes {
		if reached[n] || n.ParentID == 0 {
			continue
		}
		if _, ok := byID[n.ParentID]; !ok {
			continue
		}
		dropped = append(dropped, records[i])
	}
	for _, n := range nodes {
		if !reached[n] {
			n.Children = nil
		}
	}

	return Result{Root: root, Dropped: dropped}
}

func markReached(n *model.Document, reached map[*model.Document]bool) {
	stack := []*model.Document{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range cur.Children {
			if reached[c] {
				continue
			}
			reached[c] = true
			stack = append(stack, c)
		}
	}
}

// Depth returns the number of levels below n; a leaf has depth 0.
func Depth(n *model.Document) int {
	deepest := 0
	for _, c := range n.Children {
		if d := Depth(c) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Count returns how many documents hang below n, n excluded.
func Count(n *model.Document) int {
	total := 0
	for _, c := range n.Children {
		total += 1 + Count(c)
	}
	return total
}
