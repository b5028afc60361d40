// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package nclist

import (
	"cmp"
	"fmt"
	"sort"
)

// InvalidIntervalError is the only way Build can fail: some input item has
// end <= start.  Index is the item's position in the original input slice,
// before any reordering.
type InvalidIntervalError struct {
	Index int
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("nclist.Build: interval at index %d has end <= start", e.Index)
}

// Build constructs an NClist from items.  Construction is all-or-nothing:
// the first item with end <= start aborts the build with an
// *InvalidIntervalError carrying that item's input index, and no
// partially-built list is returned.
//
// Build takes ownership of the items slice: it is reordered in place and the
// values are stored in the returned list, which assumes exclusive access to
// them.  Callers must not mutate items (or the values reachable through
// them) while the list is in use.
//
// Items sharing identical (start, end) bounds keep their relative input
// order; where they end up in the nesting is an implementation detail with
// no effect on query results.
//
// Cost is O(N log N), dominated by the sort; the partition is a single
// linear pass over the sorted items.
func Build[T Interval[C], C cmp.Ordered](items []T) (*NClist[T, C], error) {
	for i, it := range items {
		if it.End() <= it.Start() {
			return nil, &InvalidIntervalError{Index: i}
		}
	}
	// The descending-end tie break makes a would-be container precede the
	// intervals it contains when starts are equal, so the partition pass
	// below recognizes it as the container.
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := items[i].Start(), items[j].Start()
		if si != sj {
			return si < sj
		}
		return items[i].End() > items[j].End()
	})

	n := len(items)
	// children[0] collects the top-level items; children[i+1] the items
	// nested directly inside sorted item i.  Indices refer to sorted order.
	children := make([][]int32, n+1)
	// stack holds the indices of the currently open containers.  Stack ends
	// are non-increasing bottom to top: each pushed item's end is bounded by
	// the end of the frame below it.
	var stack []int32
	for i := 0; i < n; i++ {
		// A frame ending before this item's end cannot contain it.  Nor can
		// it contain any later item that this one does not also contain:
		// later items start no earlier than this one, so anything that would
		// still fit in the popped frame fits in this item too.  Popped
		// frames are therefore closed for good.
		for len(stack) > 0 && items[stack[len(stack)-1]].End() < items[i].End() {
			stack = stack[:len(stack)-1]
		}
		slot := 0
		if len(stack) > 0 {
			// The surviving top frame contains this item: its end is at
			// least this item's end, and its start is no later since it
			// sorted earlier.
			slot = int(stack[len(stack)-1]) + 1
		}
		children[slot] = append(children[slot], int32(i))
		stack = append(stack, int32(i))
	}

	// Finalize: lay the groups out contiguously, breadth-first, into the
	// flat representation queried by nclist.go.
	list := &NClist[T, C]{
		items: make([]T, 0, n),
		sub:   make([]group, n+1),
	}
	type pendingGroup struct {
		slot    int
		members []int32
	}
	queue := []pendingGroup{{slot: 0, members: children[0]}}
	for qpos := 0; qpos < len(queue); qpos++ {
		pg := queue[qpos]
		start := len(list.items)
		for _, m := range pg.members {
			pos := len(list.items)
			list.items = append(list.items, items[m])
			if kids := children[m+1]; len(kids) > 0 {
				queue = append(queue, pendingGroup{slot: pos + 1, members: kids})
			}
		}
		list.sub[pg.slot] = group{start: int32(start), end: int32(len(list.items))}
	}
	return list, nil
}
