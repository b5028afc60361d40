// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package nclist

import (
	"cmp"
	"sort"
)

// Interval is the capability required of stored items.  Intervals are
// half-open: Start() is inclusive, End() is exclusive, and End() must be
// greater than Start() (validated once, by Build).
type Interval[C cmp.Ordered] interface {
	Start() C
	End() C
}

// group addresses the contiguous run items[start:end].
type group struct {
	start int32
	end   int32
}

// NClist is the nested containment list.  It is immutable after Build; a
// caller needing different contents builds a new list.
type NClist[T Interval[C], C cmp.Ordered] struct {
	items []T
	// sub has len(items)+1 entries.  sub[0] is the top-level group; sub[i+1]
	// is the child group of items[i], holding every stored interval whose
	// bounds lie within items[i]'s.  The zero value means "no child group";
	// this is unambiguous because real child groups are never empty and only
	// the top-level group can start at offset 0 (every other group is laid
	// out after its parent item).
	sub []group
}

// Len returns the number of stored intervals.
func (l *NClist[T, C]) Len() int {
	return len(l.items)
}

// Items returns the stored intervals, in internal (grouped) order rather
// than input order.  The returned slice aliases the list's storage and must
// not be modified; doing so would silently break the search invariants.
func (l *NClist[T, C]) Items() []T {
	return l.items
}

// TopLevel returns the number of top-level stored intervals, those not
// contained in any other.  They occupy the first TopLevel() positions of
// Items() in ascending start order, and since none of them contains another
// their end coordinates ascend as well.
func (l *NClist[T, C]) TopLevel() int {
	return int(l.sub[0].end)
}

// firstCandidate returns the position of the first entry in g whose end
// exceeds qStart.  Within a group, ascending start order implies ascending
// end order, so every entry before this position ends at or before qStart
// and cannot overlap the query, while every entry from it onward satisfies
// the end > qStart half of the overlap test.
func (l *NClist[T, C]) firstCandidate(g group, qStart C) int32 {
	lo := int(g.start)
	off := sort.Search(int(g.end)-lo, func(k int) bool {
		return l.items[lo+k].End() > qStart
	})
	return g.start + int32(off)
}

// CountOverlaps returns the number of stored intervals overlapping the
// half-open query [start, end).  Two half-open intervals [a,b) and [c,d)
// overlap iff a < d && c < b.  Queries with end <= start overlap nothing.
// Counting is slightly cheaper than draining an Overlaps iterator, so prefer
// this method when only the count is needed.
func (l *NClist[T, C]) CountOverlaps(start, end C) int {
	if end <= start {
		return 0
	}
	return l.countFrom(l.firstCandidate(l.sub[0], start), start, end)
}

// CountOverlapsAt is CountOverlaps with the top-level binary search already
// done: first must be the number of top-level intervals ending at or before
// start.  A caller walking a query stream with nondecreasing starts can
// maintain first incrementally (e.g. with an exponential search over the
// top-level end coordinates, see TopLevel) instead of paying a full binary
// search per query.  Passing a first that does not satisfy the contract
// silently miscounts; when in doubt, call CountOverlaps.
func (l *NClist[T, C]) CountOverlapsAt(first int, start, end C) int {
	if end <= start {
		return 0
	}
	return l.countFrom(int32(first), start, end)
}

func (l *NClist[T, C]) countFrom(first int32, qStart, qEnd C) int {
	count := 0
	g := l.sub[0]
	i := first
	// FIFO of child groups still to be searched.  They inherit candidacy
	// from their parent (their bounds are contained in it), so no separate
	// containment check is needed when they are enqueued.
	var pending []group
	for {
		for ; i < g.end && l.items[i].Start() < qEnd; i++ {
			count++
			if c := l.sub[i+1]; c.end != 0 {
				pending = append(pending, c)
			}
		}
		if len(pending) == 0 {
			return count
		}
		g = pending[0]
		pending = pending[1:]
		i = l.firstCandidate(g, qStart)
	}
}

// OverlapIter lazily yields the stored intervals overlapping a query.
// Within each group results come in ascending start order; groups are
// visited outer-to-inner as encountered, so entries of a child group surface
// after the remaining siblings of its parent.  Use OverlapsOrdered when a
// global start order is required.
type OverlapIter[T Interval[C], C cmp.Ordered] struct {
	list    *NClist[T, C]
	qStart  C
	qEnd    C
	pos     int32
	end     int32
	pending []group
}

// Overlaps returns an iterator over the stored intervals overlapping the
// half-open query [start, end).  The iterator is lazy: child groups are
// expanded only as the scan reaches them, so a consumer that stops after the
// first match never touches unrelated groups.  The sequence is finite and
// not restartable; repeat a query by creating a new iterator.
func (l *NClist[T, C]) Overlaps(start, end C) *OverlapIter[T, C] {
	it := &OverlapIter[T, C]{list: l, qStart: start, qEnd: end}
	root := l.sub[0]
	it.end = root.end
	if end > start {
		it.pos = l.firstCandidate(root, start)
	} else {
		// Zero- and negative-width queries overlap nothing.
		it.pos = root.end
	}
	return it
}

// Next returns a pointer to the next overlapping interval, or false when the
// sequence is exhausted.  The pointer refers into the list's storage; the
// pointee must not be modified.
func (it *OverlapIter[T, C]) Next() (*T, bool) {
	for {
		if it.pos < it.end && it.list.items[it.pos].Start() < it.qEnd {
			pos := it.pos
			it.pos++
			if c := it.list.sub[pos+1]; c.end != 0 {
				it.pending = append(it.pending, c)
			}
			return &it.list.items[pos], true
		}
		// Current group exhausted (either positionally, or because every
		// later entry starts at or past the query end and so does everything
		// nested inside it).  Move on to the next pending group.
		if len(it.pending) == 0 {
			return nil, false
		}
		g := it.pending[0]
		it.pending = it.pending[1:]
		it.pos = it.list.firstCandidate(g, it.qStart)
		it.end = g.end
	}
}

// OrderedOverlapIter yields overlapping intervals in globally ascending
// start order.  It costs a bit more bookkeeping than OverlapIter but still
// allocates nothing proportional to the result set.
type OrderedOverlapIter[T Interval[C], C cmp.Ordered] struct {
	list   *NClist[T, C]
	qStart C
	qEnd   C
	pos    int32
	end    int32
	// stack holds suspended outer group slices, resumed LIFO once the
	// descent that interrupted them is exhausted.
	stack []group
}

// OverlapsOrdered returns an iterator like Overlaps, but yielding results in
// ascending start order across groups.  It descends into a child group
// immediately after yielding the parent: every entry of the child starts at
// or after the parent and before the parent's next surviving sibling, so the
// depth-first order is the global start order.
func (l *NClist[T, C]) OverlapsOrdered(start, end C) *OrderedOverlapIter[T, C] {
	it := &OrderedOverlapIter[T, C]{list: l, qStart: start, qEnd: end}
	root := l.sub[0]
	it.end = root.end
	if end > start {
		it.pos = l.firstCandidate(root, start)
	} else {
		it.pos = root.end
	}
	return it
}

// Next returns a pointer to the next overlapping interval in start order, or
// false when the sequence is exhausted.
func (it *OrderedOverlapIter[T, C]) Next() (*T, bool) {
	for {
		if it.pos < it.end && it.list.items[it.pos].Start() < it.qEnd {
			pos := it.pos
			it.pos++
			if c := it.list.sub[pos+1]; c.end != 0 {
				it.stack = append(it.stack, group{start: it.pos, end: it.end})
				it.pos = it.list.firstCandidate(c, it.qStart)
				it.end = c.end
			}
			return &it.list.items[pos], true
		}
		if len(it.stack) == 0 {
			return nil, false
		}
		g := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		// The suspended slice was already past its binary-search point; no
		// re-search is needed on resume.
		it.pos = g.start
		it.end = g.end
	}
}
