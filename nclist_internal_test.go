// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package nclist

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
)

type span struct {
	s, e int
}

func (x span) Start() int { return x.s }
func (x span) End() int   { return x.e }

// checkLayout verifies the structural invariants of the flat representation:
// every item belongs to exactly one group, groups are contiguous and sorted
// by start (hence also by end), and each child group's bounds lie within its
// parent item's bounds.
func checkLayout(t *testing.T, l *NClist[span, int]) {
	t.Helper()
	n := len(l.items)
	if len(l.sub) != n+1 {
		t.Fatalf("sub has %d entries, want %d", len(l.sub), n+1)
	}
	seen := make([]int, n)
	for slot, g := range l.sub {
		if slot != 0 && g.end == 0 {
			continue
		}
		if g.start > g.end || int(g.end) > n {
			t.Fatalf("slot %d: bad group bounds [%d, %d)", slot, g.start, g.end)
		}
		if slot != 0 && g.start == g.end {
			t.Fatalf("slot %d: empty child group", slot)
		}
		for i := g.start; i < g.end; i++ {
			seen[i]++
			if i > g.start {
				if l.items[i].Start() < l.items[i-1].Start() {
					t.Fatalf("slot %d: starts not ascending at %d", slot, i)
				}
				if l.items[i].End() < l.items[i-1].End() {
					t.Fatalf("slot %d: ends not ascending at %d", slot, i)
				}
			}
			if slot != 0 {
				parent := l.items[slot-1]
				if l.items[i].Start() < parent.Start() || l.items[i].End() > parent.End() {
					t.Fatalf("slot %d: member [%d, %d) escapes parent [%d, %d)",
						slot, l.items[i].Start(), l.items[i].End(), parent.Start(), parent.End())
				}
			}
		}
	}
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("item %d appears in %d groups, want 1", i, c)
		}
	}
}

func TestLayout(t *testing.T) {
	l, err := Build[span, int]([]span{{10, 15}, {10, 20}, {1, 8}})
	expect.NoError(t, err)
	checkLayout(t, l)

	// Sorted order is (1,8), (10,20), (10,15); the last is nested inside
	// (10,20).
	expect.EQ(t, l.sub[0].start, int32(0))
	expect.EQ(t, l.sub[0].end, int32(2))
	expect.EQ(t, l.sub[1].end, int32(0))
	expect.EQ(t, l.sub[2].start, int32(2))
	expect.EQ(t, l.sub[2].end, int32(3))
	expect.EQ(t, l.sub[3].end, int32(0))

	empty, err := Build[span, int](nil)
	expect.NoError(t, err)
	expect.EQ(t, empty.Len(), 0)
	checkLayout(t, empty)
}

func TestLayoutSharedStart(t *testing.T) {
	// Equal starts: the wider interval must become the container.
	l, err := Build[span, int]([]span{{5, 10}, {5, 30}, {5, 20}})
	expect.NoError(t, err)
	checkLayout(t, l)
	expect.EQ(t, l.sub[0].start, int32(0))
	expect.EQ(t, l.sub[0].end, int32(1))
	expect.EQ(t, l.items[0].s, 5)
	expect.EQ(t, l.items[0].e, 30)
}

func TestLayoutRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(120)
		items := make([]span, n)
		for i := range items {
			s := rng.Intn(500)
			items[i] = span{s, s + 1 + rng.Intn(80)}
		}
		l, err := Build[span, int](items)
		expect.NoError(t, err)
		checkLayout(t, l)
	}
}

func TestLayoutDeepChain(t *testing.T) {
	// Successively nested intervals: one singleton group per level.
	const depth = 4096
	items := make([]span, depth)
	for i := range items {
		items[i] = span{i, 2*depth - i}
	}
	l, err := Build[span, int](items)
	expect.NoError(t, err)
	checkLayout(t, l)
	for i := 0; i < depth; i++ {
		expect.EQ(t, l.sub[i].end-l.sub[i].start, int32(1))
	}
}
