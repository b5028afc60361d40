// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"github.com/grailbio/nclist/interval"
)

// Scanner answers count queries for a position-sorted query stream, e.g.
// queries driven by a coordinate-sorted BAM.  While the stream stays on one
// reference with nondecreasing start positions, the per-query top-level
// binary search is replaced by a short exponential search forward from the
// previous query's landing point.  Out-of-order queries are still answered
// correctly; they just fall back to the plain Index search until the next
// reference switch.
//
// A Scanner is not safe for concurrent use.  The underlying Index is shared
// and read-only, so give each goroutine its own Scanner instead.
type Scanner struct {
	idx *Index
	// ends memoizes, per containment list, the end coordinate of each
	// top-level entry, in the ascending order the list guarantees.
	ends map[*refList][]interval.PosType

	list     *refList
	listEnds []interval.PosType
	// lastRefName/lastRefID identify the reference list points at.  At most
	// one is meaningful; the other is reset on every reference switch.
	lastRefName string
	lastRefID   int
	// lastStart is the previous query's start position, lastIdx the
	// top-level search result for it.  Only valid while isSequential.
	lastStart interval.PosType
	lastIdx   int
	// isSequential is true if all queries since the last reference switch
	// have been in order of nondecreasing start position.
	isSequential bool
}

// NewScanner returns a Scanner reading idx.
func NewScanner(idx *Index) *Scanner {
	return &Scanner{
		idx:       idx,
		ends:      make(map[*refList][]interval.PosType),
		lastRefID: -1,
	}
}

func (s *Scanner) endsFor(list *refList) []interval.PosType {
	if ends, ok := s.ends[list]; ok {
		return ends
	}
	top := list.Items()[:list.TopLevel()]
	ends := make([]interval.PosType, len(top))
	for i, e := range top {
		ends[i] = e.End()
	}
	s.ends[list] = ends
	return ends
}

func (s *Scanner) reset(list *refList, start, limit interval.PosType) int {
	s.list = list
	s.listEnds = s.endsFor(list)
	// listEnds[i] >= start+1 is listEnds[i] > start, the same candidacy test
	// the plain search applies.
	s.lastIdx = interval.SearchPosTypes(s.listEnds, start+1)
	s.lastStart = start
	s.isSequential = true
	return list.CountOverlapsAt(s.lastIdx, start, limit)
}

func (s *Scanner) count(start, limit interval.PosType) int {
	if s.isSequential {
		if start >= s.lastStart {
			s.lastIdx = interval.ExpsearchPosType(s.listEnds, start+1, s.lastIdx)
			s.lastStart = start
			return s.list.CountOverlapsAt(s.lastIdx, start, limit)
		}
		s.isSequential = false
	}
	return s.list.CountOverlaps(start, limit)
}

// CountOverlaps returns the number of annotation entries on refName
// overlapping [start, limit).  Unknown references overlap nothing.
func (s *Scanner) CountOverlaps(refName string, start, limit interval.PosType) int {
	// lastRefName must be cleared on a by-ID switch, so a meaningful
	// lastRefID also forces the reset path here.
	if refName != s.lastRefName || s.lastRefID >= 0 || s.list == nil {
		s.lastRefName = refName
		s.lastRefID = -1
		return s.reset(s.idx.byName(refName), start, limit)
	}
	return s.count(start, limit)
}

// CountOverlapsByID is the sam.Header-reference-ID form of CountOverlaps.
// It panics if the Index was built without a SAMHeader.
func (s *Scanner) CountOverlapsByID(refID int, start, limit interval.PosType) int {
	if refID != s.lastRefID || s.list == nil {
		s.lastRefID = refID
		s.lastRefName = ""
		return s.reset(s.idx.byID(refID), start, limit)
	}
	return s.count(start, limit)
}
