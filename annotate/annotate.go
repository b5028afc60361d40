// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"runtime"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/nclist"
	"github.com/grailbio/nclist/interval"
)

// refList is the per-reference containment list.
type refList = nclist.NClist[interval.Entry, interval.PosType]

// EntryIter iterates over the annotation entries overlapping one query.
type EntryIter = nclist.OverlapIter[interval.Entry, interval.PosType]

// emptyList answers queries against references absent from the annotation
// set.
var emptyList = func() *refList {
	l, err := nclist.Build[interval.Entry, interval.PosType](nil)
	if err != nil {
		panic(err)
	}
	return l
}()

// Opts defines behavior of this package's index constructors.
type Opts struct {
	// SAMHeader enables ID-based lookup.  (This is more convenient than
	// string-based lookup when iterating over an aligned BAM/PAM.)
	SAMHeader *sam.Header
}

// Index holds one containment list per reference sequence.
type Index struct {
	// nameMap is keyed by reference name.  Always initialized.
	nameMap map[string]*refList
	// idMap is an optional slice indexed by sam.Header reference ID.  It is
	// only initialized if New{FromPath} was called with SAMHeader set.
	idMap []*refList
	// refNames lists the annotated references in first-appearance order.
	refNames []string
}

// New builds an Index from entries, which need not be sorted.  It takes
// ownership of the entries slice.  The only possible failure is an invalid
// entry (end <= start); entries produced by interval.ReadBEDEntries have
// already been validated.
func New(entries []interval.Entry, opts Opts) (*Index, error) {
	idx := &Index{nameMap: make(map[string]*refList)}
	// Group by reference without disturbing relative order within each
	// reference (identical-bound ties stay in input order).
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RefName < entries[j].RefName
	})
	for start := 0; start < len(entries); {
		end := start
		refName := entries[start].RefName
		for end < len(entries) && entries[end].RefName == refName {
			end++
		}
		list, err := nclist.Build[interval.Entry, interval.PosType](entries[start:end])
		if err != nil {
			return nil, errors.E(err, "annotate.New: building containment list for reference:", refName)
		}
		idx.nameMap[refName] = list
		idx.refNames = append(idx.refNames, refName)
		start = end
	}
	if opts.SAMHeader != nil {
		idx.nameToIDData(opts.SAMHeader)
	}
	return idx, nil
}

// NewFromPath builds an Index from a BED path (possibly gzipped, possibly
// remote).
func NewFromPath(path string, bedOpts interval.BEDOpts, opts Opts) (*Index, error) {
	entries, err := interval.ReadBEDEntriesFromPath(path, bedOpts)
	if err != nil {
		return nil, err
	}
	return New(entries, opts)
}

func (idx *Index) nameToIDData(header *sam.Header) {
	samRefs := header.Refs()
	idx.idMap = make([]*refList, len(samRefs))
	for refID, ref := range samRefs {
		// Validate ID property.  (Replace this with a comment if this is
		// guaranteed; I wasn't able to quickly find code in hts/sam which
		// made this clear one way or the other.)
		if refID != ref.ID() {
			panic("internal error: sam.header ref.ID != array position")
		}
		if list := idx.nameMap[ref.Name()]; list != nil {
			idx.idMap[refID] = list
		}
	}
}

// RefNames returns the annotated reference names in BED first-appearance
// order.  The returned slice must not be modified.
func (idx *Index) RefNames() []string {
	return idx.refNames
}

// Len returns the total number of annotation entries in the index.
func (idx *Index) Len() int {
	n := 0
	for _, refName := range idx.refNames {
		n += idx.nameMap[refName].Len()
	}
	return n
}

func (idx *Index) byName(refName string) *refList {
	if list := idx.nameMap[refName]; list != nil {
		return list
	}
	return emptyList
}

func (idx *Index) byID(refID int) *refList {
	// Just let this error out the usual way if the Index was not initialized
	// with ID info.
	if list := idx.idMap[refID]; list != nil {
		return list
	}
	return emptyList
}

// CountOverlaps returns the number of annotation entries on refName
// overlapping [start, limit).  Unknown references overlap nothing.
func (idx *Index) CountOverlaps(refName string, start, limit interval.PosType) int {
	return idx.byName(refName).CountOverlaps(start, limit)
}

// CountOverlapsByID is the sam.Header-reference-ID form of CountOverlaps.
// It panics if the Index was built without a SAMHeader.
func (idx *Index) CountOverlapsByID(refID int, start, limit interval.PosType) int {
	return idx.byID(refID).CountOverlaps(start, limit)
}

// Overlaps returns an iterator over the annotation entries on refName
// overlapping [start, limit).
func (idx *Index) Overlaps(refName string, start, limit interval.PosType) *EntryIter {
	return idx.byName(refName).Overlaps(start, limit)
}

// OverlapsByID is the sam.Header-reference-ID form of Overlaps.
func (idx *Index) OverlapsByID(refID int, start, limit interval.PosType) *EntryIter {
	return idx.byID(refID).Overlaps(start, limit)
}

// CountRegions returns the overlap count for each query, fanning the work
// out over min(parallelism, len(queries)) jobs; parallelism <= 0 selects
// runtime.NumCPU().  Reads against the immutable index are lock-free, so the
// jobs share it directly.  Each job queries through its own Scanner: query
// BEDs are usually position-sorted, and a sorted block then runs on the
// cheaper sequential search path.
func (idx *Index) CountRegions(queries []interval.Entry, parallelism int) ([]int, error) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(queries) {
		parallelism = len(queries)
	}
	counts := make([]int, len(queries))
	if len(queries) == 0 {
		return counts, nil
	}
	err := traverse.Each(parallelism, func(jobIdx int) error {
		scan := NewScanner(idx)
		startIdx := (jobIdx * len(queries)) / parallelism
		endIdx := ((jobIdx + 1) * len(queries)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			q := queries[i]
			counts[i] = scan.CountOverlaps(q.RefName, q.Start0, q.Limit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
