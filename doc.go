// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package nclist implements an in-memory nested containment list: a static
// index over half-open intervals which answers "which stored intervals
// overlap [start, end)?" in O(log N + M) time per visited group.
// (Alekseyenko AV, Lee CJ, Bioinformatics 2007,
// doi:10.1093/bioinformatics/btl647.)
//
// It relies on the observation that a set of intervals in which no interval
// contains another, sorted by start coordinate, is also sorted by end
// coordinate; a binary search on the query start followed by a bounded
// forward scan then finds every overlap.  Contained intervals are factored
// out into per-interval child groups, each satisfying the same property, so
// the whole structure is a flat array of items plus group descriptors rather
// than a pointer tree.
//
// The list is built once and immutable afterward; there is no insert, delete
// or update.  This matches the usual shape of genomic annotation data (BED,
// GFF, GTF), where the interval set is fixed and queried many times.
// Concurrent readers are safe without locking.
//
// The annotate subpackage wraps one list per reference sequence; the
// interval subpackage supplies the coordinate and BED support types.
package nclist
