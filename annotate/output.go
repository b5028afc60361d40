// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/nclist/interval"
	"github.com/klauspost/compress/gzip"
)

// writeQueryCols appends the CHROM/START/END columns shared by the output
// formats.  Coordinates stay 0-based half-open, BED-style, since both input
// and output are BED-shaped.
func writeQueryCols(tsvw *tsv.Writer, q interval.Entry) {
	tsvw.WriteString(q.RefName)
	tsvw.WriteUint32(uint32(q.Start0))
	tsvw.WriteUint32(uint32(q.Limit))
}

// WriteCountsTSV writes one "#CHROM START END COUNT" row per query to path.
// A path ending in .gz selects gzip compression.
func WriteCountsTSV(ctx context.Context, path string, queries []interval.Entry, counts []int) (err error) {
	var dst file.File
	if dst, err = file.Create(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, dst, &err)

	w, finish := maybeGzip(path, dst.Writer(ctx))
	defer finish(&err)
	tsvw := tsv.NewWriter(w)
	tsvw.WriteString("#CHROM\tSTART\tEND\tCOUNT")
	if err = tsvw.EndLine(); err != nil {
		return
	}
	for i, q := range queries {
		writeQueryCols(tsvw, q)
		tsvw.WriteUint32(uint32(counts[i]))
		if err = tsvw.EndLine(); err != nil {
			return
		}
	}
	return tsvw.Flush()
}

// WriteMatchesTSV writes one row per (query, overlapping annotation) pair:
// "#CHROM START END MATCH_START MATCH_END MATCH_NAME".  Queries with no
// overlap produce no rows.
func WriteMatchesTSV(ctx context.Context, path string, idx *Index, queries []interval.Entry) (err error) {
	var dst file.File
	if dst, err = file.Create(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, dst, &err)

	w, finish := maybeGzip(path, dst.Writer(ctx))
	defer finish(&err)
	tsvw := tsv.NewWriter(w)
	tsvw.WriteString("#CHROM\tSTART\tEND\tMATCH_START\tMATCH_END\tMATCH_NAME")
	if err = tsvw.EndLine(); err != nil {
		return
	}
	for _, q := range queries {
		it := idx.Overlaps(q.RefName, q.Start0, q.Limit)
		for hit, ok := it.Next(); ok; hit, ok = it.Next() {
			writeQueryCols(tsvw, q)
			tsvw.WriteUint32(uint32(hit.Start0))
			tsvw.WriteUint32(uint32(hit.Limit))
			name := hit.Name
			if name == "" {
				name = "."
			}
			tsvw.WriteString(name)
			if err = tsvw.EndLine(); err != nil {
				return
			}
		}
	}
	return tsvw.Flush()
}

// maybeGzip wraps w in a gzip writer when the path's file type calls for it.
// The returned finish func must run before the underlying file is closed.
func maybeGzip(path string, w io.Writer) (io.Writer, func(*error)) {
	if fileio.DetermineType(path) != fileio.Gzip {
		return w, func(*error) {}
	}
	gz := gzip.NewWriter(w)
	return gz, func(errp *error) {
		if e := gz.Close(); e != nil && *errp == nil {
			*errp = e
		}
	}
}
