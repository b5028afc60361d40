// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

/*
bio-overlap annotates query regions with the intervals of an annotation BED
that overlap them.  Unlike a merged interval-union lookup, every annotation
row is tracked separately, so a query reports each overlapping annotation
(or the exact count of them).
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/nclist/annotate"
	"github.com/grailbio/nclist/interval"
)

var (
	bedPath     = flag.String("bed", "", "Query BED path; this xor -region required")
	region      = flag.String("region", "", "Single query region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>; this xor -bed required")
	matches     = flag.Bool("matches", false, "Report one row per overlapping annotation instead of one count per query")
	oneBased    = flag.Bool("one-based", false, "Interpret BED inputs as one-based [start, end] instead of zero-based [start, end)")
	out         = flag.String("out", "bio-overlap.tsv", "Output TSV path; a .gz suffix selects gzip compression")
	parallelism = flag.Int("parallelism", 0, "Maximum number of simultaneous counting jobs; 0 = runtime.NumCPU()")
)

func bioOverlapUsage() {
	fmt.Printf("Usage: %s [OPTIONS] annotation-bed-path\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioOverlapUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositionalArgs := flag.NArg()
	positionalArgs := allArgs[len(allArgs)-nPositionalArgs:]
	if nPositionalArgs != 1 {
		if nPositionalArgs < 1 {
			log.Fatalf("Missing positional argument (annotation-bed-path required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		} else {
			log.Fatalf("Too many positional arguments (only annotation-bed-path expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		}
	}
	if (*bedPath == "") == (*region == "") {
		log.Fatalf("Exactly one of -bed and -region is required")
	}

	ctx := vcontext.Background()
	bedOpts := interval.BEDOpts{OneBasedInput: *oneBased}
	idx, err := annotate.NewFromPath(positionalArgs[0], bedOpts, annotate.Opts{})
	if err != nil {
		log.Fatalf("Failed to load annotation BED: %v", err)
	}

	var queries []interval.Entry
	if *bedPath != "" {
		if queries, err = interval.ReadBEDEntriesFromPath(*bedPath, bedOpts); err != nil {
			log.Fatalf("Failed to load query BED: %v", err)
		}
	} else {
		var q interval.Entry
		if q, err = interval.ParseRegionString(*region); err != nil {
			log.Fatalf("Invalid -region: %v", err)
		}
		queries = []interval.Entry{q}
	}

	if *matches {
		err = annotate.WriteMatchesTSV(ctx, *out, idx, queries)
	} else {
		var counts []int
		if counts, err = idx.CountRegions(queries, *parallelism); err == nil {
			err = annotate.WriteCountsTSV(ctx, *out, queries, counts)
		}
	}
	if err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
