// Copyright 2023 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package annotate wraps one nested containment list per reference sequence
// (chromosome), so that an annotation BED can be queried by (refName, start,
// end) or, when a SAM/BAM header is supplied, by reference ID.  The index is
// immutable after construction; queries from concurrent goroutines need no
// locking.
package annotate
