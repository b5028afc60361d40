package interval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// BEDOpts defines the behavior of this package's BED-loading function(s).
type BEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based
	// [start, end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		// These simple loops beat the standard library string-split functions
		// when only a few leading columns are wanted.
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// ReadBEDEntries loads every interval from a BED, in file order, without
// merging or sorting.  The first three columns are required; a fourth
// column, when present, is stored as the entry name.  Input sortedness is
// not required.  Zero-width intervals are dropped: BED files use them to
// "mention" a chromosome, and they cannot overlap anything under half-open
// semantics.
func ReadBEDEntries(reader io.Reader, opts BEDOpts) (entries []Entry, err error) {
	// Note that Scanner does not handle very long lines unless we specify an
	// adequate buffer size in advance; it does not auto-resize.
	// Shouldn't matter for BED files, though.
	scanner := bufio.NewScanner(reader)

	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}

	var tokens [4][]byte
	lineIdx := 0
	// Reference names repeat for long runs in practice; reuse the previous
	// row's heap copy when they match.
	curRef := ""
	for scanner.Scan() {
		lineIdx++
		// scanner.Text() allocates and Bytes() does not, so stick to Bytes()
		// and make heap copies only where a token must outlive the line.
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken < 3 {
			if nToken == 0 {
				continue
			}
			err = fmt.Errorf("interval.ReadBEDEntries: line %d has fewer tokens than expected", lineIdx)
			return
		}

		if curRef != gunsafe.BytesToString(tokens[0]) {
			curRef = string(tokens[0])
		}

		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			err = fmt.Errorf("interval.ReadBEDEntries: negative start coordinate %v on line %d", tokens[1], lineIdx)
			return
		}

		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if (parsedEnd < parsedStart) || (parsedEnd >= PosTypeMax) {
			err = fmt.Errorf("interval.ReadBEDEntries: invalid coordinate pair on line %d", lineIdx)
			return
		}
		if parsedEnd == parsedStart {
			continue
		}

		name := ""
		if nToken > 3 {
			name = string(tokens[3])
		}
		entries = append(entries, Entry{
			RefName: curRef,
			Start0:  PosType(parsedStart),
			Limit:   PosType(parsedEnd),
			Name:    name,
		})
	}
	if err = scanner.Err(); err != nil {
		return
	}
	log.Printf("BED loaded, %d interval(s).\n", len(entries))
	return
}

// ReadBEDEntriesFromPath is a wrapper for ReadBEDEntries that takes a path
// instead of an io.Reader.  Gzipped input is detected from the filename.
func ReadBEDEntriesFromPath(path string, opts BEDOpts) (entries []Entry, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return ReadBEDEntries(reader, opts)
}
