package interval

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestReadBEDEntries(t *testing.T) {
	tests := []struct {
		pathname      string
		oneBasedInput bool
		want          []Entry
	}{
		{"testdata/test1.bed",
			false,
			[]Entry{
				{"chr1", 2488104, 2488172, "exon1"},
				{"chr1", 2489165, 2489273, "exon2"},
				{"chr1", 2489782, 2489907, "exon3"},
				{"chr1", 2490320, 2490438, ""},
				// Zero-width chr2 row is dropped.
				{"chr2", 150, 500, "utr5"},
				{"chr2", 200, 300, "cds1"},
			},
		},
	}

	for _, tt := range tests {
		result, err := ReadBEDEntriesFromPath(tt.pathname, BEDOpts{OneBasedInput: tt.oneBasedInput})
		expect.NoError(t, err)
		if !reflect.DeepEqual(result, tt.want) {
			t.Errorf("Wanted: %v  Got: %v", tt.want, result)
		}
	}
}

func TestReadBEDEntriesOneBased(t *testing.T) {
	result, err := ReadBEDEntries(
		strings.NewReader("chr3\t11\t20\nchr3\t1\t5\tfirst\n"),
		BEDOpts{OneBasedInput: true},
	)
	expect.NoError(t, err)
	want := []Entry{
		{"chr3", 10, 20, ""},
		{"chr3", 0, 5, "first"},
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("Wanted: %v  Got: %v", want, result)
	}
}

func TestReadBEDEntriesErrors(t *testing.T) {
	for _, bad := range []string{
		"chr1\t5\n",
		"chr1\t5\t4\n",
		"chr1\t-2\t4\n",
		"chr1\tx\t4\n",
		"chr1\t1\t2147483647\n",
	} {
		if _, err := ReadBEDEntries(strings.NewReader(bad), BEDOpts{}); err == nil {
			t.Errorf("ReadBEDEntries(%q) unexpectedly succeeded", bad)
		}
	}
	// Blank and whitespace-only lines are skipped.
	result, err := ReadBEDEntries(strings.NewReader("\n  \nchr1\t1\t2\n"), BEDOpts{})
	expect.NoError(t, err)
	expect.EQ(t, len(result), 1)
}

func TestParseRegionString(t *testing.T) {
	tests := []struct {
		region  string
		refName string
		start0  PosType
		limit   PosType
	}{
		{
			"chr1:1-1000",
			"chr1",
			0,
			1000,
		},
		{
			"chr1:1000",
			"chr1",
			999,
			1000,
		},
		{
			"chr1:5-5",
			"chr1",
			4,
			5,
		},
		{
			"chr1",
			"chr1",
			0,
			math.MaxInt32 - 1,
		},
	}

	for _, tt := range tests {
		result, err := ParseRegionString(tt.region)
		expect.NoError(t, err)
		expect.EQ(t, tt.refName, result.RefName)
		expect.EQ(t, tt.start0, result.Start0)
		expect.EQ(t, tt.limit, result.Limit)
	}

	for _, bad := range []string{"", ":5-10", "chr1:0", "chr1:10-5", "chr1:x-5"} {
		if _, err := ParseRegionString(bad); err == nil {
			t.Errorf("ParseRegionString(%q) unexpectedly succeeded", bad)
		}
	}
}
