/*Package interval provides the genomic-coordinate support types for this
  module: the PosType coordinate type, BED entries, BED file reading, and
  samtools-style region strings.
  Unlike an interval-union representation, overlapping BED rows are kept as
  separate entries here; preserving every annotation is the reason to build a
  nested containment list in the first place.
  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM is limited to.
*/
package interval
