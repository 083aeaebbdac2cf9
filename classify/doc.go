// Package classify labels candidate phrases by the sources that corroborate
// them.
//
// A candidate (typically a row of the merged table) matches a source
// segment when their time windows intersect within a tolerance and the
// classification similarity profile accepts their texts. Every candidate
// lands in exactly one bucket:
//
//   - corroborated_primary: the full-mix primary transcript carries it
//   - corroborated_voice_only: only a separated voice track carries it
//   - unsupported: nothing carries it; flagged for review, never dropped
//
// Candidates without usable times are matched on text alone.
package classify
