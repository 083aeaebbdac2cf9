// Package merge collapses duplicate voice-track segments into one corrected
// timeline.
//
// Source separation often leaks one speaker into several tracks, so the
// same utterance shows up more than once. Two segments are duplicates when
// they share a speaker, their overlap covers more than CoverageThreshold of
// the shorter one, and the strict_duplicate similarity profile accepts their
// texts. The longer segment survives (ties go to the earlier start) and
// absorbs the other's provenance. Collapsing repeats until no duplicate pair
// remains, so the output never contains two segments that satisfy the rule.
//
// When a primary transcript is supplied, kept segments are flagged as
// primary-corroborated, primary segments that no voice track explains are
// appended, and a last dedupe pass prefers voice-track segments over primary
// ones.
package merge
