// Package alignment maps hypothesis speaker labels onto reference labels.
//
// Both timelines are swept together and every instant where a reference
// speaker and a hypothesis speaker are simultaneously active adds to their
// cell of a confusion matrix. A Strategy then turns the matrix into a
// one-to-one Mapping:
//
//   - StrategyGreedy walks reference speakers in sorted order and gives each
//     the unused hypothesis speaker with the largest positive overlap. It is
//     not globally optimal, and with more than two speakers the outcome
//     depends on iteration order. Downstream metrics are defined relative to
//     this alignment, so it stays the default.
//   - StrategyHungarian solves the assignment exactly (Kuhn-Munkres) and
//     maximizes total matched overlap.
//
// Speakers left without a partner are reported as unmapped. Pairs with zero
// overlap are never mapped.
package alignment
