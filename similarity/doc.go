// Package similarity scores how alike two transcript fragments are.
//
// A Scorer normalizes both strings and walks a fixed priority of metrics:
// exact match, substring containment, Levenshtein ratio, word-set Jaccard,
// and a weighted Levenshtein/Jaccard combination. The first metric that
// clears its threshold decides the match; Compare always returns the full
// score vector for reporting.
//
// Thresholds live in a Config. Named profiles cover the three call sites of
// the reconciliation engine:
//
//   - ProfileStrictDuplicate: collapsing duplicate voice-track segments
//   - ProfileLooseOverlap: checking whether the full-mix transcript carries a phrase
//   - ProfileClassification: corroborating candidate phrases
//
// # Usage
//
//	scorer := similarity.New(similarity.Profile(similarity.ProfileClassification))
//	res := scorer.Compare("Reset your modem", "reset your modem,")
//	// res.Matched == true, res.Method == similarity.MethodExact
//
// Scorers hold no mutable state and are safe for concurrent use.
package similarity
