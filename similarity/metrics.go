package similarity

import (
	"math/bits"
	"strings"

	"github.com/go-dedup/simhash"
)

// Levenshtein returns the unit-cost edit distance between a and b, computed
// over runes with two rolling rows.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// LevenshteinRatio returns 1 - distance/max(len(a), len(b)), in [0, 1].
// Two empty strings are identical.
func LevenshteinRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Jaccard returns |A∩B| / |A∪B| over the word sets of two normalized strings.
// Tokens shorter than minTokenLen are ignored unless that would leave either
// side empty, in which case all tokens are used.
func Jaccard(a, b string, minTokenLen int) float64 {
	ta, tb := Tokens(a, minTokenLen), Tokens(b, minTokenLen)
	if minTokenLen > 0 && (len(ta) == 0 || len(tb) == 0) {
		ta, tb = Tokens(a, 0), Tokens(b, 0)
	}
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}

	setA := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		setB[t] = struct{}{}
	}
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// SubstringRatio returns len(shorter)/len(longer) when one normalized string
// contains the other, and 0 otherwise.
func SubstringRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := a, b
	if len([]rune(shorter)) > len([]rune(longer)) {
		shorter, longer = longer, shorter
	}
	if !strings.Contains(longer, shorter) {
		return 0
	}
	return float64(len([]rune(shorter))) / float64(len([]rune(longer)))
}

// wordFeatures feeds whitespace tokens of normalized text to simhash.
type wordFeatures struct {
	text string
}

func (w wordFeatures) GetFeatures() []simhash.Feature {
	fields := strings.Fields(w.text)
	features := make([]simhash.Feature, 0, len(fields))
	for _, f := range fields {
		features = append(features, simhash.NewFeature([]byte(f)))
	}
	return features
}

// Fingerprint returns the 64-bit simhash of normalized text.
func Fingerprint(normalized string) uint64 {
	return simhash.NewSimhash().GetSimhash(wordFeatures{text: normalized})
}

// SimHashSimilarity returns 1 - hamming(fp(a), fp(b))/64.
func SimHashSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	d := bits.OnesCount64(Fingerprint(a) ^ Fingerprint(b))
	return 1 - float64(d)/64
}
