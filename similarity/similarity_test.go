package similarity

import (
	"math"
	"reflect"
	"sync"
	"testing"

	apperrors "github.com/kbukum/diarkit/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, world!", "hello world"},
		{"hello world", "hello world"},
		{"  Reset   your MODEM,\n", "reset your modem"},
		{"ＡＢＣ ｄｅｆ", "abc def"},
		{"it's -- fine...", "it s fine"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := Normalize(tc.in)
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"flaw", "lawn", 2},
		{"héllo", "hello", 1},
		{"same", "same", 0},
	}
	for _, tc := range tests {
		if got := Levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := Levenshtein(tc.b, tc.a); got != tc.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	if got := Jaccard("the cat sat", "the cat ran", 0); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
	// filtering would empty both sides, so every token counts
	if got := Jaccard("a b", "a c", 3); math.Abs(got-1.0/3) > 1e-12 {
		t.Errorf("expected 1/3, got %v", got)
	}
	if got := Jaccard("an apple pie", "an apple tart", 3); got != 1.0/3 {
		t.Errorf("expected short tokens excluded (1/3), got %v", got)
	}
}

func TestSubstringRatio(t *testing.T) {
	got := SubstringRatio("reset your modem", "reset your modem please")
	if math.Abs(got-16.0/23) > 1e-12 {
		t.Errorf("expected 16/23, got %v", got)
	}
	if SubstringRatio("abc", "xyz") != 0 {
		t.Error("expected 0 for non-contained strings")
	}
	if SubstringRatio("", "xyz") != 0 {
		t.Error("expected 0 for empty input")
	}
}

func TestScorer_Methods(t *testing.T) {
	scorer := New(Profile(ProfileClassification))
	tests := []struct {
		name    string
		a, b    string
		matched bool
		method  Method
	}{
		{"exact after normalization", "Reset your modem", "reset your modem,", true, MethodExact},
		{"substring", "reset your modem", "reset your modem please", true, MethodSubstring},
		{"levenshtein", "reset your modem", "reset you modem", true, MethodLevenshtein},
		{"short text uses adaptive threshold", "hi", "ho", true, MethodLevenshtein},
		{"unrelated", "the weather is nice today", "please reset your modem", false, MethodNone},
		{"empty", "", "abc", false, MethodNone},
		{"punctuation only", "!!!", "...", false, MethodNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := scorer.Compare(tc.a, tc.b)
			if res.Matched != tc.matched {
				t.Errorf("expected matched=%v, got %+v", tc.matched, res)
			}
			if res.Method != tc.method {
				t.Errorf("expected method %s, got %s", tc.method, res.Method)
			}
			if res.Score < 0 || res.Score > 1 {
				t.Errorf("score out of range: %v", res.Score)
			}
		})
	}
}

func TestScorer_StrictRejectsShortFragment(t *testing.T) {
	scorer := New(Profile(ProfileStrictDuplicate))
	res := scorer.Compare("yes", "yes I will call the support line tomorrow")
	if res.Matched {
		t.Errorf("expected a short fragment not to duplicate a sentence, got %+v", res)
	}
	if res.Scores.Substring == 0 {
		t.Error("expected substring sub-score to be reported")
	}
}

func TestScorer_StrictKeepsShortPhrasesApart(t *testing.T) {
	scorer := New(Profile(ProfileStrictDuplicate))
	tests := []struct {
		a, b    string
		matched bool
	}{
		{"I said yes", "I said no", false},
		{"call me now", "call me later", false},
		{"ok", "OK!", true},
		{"I said yes", "i said yes.", true},
	}
	for _, tc := range tests {
		res := scorer.Compare(tc.a, tc.b)
		if res.Matched != tc.matched {
			t.Errorf("Compare(%q, %q): expected matched=%v, got %+v", tc.a, tc.b, tc.matched, res)
		}
	}
}

func TestScorer_StrictLengthThresholds(t *testing.T) {
	scorer := New(Profile(ProfileStrictDuplicate))
	tests := []struct {
		n    int
		want float64
	}{
		{2, 0.45},
		{3, 0.8},
		{10, 0.8},
		{11, 0.85},
	}
	for _, tc := range tests {
		if got := scorer.LevenshteinThresholdFor(tc.n); got != tc.want {
			t.Errorf("LevenshteinThresholdFor(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestProfile_ReturnsIndependentTables(t *testing.T) {
	cfg := Profile(ProfileStrictDuplicate)
	cfg.LengthThresholds[1].Threshold = 0.1
	if got := Profile(ProfileStrictDuplicate).LengthThresholds[1].Threshold; got != 0.8 {
		t.Errorf("expected preset table to be unchanged, got %v", got)
	}
}

func TestScorer_PunctuationOnlyIsReflexive(t *testing.T) {
	for _, name := range ProfileNames() {
		scorer := New(Profile(ProfileName(name)))
		for _, text := range []string{"!!!", "...", "¿?"} {
			res := scorer.Compare(text, text)
			if res.Score != 1 || res.Method != MethodExact {
				t.Errorf("%s: expected %q to score 1 against itself, got %+v", name, text, res)
			}
			if res.Matched {
				t.Errorf("%s: expected text without words not to match, got %+v", name, res)
			}
		}
		if res := scorer.Compare("", ""); res.Score != 0 || res.Matched {
			t.Errorf("%s: expected empty input to score 0, got %+v", name, res)
		}
		if res := scorer.Compare("!!!", "..."); res.Score != 0 || res.Matched {
			t.Errorf("%s: expected different punctuation to score 0, got %+v", name, res)
		}
	}
}

func TestScorer_SymmetricAndReflexive(t *testing.T) {
	texts := []string{
		"Hello, world!",
		"hello there world",
		"reset your modem",
		"reset your modem,",
		"please reset the router",
		"hi",
		"ok",
		"Ｆｕｌｌ width",
	}
	for _, name := range ProfileNames() {
		scorer := New(Profile(ProfileName(name)))
		for _, a := range texts {
			self := scorer.Compare(a, a)
			if !self.Matched || self.Score != 1 {
				t.Errorf("%s: expected %q to match itself with score 1, got %+v", name, a, self)
			}
			for _, b := range texts {
				ab, ba := scorer.Compare(a, b), scorer.Compare(b, a)
				if !reflect.DeepEqual(ab, ba) {
					t.Errorf("%s: asymmetric for %q / %q: %+v vs %+v", name, a, b, ab, ba)
				}
			}
		}
	}
}

func TestScorer_LevenshteinThresholdFor(t *testing.T) {
	scorer := New(Profile(ProfileClassification))
	tests := []struct {
		n    int
		want float64
	}{
		{1, 0.45},
		{2, 0.45},
		{3, 0.55},
		{5, 0.55},
		{10, 0.65},
		{11, 0.75},
		{200, 0.75},
	}
	for _, tc := range tests {
		if got := scorer.LevenshteinThresholdFor(tc.n); got != tc.want {
			t.Errorf("LevenshteinThresholdFor(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestScorer_CustomTableIsSorted(t *testing.T) {
	cfg := Profile(ProfileClassification)
	cfg.LengthThresholds = []LengthThreshold{{MaxRunes: 10, Threshold: 0.6}, {MaxRunes: 3, Threshold: 0.3}}
	scorer := New(cfg)
	if got := scorer.LevenshteinThresholdFor(2); got != 0.3 {
		t.Errorf("expected 0.3, got %v", got)
	}
	cfg.LengthThresholds[0].Threshold = 0.99
	if got := scorer.LevenshteinThresholdFor(8); got != 0.6 {
		t.Errorf("expected scorer to be isolated from config mutation, got %v", got)
	}
}

func TestScorer_SimHashReportedOnly(t *testing.T) {
	scorer := New(Profile(ProfileClassification))
	res := scorer.Compare("reset your modem", "reset your modem")
	if res.Scores.SimHash != 1 {
		t.Errorf("expected simhash 1 for identical text, got %v", res.Scores.SimHash)
	}
	if Fingerprint("reset your modem") != Fingerprint("reset your modem") {
		t.Error("expected deterministic fingerprint")
	}
}

func TestScorer_Concurrent(t *testing.T) {
	scorer := New(Profile(ProfileLooseOverlap))
	want := scorer.Compare("can you hear me now", "can you hear me")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := scorer.Compare("can you hear me now", "can you hear me"); !reflect.DeepEqual(got, want) {
				t.Errorf("expected %+v, got %+v", want, got)
			}
		}()
	}
	wg.Wait()
}

func TestLookupProfile(t *testing.T) {
	cfg, err := LookupProfile("strict_duplicate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LevenshteinThreshold != 0.85 {
		t.Errorf("expected 0.85, got %v", cfg.LevenshteinThreshold)
	}

	_, err = LookupProfile("bogus")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidConfig {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	for _, name := range ProfileNames() {
		if err := Profile(ProfileName(name)).Validate(); err != nil {
			t.Errorf("profile %s: unexpected error %v", name, err)
		}
	}

	bad := Profile(ProfileClassification)
	bad.JaccardThreshold = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for threshold above 1")
	}

	bad = Profile(ProfileClassification)
	bad.LevenshteinWeight, bad.JaccardWeight = 0, 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero weights")
	}
}
