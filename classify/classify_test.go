package classify

import (
	"testing"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/timeline"
)

func seg(start, end float64, spk, text string) timeline.Segment {
	return timeline.Segment{Start: start, End: end, Speaker: spk, Text: text}
}

func mustClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func labelOf(t *testing.T, res *Result, id string) Classification {
	t.Helper()
	for _, bucket := range [][]Classification{res.CorroboratedPrimary, res.CorroboratedVoiceOnly, res.Unsupported} {
		for _, cl := range bucket {
			if cl.Candidate.ID == id {
				return cl
			}
		}
	}
	t.Fatalf("candidate %s missing from result", id)
	return Classification{}
}

func TestClassify_Scenarios(t *testing.T) {
	primary := timeline.MustNew(
		seg(1, 2, "SPEAKER_00", "Hello world."),
		seg(10, 12, "SPEAKER_01", "something else entirely"),
	)
	voice := map[string]*timeline.Timeline{
		"track_a": timeline.MustNew(seg(1.1, 2.1, "A", "hello world")),
		"track_b": timeline.MustNew(seg(10.2, 11.8, "B", "can you send the invoice")),
	}
	candidates := []Candidate{
		{ID: "C", Text: "Hello world", Start: 1, End: 2, HasTime: true},
		{ID: "D", Text: "can you send the invoice", Start: 10, End: 12, HasTime: true},
		{ID: "E", Text: "purple elephants dance", Start: 1, End: 2, HasTime: true},
	}

	res, err := mustClassifier(t).Classify(primary, voice, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		id    string
		label Label
	}{
		{"C", LabelCorroboratedPrimary},
		{"D", LabelCorroboratedVoiceOnly},
		{"E", LabelUnsupported},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			if got := labelOf(t, res, tc.id); got.Label != tc.label {
				t.Errorf("expected %s, got %s", tc.label, got.Label)
			}
		})
	}

	c := labelOf(t, res, "C")
	if !c.PrimaryMatched || !c.VoiceMatched || len(c.VoiceMatches) != 1 || c.VoiceMatches[0].Source != "track_a" {
		t.Errorf("unexpected matches for C: %+v", c)
	}
}

func TestClassify_PartitionIsExhaustive(t *testing.T) {
	primary := timeline.MustNew(seg(0, 2, "S", "good morning everyone"))
	voice := map[string]*timeline.Timeline{
		"v1": timeline.MustNew(seg(0, 2, "A", "good morning everyone"), seg(5, 6, "A", "let us begin")),
	}
	candidates := []Candidate{
		{ID: "1", Text: "good morning everyone", Start: 0, End: 2, HasTime: true},
		{ID: "2", Text: "let us begin", Start: 5, End: 6, HasTime: true},
		{ID: "3", Text: "", Start: 0, End: 1, HasTime: true},
		{ID: "4", Text: "an invented sentence", Start: 0, End: 1, HasTime: true},
		{ID: "5", Text: "good morning everyone", Start: 0, End: 2, HasTime: true},
	}
	res, err := mustClassifier(t).Classify(primary, voice, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Len() != len(candidates) {
		t.Fatalf("expected %d classified, got %d", len(candidates), res.Len())
	}
	seen := make(map[string]int)
	for _, bucket := range [][]Classification{res.CorroboratedPrimary, res.CorroboratedVoiceOnly, res.Unsupported} {
		for _, cl := range bucket {
			seen[cl.Candidate.ID]++
		}
	}
	for _, cand := range candidates {
		if seen[cand.ID] != 1 {
			t.Errorf("candidate %s appears %d times", cand.ID, seen[cand.ID])
		}
	}
	counts := res.Counts()
	if counts[LabelCorroboratedPrimary] != 2 || counts[LabelCorroboratedVoiceOnly] != 1 || counts[LabelUnsupported] != 2 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestClassify_PrimaryOnly(t *testing.T) {
	primary := timeline.MustNew(seg(3, 4, "S", "the meeting is over"))
	res, err := mustClassifier(t).Classify(primary, nil, []Candidate{
		{ID: "p", Text: "The meeting is over.", Start: 3, End: 4, HasTime: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cl := labelOf(t, res, "p")
	if cl.Label != LabelCorroboratedPrimary || cl.VoiceMatched {
		t.Errorf("expected primary corroboration without voice match, got %+v", cl)
	}
}

func TestClassify_TimeTolerance(t *testing.T) {
	primary := timeline.MustNew()
	tests := []struct {
		name  string
		start float64
		label Label
	}{
		{"inside voice tolerance", 4, LabelCorroboratedVoiceOnly},
		{"outside voice tolerance", 5, LabelUnsupported},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			voice := map[string]*timeline.Timeline{
				"v": timeline.MustNew(seg(tc.start, tc.start+1, "A", "hello world")),
			}
			res, err := mustClassifier(t).Classify(primary, voice, []Candidate{
				{ID: "x", Text: "hello world", Start: 1, End: 2, HasTime: true},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := labelOf(t, res, "x").Label; got != tc.label {
				t.Errorf("expected %s, got %s", tc.label, got)
			}
		})
	}
}

func TestClassify_TextOnlyWithoutTimes(t *testing.T) {
	voice := map[string]*timeline.Timeline{
		"v": timeline.MustNew(seg(100, 101, "A", "hello world")),
	}
	res, err := mustClassifier(t).Classify(timeline.MustNew(), voice, []Candidate{
		{ID: "x", Text: "hello world"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := labelOf(t, res, "x").Label; got != LabelCorroboratedVoiceOnly {
		t.Errorf("expected voice-only match on text, got %s", got)
	}
}

func TestClassify_RecordsBestMatch(t *testing.T) {
	primary := timeline.MustNew(
		seg(1, 2, "S", "hello world again"),
		seg(1.5, 2.5, "S", "hello world"),
	)
	res, err := mustClassifier(t).Classify(primary, nil, []Candidate{
		{ID: "x", Text: "hello world", Start: 1, End: 2, HasTime: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := labelOf(t, res, "x").PrimaryMatch
	if m == nil || m.Segment.Start != 1.5 || m.Similarity.Score != 1 {
		t.Errorf("expected exact segment at 1.5 to win, got %+v", m)
	}
}

func TestClassify_Errors(t *testing.T) {
	c := mustClassifier(t)
	_, err := c.Classify(nil, nil, nil)
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT for nil primary, got %v", err)
	}
	_, err = c.Classify(timeline.MustNew(), map[string]*timeline.Timeline{"v": nil}, nil)
	if err == nil {
		t.Error("expected error for nil voice track")
	}

	if _, err := New(Options{PrimaryTolerance: -1}); err == nil {
		t.Error("expected error for negative tolerance")
	}
}

func TestOverlapCandidates(t *testing.T) {
	primary := timeline.MustNew(seg(0, 3, "S", "are you there"))
	voice := map[string]*timeline.Timeline{
		"t1": timeline.MustNew(seg(0, 3, "A", "are you there")),
		"t2": timeline.MustNew(seg(1, 2, "B", "yes I am here"), seg(20, 21, "B", "later")),
	}
	got, err := mustClassifier(t).OverlapCandidates(primary, voice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 overlap candidates, got %+v", got)
	}
	if got[0].Track != "t1" || !got[0].InPrimary || len(got[0].Peers) != 1 || got[0].Peers[0].Speaker != "B" {
		t.Errorf("unexpected first candidate %+v", got[0])
	}
	if got[1].Track != "t2" || got[1].InPrimary {
		t.Errorf("expected swallowed overlap on t2, got %+v", got[1])
	}
}

func TestOverlapCandidates_SameSpeakerIgnored(t *testing.T) {
	voice := map[string]*timeline.Timeline{
		"t1": timeline.MustNew(seg(0, 3, "A", "one")),
		"t2": timeline.MustNew(seg(1, 2, "A", "two")),
	}
	got, err := mustClassifier(t).OverlapCandidates(nil, voice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no candidates for one speaker, got %+v", got)
	}
}
