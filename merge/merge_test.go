package merge

import (
	"testing"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/timeline"
)

func seg(start, end float64, spk, text, source string) timeline.Segment {
	return timeline.Segment{Start: start, End: end, Speaker: spk, Text: text, Source: source}
}

func mustMerger(t *testing.T, opts Options) *Merger {
	t.Helper()
	m, err := New(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func assertNoDuplicates(t *testing.T, m *Merger, segs []MergedSegment) {
	t.Helper()
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if m.IsDuplicate(segs[i].Segment, segs[j].Segment) {
				t.Errorf("duplicate pair left in output: %+v / %+v", segs[i], segs[j])
			}
		}
	}
}

func TestMerge_ScenarioF(t *testing.T) {
	voice := timeline.MustNew(
		seg(0, 10, "A", "reset your modem", "track_1"),
		seg(1, 11, "A", "reset your modem,", "track_2"),
	)
	m := mustMerger(t, Options{})
	res, err := m.Merge(voice, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("expected one merged segment, got %+v", res.Segments)
	}
	got := res.Segments[0]
	if got.Start != 0 || got.Source != "track_1" {
		t.Errorf("expected earlier segment to survive the length tie, got %+v", got)
	}
	if len(got.Absorbed) != 1 || got.Absorbed[0].Source != "track_2" {
		t.Errorf("expected provenance of track_2, got %+v", got.Absorbed)
	}
	if res.Collapsed != 1 {
		t.Errorf("expected 1 collapsed, got %d", res.Collapsed)
	}
}

func TestMerge_KeepsLonger(t *testing.T) {
	voice := timeline.MustNew(
		seg(0, 4, "A", "we should ship on friday", "t1"),
		seg(0.5, 6, "A", "we should ship on friday", "t2"),
	)
	res, err := mustMerger(t, Options{}).Merge(voice, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 1 || res.Segments[0].Source != "t2" {
		t.Errorf("expected longer t2 segment to survive, got %+v", res.Segments)
	}
}

func TestMerge_NotDuplicates(t *testing.T) {
	tests := []struct {
		name string
		a, b timeline.Segment
	}{
		{"different speakers", seg(0, 10, "A", "reset your modem", "t1"), seg(1, 11, "B", "reset your modem", "t2")},
		{"low coverage", seg(0, 10, "A", "reset your modem", "t1"), seg(8, 12, "A", "reset your modem", "t2")},
		{"different text", seg(0, 10, "A", "reset your modem", "t1"), seg(1, 11, "A", "call me tomorrow", "t2")},
		{"empty text", seg(0, 10, "A", "", "t1"), seg(1, 11, "A", "", "t2")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := mustMerger(t, Options{}).Merge(timeline.MustNew(tc.a, tc.b), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(res.Segments) != 2 {
				t.Errorf("expected both segments kept, got %+v", res.Segments)
			}
		})
	}
}

func TestMerge_KeepsDistinctShortPhrases(t *testing.T) {
	voice := timeline.MustNew(
		seg(0, 2, "A", "I said yes", "t1"),
		seg(0.1, 2, "A", "I said no", "t2"),
	)
	res, err := mustMerger(t, Options{}).Merge(voice, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 2 || res.Collapsed != 0 {
		t.Fatalf("expected both phrases kept, got %+v", res.Segments)
	}
	texts := map[string]bool{}
	for _, s := range res.Segments {
		texts[s.Text] = true
		if len(s.Absorbed) != 0 {
			t.Errorf("expected no absorbed sources, got %+v", s.Absorbed)
		}
	}
	if !texts["I said yes"] || !texts["I said no"] {
		t.Errorf("expected both texts in output, got %v", texts)
	}
}

func TestMerge_RepeatsUntilClean(t *testing.T) {
	voice := timeline.MustNew(
		seg(0, 5, "A", "thanks for joining the call", "t1"),
		seg(0.2, 5.1, "A", "thanks for joining the call", "t2"),
		seg(0.3, 5.3, "A", "Thanks for joining the call!", "t3"),
		seg(0.1, 4.9, "A", "thanks for joining the call", "t4"),
		seg(20, 22, "A", "goodbye", "t1"),
	)
	m := mustMerger(t, Options{})
	res, err := m.Merge(voice, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %+v", res.Segments)
	}
	if len(res.Segments[0].Absorbed) != 3 {
		t.Errorf("expected survivor to carry 3 absorbed sources, got %+v", res.Segments[0].Absorbed)
	}
	assertNoDuplicates(t, m, res.Segments)
}

func TestMerge_PrimaryCorroborationAndFill(t *testing.T) {
	voice := timeline.MustNew(seg(0, 3, "A", "hello there", "t1"))
	primary := timeline.MustNew(
		seg(0.5, 3, "SPEAKER_00", "hello there", "primary"),
		seg(10, 12, "SPEAKER_01", "an unexplained phrase", "primary"),
	)

	res, err := mustMerger(t, Options{}).Merge(voice, primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 2 || res.PrimaryFilled != 1 {
		t.Fatalf("expected voice segment plus one primary fill, got %+v", res)
	}
	if !res.Segments[0].PrimaryCorroborated || res.Segments[0].Origin != OriginVoice {
		t.Errorf("expected corroborated voice segment, got %+v", res.Segments[0])
	}
	if res.Segments[1].Origin != OriginPrimary || res.Segments[1].Start != 10 {
		t.Errorf("expected appended primary segment, got %+v", res.Segments[1])
	}

	res, err = mustMerger(t, Options{SkipPrimaryFill: true}).Merge(voice, primary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 1 || res.PrimaryFilled != 0 {
		t.Errorf("expected no fill, got %+v", res)
	}
}

func TestSurvives(t *testing.T) {
	voice := MergedSegment{Segment: seg(0, 1, "A", "x", "t1"), Origin: OriginVoice}
	primary := MergedSegment{Segment: seg(0, 5, "A", "x", "primary"), Origin: OriginPrimary}
	if !survives(voice, primary, true) {
		t.Error("expected voice origin to win when preferred")
	}
	if survives(voice, primary, false) {
		t.Error("expected longer segment to win otherwise")
	}
	early := MergedSegment{Segment: seg(0, 2, "A", "x", "t1")}
	late := MergedSegment{Segment: seg(1, 3, "A", "x", "t2")}
	if !survives(early, late, false) || survives(late, early, false) {
		t.Error("expected earlier start to break the length tie")
	}
}

func TestMerge_ResultTimeline(t *testing.T) {
	res, err := mustMerger(t, Options{}).Merge(timeline.MustNew(seg(1, 2, "A", "x", "t1")), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tl := res.Timeline(); tl.Len() != 1 || tl.At(0).Source != "t1" {
		t.Errorf("unexpected timeline %+v", tl.Segments())
	}
}

func TestMerge_Errors(t *testing.T) {
	_, err := mustMerger(t, Options{}).Merge(nil, nil)
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if _, err := New(Options{CoverageThreshold: 1.5}); err == nil {
		t.Error("expected error for coverage above 1")
	}
}
