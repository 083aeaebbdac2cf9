package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/logger"
	"github.com/kbukum/diarkit/timeline"
)

func TestDecodeSegments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"array", `[{"start": 0, "end": 1, "speaker": "A"}, {"start": 1, "end": 2, "speaker": "B"}]`, 2},
		{"wrapped", `{"segments": [{"start": 0, "end": 1, "speaker": "A"}]}`, 1},
		{"ndjson", "{\"start\": 0, \"end\": 1}\n{\"start\": 1, \"end\": 2}\n{\"start\": 2, \"end\": 3}\n", 3},
		{"single object", `{"start": 0, "end": 1, "speaker": "A"}`, 1},
		{"empty", "  \n", 0},
		{"empty array", "[]", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeSegments("input.json", []byte(tc.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("expected %d segments, got %d", tc.want, len(got))
			}
		})
	}
}

func TestDecodeSegments_KeepsNumbersExact(t *testing.T) {
	got, err := decodeSegments("input.json", []byte(`[{"start": 1.10, "end": "00:00:02,500"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got[0]["start"].(json.Number); !ok {
		t.Errorf("expected json.Number, got %T", got[0]["start"])
	}
	tl, diag := timeline.Build(got, timeline.BuildOptions{})
	if diag.Accepted != 1 {
		t.Fatalf("expected segment accepted, got %+v", diag)
	}
	seg := tl.Segments()[0]
	if seg.Start != 1.1 || seg.End != 2.5 {
		t.Errorf("expected [1.1, 2.5], got [%v, %v]", seg.Start, seg.End)
	}
}

func TestDecodeSegments_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "start,end\n0,1\n"},
		{"broken array", `[{"start": 0,`},
		{"segments not array", `{"segments": "nope"}`},
		{"segments element not object", `{"segments": [1, 2]}`},
		{"broken ndjson", "{\"start\": 0}\n{oops}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeSegments("input.json", []byte(tc.in))
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != apperrors.ErrCodeInvalidFormat {
				t.Errorf("expected INVALID_FORMAT, got %v", err)
			}
		})
	}
}

func TestReadSegments_Stdin(t *testing.T) {
	got, err := readSegments("-", strings.NewReader(`[{"start": 0, "end": 1}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 segment, got %d", len(got))
	}
}

func TestReadSegments_MissingFile(t *testing.T) {
	_, err := readSegments(filepath.Join(t.TempDir(), "absent.json"), nil)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if appErr != nil && appErr.Cause == nil {
		t.Error("expected the read error kept as cause")
	}
}

func TestParseNamed(t *testing.T) {
	tests := []struct {
		arg, name, path string
		wantErr          bool
	}{
		{"host=tracks/host.json", "host", "tracks/host.json", false},
		{"tracks/guest.json", "guest", "tracks/guest.json", false},
		{" a = b.json ", "a", "b.json", false},
		{"=b.json", "", "", true},
		{"a=", "", "", true},
	}
	for _, tc := range tests {
		name, path, err := parseNamed(tc.arg)
		if (err != nil) != tc.wantErr {
			t.Errorf("%q: expected error=%v, got %v", tc.arg, tc.wantErr, err)
			continue
		}
		if name != tc.name || path != tc.path {
			t.Errorf("%q: expected (%q, %q), got (%q, %q)", tc.arg, tc.name, tc.path, name, path)
		}
	}
}

func TestReadNamed(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[{"start": 0, "end": 1, "speaker": "A"}]`)
	b := writeFile(t, dir, "b.json", `{"segments": []}`)

	got, err := readNamed([]string{"alpha=" + a, b}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got["alpha"]) != 1 {
		t.Errorf("expected alpha loaded, got %v", got)
	}
	if _, ok := got["b"]; !ok {
		t.Errorf("expected b named after its file, got %v", got)
	}

	_, err = readNamed([]string{"x=" + a, "x=" + b}, nil)
	if !apperrors.IsAppError(err) {
		t.Errorf("expected duplicate name rejected, got %v", err)
	}
}

func TestPoolTracks(t *testing.T) {
	tracks := map[string][]timeline.RawSegment{
		"track_2": {{"start": 1, "end": 2}},
		"track_1": {{"start": 0, "end": 1}, {"start": 3, "end": 4, "source": "override"}},
	}
	got := poolTracks(tracks)
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	want := []string{"track_1", "override", "track_2"}
	for i, w := range want {
		if got[i]["source"] != w {
			t.Errorf("segment %d: expected source %q, got %v", i, w, got[i]["source"])
		}
	}
}

func TestReadCandidates_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "merged.md", strings.Join([]string{
		"| id | speaker | text | start | end |",
		"|----|---------|------|-------|-------|",
		"| 1 | A | hello world | 1.0 | 2.0 |",
		"| 2 | B | no times here | | |",
		"| broken |",
	}, "\n"))

	got, err := readCandidates(path, nil, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", got)
	}
	if !got[0].HasTime || got[0].Text != "hello world" {
		t.Errorf("unexpected first candidate %+v", got[0])
	}
	if got[1].HasTime {
		t.Errorf("expected second candidate without time, got %+v", got[1])
	}
}

func TestReadCandidates_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "candidates.json", `[
		{"id": "C", "text": "Hello world", "start": 1, "end": 2},
		{"id": "D", "text": "inverted", "start": 5, "end": 4},
		{"id": "E", "text": "untimed"}
	]`)

	got, err := readCandidates(path, nil, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTime := []bool{true, false, false}
	for i, w := range wantTime {
		if got[i].HasTime != w {
			t.Errorf("candidate %s: expected has_time=%v, got %+v", got[i].ID, w, got[i])
		}
	}

	bad := writeFile(t, dir, "bad.json", `{"id": 1}`)
	if _, err := readCandidates(bad, nil, logger.Nop()); !apperrors.IsAppError(err) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
