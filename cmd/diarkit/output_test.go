package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/merge"
	"github.com/kbukum/diarkit/timeline"
)

func sampleMerge() *merge.Result {
	return &merge.Result{
		Segments: []merge.MergedSegment{{
			Segment: timeline.Segment{Start: 0, End: 10, Speaker: "A", Text: "reset your modem", Source: "track_1"},
			Origin:  merge.OriginVoice,
		}},
		Collapsed: 1,
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeOutput(&buf, formatJSON, sampleMerge()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["collapsed"] != float64(1) {
		t.Errorf("expected collapsed 1, got %v", got["collapsed"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}
}

func TestWriteOutput_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeOutput(&buf, formatYAML, sampleMerge()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Segments []map[string]interface{} `yaml:"segments"`
		Collapsed int                      `yaml:"collapsed"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if got.Collapsed != 1 || len(got.Segments) != 1 {
		t.Fatalf("unexpected yaml %s", buf.String())
	}
	// the embedded segment is inlined
	if got.Segments[0]["speaker"] != "A" || got.Segments[0]["origin"] != "voice" {
		t.Errorf("expected inlined segment fields, got %v", got.Segments[0])
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	err := writeOutput(&bytes.Buffer{}, "xml", sampleMerge())
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
