package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/diarkit/classify"
	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/logger"
	"github.com/kbukum/diarkit/mdtable"
	"github.com/kbukum/diarkit/timeline"
)

const segmentFormats = `a JSON array, {"segments": [...]}, or NDJSON`

// readFile reads path, or stdin when path is "-".
func readFile(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, apperrors.InvalidInput("stdin", err.Error()).WithCause(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.InvalidInput(path, "cannot read file").WithCause(err)
	}
	return data, nil
}

// readSegments loads one segment file.
func readSegments(path string, stdin io.Reader) ([]timeline.RawSegment, error) {
	data, err := readFile(path, stdin)
	if err != nil {
		return nil, err
	}
	return decodeSegments(path, data)
}

// decodeSegments accepts a JSON array of segment objects, an object with a
// "segments" array, or newline-delimited segment objects. Numbers are kept
// as json.Number so timeline decoding sees the producer's exact text.
func decodeSegments(name string, data []byte) ([]timeline.RawSegment, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var out []timeline.RawSegment
		if err := dec.Decode(&out); err != nil {
			return nil, invalidSegments(name, err)
		}
		return out, nil
	}
	if data[0] != '{' {
		return nil, apperrors.InvalidFormat(name, segmentFormats)
	}

	var objs []map[string]any
	for {
		var obj map[string]any
		err := dec.Decode(&obj)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalidSegments(name, err)
		}
		objs = append(objs, obj)
	}

	if len(objs) == 1 {
		if list, ok := objs[0]["segments"]; ok {
			return wrappedSegments(name, list)
		}
	}
	out := make([]timeline.RawSegment, len(objs))
	for i, obj := range objs {
		out[i] = timeline.RawSegment(obj)
	}
	return out, nil
}

func wrappedSegments(name string, list any) ([]timeline.RawSegment, error) {
	items, ok := list.([]any)
	if !ok {
		return nil, apperrors.InvalidFormat(name+".segments", "array of objects")
	}
	out := make([]timeline.RawSegment, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, apperrors.InvalidFormat(fmt.Sprintf("%s.segments[%d]", name, i), "object")
		}
		out = append(out, timeline.RawSegment(obj))
	}
	return out, nil
}

func invalidSegments(name string, err error) error {
	return apperrors.InvalidFormat(name, segmentFormats).WithCause(err)
}

// parseNamed splits a "name=path" flag value. Without a name the file's
// base name, minus extension, is used.
func parseNamed(arg string) (string, string, error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok {
		path = arg
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if name == "" || path == "" {
		return "", "", apperrors.InvalidInput(arg, "expected name=path")
	}
	return name, path, nil
}

// readNamed loads every "name=path" file into a map keyed by name.
func readNamed(args []string, stdin io.Reader) (map[string][]timeline.RawSegment, error) {
	out := make(map[string][]timeline.RawSegment, len(args))
	for _, arg := range args {
		name, path, err := parseNamed(arg)
		if err != nil {
			return nil, err
		}
		if _, dup := out[name]; dup {
			return nil, apperrors.InvalidInput(name, "name given more than once")
		}
		segs, err := readSegments(path, stdin)
		if err != nil {
			return nil, err
		}
		out[name] = segs
	}
	return out, nil
}

// stampSource sets "source" on segments that lack one.
func stampSource(segs []timeline.RawSegment, source string) []timeline.RawSegment {
	for _, s := range segs {
		if v, ok := s["source"]; !ok || v == nil || v == "" {
			s["source"] = source
		}
	}
	return segs
}

// candidateJSON is one candidate in a JSON candidates file.
type candidateJSON struct {
	ID      string   `json:"id"`
	Speaker string   `json:"speaker"`
	Text    string   `json:"text"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
}

func (c candidateJSON) candidate() classify.Candidate {
	out := classify.Candidate{ID: c.ID, Speaker: c.Speaker, Text: c.Text}
	if c.Start != nil && c.End != nil && *c.Start >= 0 && *c.End >= *c.Start {
		out.Start, out.End, out.HasTime = *c.Start, *c.End, true
	}
	return out
}

// readCandidates loads candidates from a markdown table (.md, .markdown,
// .txt) or a JSON array.
func readCandidates(path string, stdin io.Reader, log *logger.Logger) ([]classify.Candidate, error) {
	data, err := readFile(path, stdin)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		cands, stats := mdtable.Candidates(string(data))
		if stats.Malformed > 0 || stats.BadTime > 0 {
			log.Warn("candidate table has unusable rows", logger.Fields(
				logger.FieldSource, path,
				"rows", stats.Rows,
				"malformed", stats.Malformed,
				"bad_time", stats.BadTime,
			))
		}
		return cands, nil
	}

	var raw []candidateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.InvalidFormat(path, "markdown table or JSON array of candidates").WithCause(err)
	}
	out := make([]classify.Candidate, len(raw))
	for i, c := range raw {
		out[i] = c.candidate()
	}
	return out, nil
}

// optionalSegments is readSegments for a flag that may be unset.
func optionalSegments(path string, stdin io.Reader) ([]timeline.RawSegment, error) {
	if path == "" {
		return nil, nil
	}
	return readSegments(path, stdin)
}
