package timeline

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawSegment is an undecoded segment as produced by an upstream source.
// Keys and value types vary by producer; see Build for the accepted aliases.
type RawSegment map[string]any

var (
	startKeys      = []string{"start", "start_time", "startTime", "begin"}
	endKeys        = []string{"end", "end_time", "endTime", "stop"}
	speakerKeys    = []string{"speaker", "speaker_id", "speakerId", "spk", "label"}
	textKeys       = []string{"text", "transcript", "content"}
	confidenceKeys = []string{"confidence", "score", "prob"}
	idKeys         = []string{"id", "segment_id", "segmentId"}
	sourceKeys     = []string{"source"}
)

// FromSegment converts a typed segment back into its raw form.
func FromSegment(s Segment) RawSegment {
	raw := RawSegment{
		"start":   s.Start,
		"end":     s.End,
		"speaker": s.Speaker,
		"text":    s.Text,
	}
	if s.Confidence != nil {
		raw["confidence"] = *s.Confidence
	}
	if s.Source != "" {
		raw["source"] = s.Source
	}
	if s.ID != "" {
		raw["id"] = s.ID
	}
	return raw
}

func (r RawSegment) lookup(keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r RawSegment) str(keys []string) string {
	v, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (r RawSegment) decode() (Segment, dropReason) {
	sv, ok := r.lookup(startKeys)
	if !ok {
		return Segment{}, dropNonNumeric
	}
	ev, ok := r.lookup(endKeys)
	if !ok {
		return Segment{}, dropNonNumeric
	}
	start, err := ToSeconds(sv)
	if err != nil {
		return Segment{}, dropNonNumeric
	}
	end, err := ToSeconds(ev)
	if err != nil {
		return Segment{}, dropNonNumeric
	}
	if reason := validBounds(start, end); reason != dropNone {
		return Segment{}, reason
	}
	seg := Segment{
		Start:   start,
		End:     end,
		Speaker: r.str(speakerKeys),
		Text:    r.str(textKeys),
		ID:      r.str(idKeys),
		Source:  r.str(sourceKeys),
	}
	if cv, ok := r.lookup(confidenceKeys); ok {
		if c, err := toFloat(cv); err == nil && !math.IsNaN(c) && !math.IsInf(c, 0) {
			seg.Confidence = &c
		}
	}
	return seg, dropNone
}

// ToSeconds coerces a loosely typed time value into seconds. It accepts
// numbers, json.Number, and strings holding plain seconds ("12.5", "12.5s")
// or clock timestamps ("01:02", "00:01:02.500", "00:01:02,500").
func ToSeconds(v any) (float64, error) {
	if s, ok := v.(string); ok {
		return ParseSeconds(s)
	}
	return toFloat(v)
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("unsupported time value type %T", v)
	}
}

// ParseSeconds parses a time string as seconds or as a clock timestamp.
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time value")
	}
	if !strings.Contains(s, ":") {
		s = strings.TrimSuffix(strings.ToLower(s), "s")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("parse seconds %q: %w", s, err)
		}
		return f, nil
	}

	parts := strings.Split(strings.ReplaceAll(s, ",", "."), ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("parse timestamp %q: too many fields", s)
	}
	var total float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		var (
			f   float64
			err error
		)
		if i == len(parts)-1 {
			f, err = strconv.ParseFloat(p, 64)
		} else {
			var n int
			n, err = strconv.Atoi(p)
			f = float64(n)
		}
		if err != nil || f < 0 {
			return 0, fmt.Errorf("parse timestamp %q: invalid field %q", s, p)
		}
		total = total*60 + f
	}
	return total, nil
}
