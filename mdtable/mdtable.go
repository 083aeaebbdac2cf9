// Package mdtable reads the merged transcript table produced upstream.
//
// The table has five columns, in order: id | speaker | text | start | end.
// Header and separator rows are skipped. A pipe inside a cell must be
// escaped as \|; rows with more than five cells are assumed to carry
// unescaped pipes in the text and have their middle cells rejoined. Rows
// with fewer than five cells are counted as malformed and dropped.
package mdtable

import (
	"bufio"
	"math"
	"strings"

	"github.com/kbukum/diarkit/classify"
	"github.com/kbukum/diarkit/timeline"
)

// Columns is the number of cells in a well-formed row.
const Columns = 5

// Row is one data row of the table.
type Row struct {
	Line    int     `json:"line" yaml:"line"`
	ID      string  `json:"id" yaml:"id"`
	Speaker string  `json:"speaker" yaml:"speaker"`
	Text    string  `json:"text" yaml:"text"`
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	// HasTime is false when start or end is missing, unparsable, negative
	// or inverted.
	HasTime bool `json:"has_time" yaml:"has_time"`
}

// Candidate converts the row for classification.
func (r Row) Candidate() classify.Candidate {
	return classify.Candidate{
		ID:      r.ID,
		Speaker: r.Speaker,
		Text:    r.Text,
		Start:   r.Start,
		End:     r.End,
		HasTime: r.HasTime,
	}
}

// Stats counts what Parse saw.
type Stats struct {
	Rows       int `json:"rows" yaml:"rows"`
	Headers    int `json:"headers" yaml:"headers"`
	Separators int `json:"separators" yaml:"separators"`
	Malformed  int `json:"malformed" yaml:"malformed"`
	Rejoined   int `json:"rejoined" yaml:"rejoined"`
	BadTime    int `json:"bad_time" yaml:"bad_time"`
}

// Parse extracts rows from markdown text. Lines without a pipe are ignored.
func Parse(text string) ([]Row, Stats) {
	var (
		rows  []Row
		stats Stats
	)
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if !strings.Contains(raw, "|") {
			continue
		}
		cells := splitCells(raw)
		switch {
		case isSeparator(cells):
			stats.Separators++
			continue
		case isHeader(cells):
			stats.Headers++
			continue
		case len(cells) < Columns:
			stats.Malformed++
			continue
		}

		if len(cells) > Columns {
			stats.Rejoined++
			n := len(cells)
			cells = []string{cells[0], cells[1], strings.Join(cells[2:n-2], " | "), cells[n-2], cells[n-1]}
		}

		row := Row{Line: line, ID: cells[0], Speaker: cells[1], Text: cells[2]}
		row.Start, row.End, row.HasTime = parseTimes(cells[3], cells[4])
		if !row.HasTime {
			stats.BadTime++
		}
		rows = append(rows, row)
		stats.Rows++
	}
	return rows, stats
}

// Candidates parses text and converts every row.
func Candidates(text string) ([]classify.Candidate, Stats) {
	rows, stats := Parse(text)
	out := make([]classify.Candidate, len(rows))
	for i, r := range rows {
		out[i] = r.Candidate()
	}
	return out, stats
}

// splitCells splits on unescaped pipes, dropping the outer border pipes.
func splitCells(line string) []string {
	var (
		cells []string
		cur   strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case c == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))

	if strings.HasPrefix(line, "|") {
		cells = cells[1:]
	}
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) && len(cells) > 0 {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func isSeparator(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		c = strings.Trim(c, ":")
		if c == "" || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

func isHeader(cells []string) bool {
	hasSpeaker := false
	for _, c := range cells {
		if strings.EqualFold(c, "speaker") {
			hasSpeaker = true
		}
	}
	if !hasSpeaker || len(cells) < Columns {
		return hasSpeaker
	}
	_, errStart := timeline.ParseSeconds(cells[len(cells)-2])
	_, errEnd := timeline.ParseSeconds(cells[len(cells)-1])
	return errStart != nil && errEnd != nil
}

func parseTimes(startCell, endCell string) (float64, float64, bool) {
	start, err := timeline.ParseSeconds(startCell)
	if err != nil {
		return 0, 0, false
	}
	end, err := timeline.ParseSeconds(endCell)
	if err != nil {
		return 0, 0, false
	}
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(end, 0) || start < 0 || end < start {
		return 0, 0, false
	}
	return start, end, true
}
