package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	apperrors "github.com/kbukum/diarkit/errors"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var outputFormats = []string{formatJSON, formatYAML}

// writeOutput renders a report to w.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return apperrors.Internal(fmt.Errorf("encode json: %w", err))
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return apperrors.Internal(fmt.Errorf("encode yaml: %w", err))
		}
		return enc.Close()
	default:
		return apperrors.InvalidInput("output", fmt.Sprintf("unknown format %q", format))
	}
}
