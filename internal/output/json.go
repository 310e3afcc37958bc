package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/aquarank/internal/scoring"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	indent bool
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(indent bool) *JSONFormatter {
	return &JSONFormatter{indent: indent}
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header     JSONHeader             `json:"header"`
	Source     string                 `json:"source,omitempty"`
	Profile    JSONProfile            `json:"profile"`
	Thresholds scoring.ThresholdSet   `json:"thresholds"`
	Stats      scoring.Stats          `json:"stats"`
	Featured   *scoring.ScoredSample  `json:"featured,omitempty"`
	TopPicks   []scoring.ScoredSample `json:"topPicks"`
	Ranked     []JSONRankedEntry      `json:"ranked"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONProfile names the preset the thresholds came from.
type JSONProfile struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label"`
}

// JSONRankedEntry is one row of the ranked table.
type JSONRankedEntry struct {
	Rank int `json:"rank"`
	scoring.ScoredSample
}

// Format writes the report as a single JSON document.
func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	report := JSONReport{
		Header: JSONHeader{
			Tool:      "aquarank",
			Version:   Version,
			Timestamp: r.generatedAt().Format(time.RFC3339),
		},
		Source:     r.Source,
		Profile:    JSONProfile{ID: r.ProfileID, Label: r.ProfileLabel()},
		Thresholds: r.Evaluation.Thresholds,
		Stats:      r.Evaluation.Stats,
		TopPicks:   append([]scoring.ScoredSample{}, r.TopPicks()...),
		Ranked:     make([]JSONRankedEntry, len(r.Evaluation.Ranked)),
	}

	if best, ok := r.Evaluation.Best(); ok {
		report.Featured = &best
	}
	for i, item := range r.Evaluation.Ranked {
		report.Ranked[i] = JSONRankedEntry{Rank: i + 1, ScoredSample: item}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	return nil
}
