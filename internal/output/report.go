package output

import (
	"strconv"
	"time"

	"github.com/dotcommander/aquarank/internal/profiles"
	"github.com/dotcommander/aquarank/internal/scoring"
)

// Version is reported in machine-readable headers.
var Version = "0.1.0"

// Report is everything a formatter needs to render one evaluation.
type Report struct {
	Source      string
	ProfileID   string // empty once limits were edited by hand
	Evaluation  scoring.Evaluation
	Top         int
	GeneratedAt time.Time
}

// ProfileLabel returns the display label of the active profile, or
// "Custom thresholds" when the limits no longer match a preset.
func (r *Report) ProfileLabel() string {
	if p, ok := profiles.Lookup(r.ProfileID); ok {
		return p.Label
	}
	return "Custom thresholds"
}

// TopPicks returns the leading entries shown as cards.
func (r *Report) TopPicks() scoring.RankedView {
	n := r.Top
	if n <= 0 {
		n = scoring.TopN
	}
	return r.Evaluation.Ranked.Top(n)
}

func (r *Report) generatedAt() time.Time {
	if r.GeneratedAt.IsZero() {
		return time.Now()
	}
	return r.GeneratedAt
}

// mgL renders a concentration the way the catalog writes it.
func mgL(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " mg/L"
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// compliantLabel answers "does the best pick meet every limit?".
func compliantLabel(c scoring.Compliance) string {
	if c.All() {
		return "yes"
	}
	return "partially"
}

// Empty-state messages shown instead of blank sections.
const (
	msgNoRows     = "No data available for these thresholds."
	msgNoPicks    = "No water matches the current thresholds."
	msgNoFeatured = "No priority water for these thresholds. Try widening a limit."
)
