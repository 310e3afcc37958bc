package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Sample is one water from the loaded catalog. Values are in mg/L.
type Sample struct {
	Name     string  `json:"name" yaml:"name"`
	Source   string  `json:"source" yaml:"source"`
	Residue  float64 `json:"residue" yaml:"residue"`
	Nitrates float64 `json:"nitrates" yaml:"nitrates"`
	Sodium   float64 `json:"sodium" yaml:"sodium"`
}

// ThresholdSet holds the maximum acceptable value of each metric.
// Every limit must be strictly positive.
type ThresholdSet struct {
	ResidueMax  float64 `json:"residueMax" yaml:"residueMax"`
	NitratesMax float64 `json:"nitratesMax" yaml:"nitratesMax"`
	SodiumMax   float64 `json:"sodiumMax" yaml:"sodiumMax"`
}

// Limit returns the limit for a single metric.
func (t ThresholdSet) Limit(m Metric) float64 {
	switch m {
	case MetricResidue:
		return t.ResidueMax
	case MetricNitrates:
		return t.NitratesMax
	case MetricSodium:
		return t.SodiumMax
	default:
		return 0
	}
}

// With returns a copy of t with one limit replaced.
func (t ThresholdSet) With(m Metric, value float64) ThresholdSet {
	switch m {
	case MetricResidue:
		t.ResidueMax = value
	case MetricNitrates:
		t.NitratesMax = value
	case MetricSodium:
		t.SodiumMax = value
	}
	return t
}

// Compliance is the per-metric pass/fail result of a sample.
type Compliance struct {
	Residue  bool `json:"residue"`
	Nitrates bool `json:"nitrates"`
	Sodium   bool `json:"sodium"`
}

// All reports whether every metric passed.
func (c Compliance) All() bool {
	return c.Residue && c.Nitrates && c.Sodium
}

// Passed returns the flag for a single metric.
func (c Compliance) Passed(m Metric) bool {
	switch m {
	case MetricResidue:
		return c.Residue
	case MetricNitrates:
		return c.Nitrates
	case MetricSodium:
		return c.Sodium
	default:
		return false
	}
}

// ScoredSample is a sample with its evaluation attached.
type ScoredSample struct {
	Sample
	Compliance Compliance `json:"compliance"`
	Score      float64    `json:"score"` // 0-100, one decimal
	Tier       string     `json:"tier"`  // A, B, C, D, F
}

// RankedView is the full catalog ordered by descending score.
type RankedView []ScoredSample

// Metric identifies one of the three measured quantities.
type Metric string

const (
	MetricResidue  Metric = "residue"
	MetricNitrates Metric = "nitrates"
	MetricSodium   Metric = "sodium"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{MetricResidue, MetricNitrates, MetricSodium}

// ErrUnknownMetric is returned by ParseMetric for unrecognised names.
var ErrUnknownMetric = errors.New("unknown metric")

// ParseMetric accepts a metric name, case-insensitively. The "Max" suffix
// used by threshold keys (e.g. "sodiumMax") is tolerated.
func ParseMetric(s string) (Metric, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "max")
	for _, m := range Metrics {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want residue, nitrates or sodium)", ErrUnknownMetric, s)
}

// Value returns the sample's measurement for a metric.
func (s Sample) Value(m Metric) float64 {
	switch m {
	case MetricResidue:
		return s.Residue
	case MetricNitrates:
		return s.Nitrates
	case MetricSodium:
		return s.Sodium
	default:
		return 0
	}
}

// TierFromScore returns the letter tier for a 0-100 score.
func TierFromScore(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	case score >= 30:
		return "D"
	default:
		return "F"
	}
}
