// Package thresholds holds the active threshold set of a session.
//
// All changes go through SetProfile, SetField or Apply so each one is a single
// transition observed by subscribers. A State is not safe for concurrent use.
package thresholds

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/dotcommander/aquarank/internal/profiles"
	"github.com/dotcommander/aquarank/internal/scoring"
)

var (
	// ErrInvalidThreshold is matched by every *InvalidThresholdError.
	ErrInvalidThreshold = errors.New("invalid threshold")
	// ErrUnknownProfile is returned for profile ids missing from the registry.
	ErrUnknownProfile = errors.New("unknown profile")
)

// InvalidThresholdError reports a limit that is zero, negative or not finite.
type InvalidThresholdError struct {
	Metric scoring.Metric
	Value  float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold: %s limit must be a positive number, got %v", e.Metric, e.Value)
}

func (e *InvalidThresholdError) Unwrap() error {
	return ErrInvalidThreshold
}

// Listener is called with the new set after every accepted change.
type Listener func(scoring.ThresholdSet)

// State is the single source of truth for the active limits.
type State struct {
	active    scoring.ThresholdSet
	profileID string
	listeners []Listener
	logger    *slog.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used to trace transitions.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a State holding initial. The set is validated first.
func New(initial scoring.ThresholdSet, opts ...Option) (*State, error) {
	if err := Validate(initial); err != nil {
		return nil, err
	}
	s := &State{active: initial, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromProfile creates a State holding the thresholds of a profile.
func NewFromProfile(id string, opts ...Option) (*State, error) {
	p, ok := profiles.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, id)
	}
	s, err := New(p.Thresholds, opts...)
	if err != nil {
		return nil, err
	}
	s.profileID = p.ID
	return s, nil
}

// Active returns a copy of the current set.
func (s *State) Active() scoring.ThresholdSet {
	return s.active
}

// ProfileID returns the profile the current set came from, or "" once a
// field has been edited by hand.
func (s *State) ProfileID() string {
	return s.profileID
}

// Subscribe registers a change hook. Listeners run in subscription order.
func (s *State) Subscribe(fn Listener) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// SetProfile replaces all three limits with those of the profile.
func (s *State) SetProfile(id string) error {
	p, ok := profiles.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProfile, id)
	}
	if err := Validate(p.Thresholds); err != nil {
		return err
	}

	s.active = p.Thresholds
	s.profileID = p.ID
	s.logger.Info("profile selected", "profile", p.ID,
		"residueMax", p.Thresholds.ResidueMax,
		"nitratesMax", p.Thresholds.NitratesMax,
		"sodiumMax", p.Thresholds.SodiumMax)
	s.notify()
	return nil
}

// SetField changes one limit. Non-positive or non-finite values are
// rejected and the state is left as it was.
func (s *State) SetField(m scoring.Metric, value float64) error {
	if _, err := scoring.ParseMetric(string(m)); err != nil {
		return err
	}
	if err := validateLimit(m, value); err != nil {
		s.logger.Warn("threshold rejected", "metric", m, "value", value)
		return err
	}

	s.active = s.active.With(m, value)
	s.profileID = ""
	s.logger.Info("threshold updated", "metric", m, "value", value)
	s.notify()
	return nil
}

// Apply sets several limits at once. Either every value is accepted or
// none is, and listeners fire once.
func (s *State) Apply(overrides map[scoring.Metric]float64) error {
	for _, m := range slices.Sorted(maps.Keys(overrides)) {
		if _, err := scoring.ParseMetric(string(m)); err != nil {
			return err
		}
	}

	// Metrics order keeps the reported error stable across runs.
	next := s.active
	for _, m := range scoring.Metrics {
		v, ok := overrides[m]
		if !ok {
			continue
		}
		if err := validateLimit(m, v); err != nil {
			return err
		}
		next = next.With(m, v)
	}
	if len(overrides) == 0 || next == s.active {
		return nil
	}

	s.active = next
	s.profileID = ""
	s.notify()
	return nil
}

func (s *State) notify() {
	snapshot := s.active
	for _, fn := range s.listeners {
		fn(snapshot)
	}
}

// Validate checks that every limit of t is a finite positive number.
func Validate(t scoring.ThresholdSet) error {
	for _, m := range scoring.Metrics {
		if err := validateLimit(m, t.Limit(m)); err != nil {
			return err
		}
	}
	return nil
}

func validateLimit(m scoring.Metric, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InvalidThresholdError{Metric: m, Value: v}
	}
	return nil
}
