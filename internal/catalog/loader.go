// Package catalog reads the water samples a session ranks.
//
// A catalog source is a file path, a doublestar glob over files, or an
// http(s) URL. Documents are JSON arrays or YAML sequences of records, each
// checked against the embedded CUE schema before it becomes a Sample.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/aquarank/internal/scoring"
)

// ErrCatalogLoad is matched by every error Load returns.
var ErrCatalogLoad = errors.New("catalog load failed")

// maxDocumentSize caps a single catalog document.
const maxDocumentSize = 16 << 20

// LoadError wraps the cause of a failed load.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCatalogLoad, e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrCatalogLoad, e.Err}
}

// SchemaError lists every record that failed validation.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 1 {
		return "schema violation: " + e.Issues[0].String()
	}
	return fmt.Sprintf("%d schema violations, first: %s", len(e.Issues), e.Issues[0])
}

// Format is the encoding of a catalog document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Loader reads catalogs. The zero value is not usable; call NewLoader.
type Loader struct {
	client    *http.Client
	validator *Validator
	logger    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the client used for URL sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.client = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// NewLoader builds a Loader with the embedded schema compiled.
func NewLoader(opts ...Option) (*Loader, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	l := &Loader{
		client:    &http.Client{Timeout: 10 * time.Second},
		validator: v,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load reads every document named by source, in order, and returns the
// concatenated samples. An empty catalog is not an error.
func (l *Loader) Load(ctx context.Context, source string) ([]scoring.Sample, error) {
	start := time.Now()
	docs, err := l.resolve(source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	var samples []scoring.Sample
	for _, doc := range docs {
		data, format, err := l.read(ctx, doc)
		if err != nil {
			return nil, &LoadError{Source: doc, Err: err}
		}
		part, err := l.decode(doc, data, format)
		if err != nil {
			return nil, &LoadError{Source: doc, Err: err}
		}
		samples = append(samples, part...)
	}

	if samples == nil {
		samples = []scoring.Sample{}
	}
	l.logger.Info("catalog loaded", "source", source, "documents", len(docs),
		"samples", len(samples), "elapsed", time.Since(start).Round(time.Millisecond))
	return samples, nil
}

// resolve expands a source into the list of documents to read.
func (l *Loader) resolve(source string) ([]string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("no catalog source given")
	}
	if isURL(source) {
		return []string{source}, nil
	}
	if !isGlob(source) {
		return []string{source}, nil
	}

	base, pattern := doublestar.SplitPattern(filepath.ToSlash(source))
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", source)
	}
	matches, err := doublestar.Glob(os.DirFS(base), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("evaluating pattern %s: %w", source, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %s", source)
	}
	sort.Strings(matches)

	docs := make([]string, len(matches))
	for i, m := range matches {
		docs[i] = filepath.Join(base, filepath.FromSlash(m))
	}
	l.logger.Debug("catalog pattern expanded", "pattern", source, "files", len(docs))
	return docs, nil
}

func (l *Loader) read(ctx context.Context, doc string) ([]byte, Format, error) {
	if isURL(doc) {
		return l.fetch(ctx, doc)
	}
	if err := ctx.Err(); err != nil {
		return nil, FormatJSON, err
	}
	data, err := os.ReadFile(doc)
	if err != nil {
		return nil, FormatJSON, err
	}
	return data, formatFromPath(doc), nil
}

// fetch issues the single GET of a remote catalog.
func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, FormatJSON, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, FormatJSON, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, FormatJSON, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, FormatJSON, fmt.Errorf("reading response: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, FormatJSON, fmt.Errorf("document larger than %d bytes", maxDocumentSize)
	}

	format := FormatJSON
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		format = FormatYAML
	} else if u, err := url.Parse(rawURL); err == nil {
		format = formatFromPath(u.Path)
	}
	return data, format, nil
}

// decode parses, validates and converts one document.
func (l *Loader) decode(doc string, data []byte, format Format) ([]scoring.Sample, error) {
	var records []any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Names are checked in the form they will be ranked under.
	for _, rec := range records {
		if m, ok := rec.(map[string]any); ok {
			for _, key := range []string{"name", "source"} {
				if v, ok := m[key].(string); ok {
					m[key] = cleanText(v)
				}
			}
		}
	}

	if issues := l.validator.Validate(doc, records); len(issues) > 0 {
		return nil, &SchemaError{Issues: issues}
	}

	var samples []scoring.Sample
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &samples)
	default:
		err = json.Unmarshal(data, &samples)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding samples: %w", err)
	}

	for i := range samples {
		samples[i].Name = cleanText(samples[i].Name)
		samples[i].Source = cleanText(samples[i].Source)
	}
	return samples, nil
}

// cleanText trims surrounding white space and composes accents (NFC).
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func formatFromPath(p string) Format {
	switch strings.ToLower(path.Ext(filepath.ToSlash(p))) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
