package outputters

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/aquarank/internal/config"
	"github.com/dotcommander/aquarank/internal/output"
	"github.com/dotcommander/aquarank/internal/scoring"
)

// =============================================================================
// Mock Formatter for testing
// =============================================================================

type mockFormatter struct {
	formatCalled bool
	formatError  error
	report       *output.Report
}

func (m *mockFormatter) Format(w io.Writer, report *output.Report) error {
	m.formatCalled = true
	m.report = report
	if m.formatError != nil {
		return m.formatError
	}
	_, err := io.WriteString(w, "mock output")
	return err
}

type mockFormatterFactory struct {
	requestedFormat string
	formatter       Formatter
	createError     error
}

func (m *mockFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	m.requestedFormat = format
	if m.createError != nil {
		return nil, m.createError
	}
	return m.formatter, nil
}

func testReport() *output.Report {
	th := scoring.ThresholdSet{ResidueMax: 500, NitratesMax: 50, SodiumMax: 200}
	return &output.Report{
		ProfileID:  "standard",
		Evaluation: scoring.Evaluate([]scoring.Sample{{Name: "A", Source: "a", Residue: 10}}, th),
	}
}

func TestNewOutputter(t *testing.T) {
	cfg := &config.Config{Format: "console"}
	o := NewOutputter(cfg)

	require.NotNil(t, o)
	assert.Same(t, cfg, o.config)
	if _, ok := o.factory.(*DefaultFormatterFactory); !ok {
		t.Errorf("NewOutputter() factory type = %T, want *DefaultFormatterFactory", o.factory)
	}
}

func TestDefaultFormatterFactory(t *testing.T) {
	factory := &DefaultFormatterFactory{config: &config.Config{}}

	tests := []struct {
		format  string
		want    any
		wantErr bool
	}{
		{"console", &output.ConsoleFormatter{}, false},
		{"json", &output.JSONFormatter{}, false},
		{"markdown", &output.MarkdownFormatter{}, false},
		{"xml", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := factory.CreateFormatter(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}
}

func TestOutputterFormatToStdout(t *testing.T) {
	mock := &mockFormatter{}
	factory := &mockFormatterFactory{formatter: mock}
	var buf bytes.Buffer

	o := NewOutputterWithFactory(&config.Config{}, factory, &buf)
	report := testReport()

	require.NoError(t, o.Format(report, "json"))
	assert.Equal(t, "json", factory.requestedFormat)
	assert.True(t, mock.formatCalled)
	assert.Same(t, report, mock.report)
	assert.Equal(t, "mock output", buf.String())
}

func TestOutputterFormatToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	cfg := &config.Config{Output: path, Format: "json"}

	o := NewOutputter(cfg)
	require.NoError(t, o.Format(testReport(), "json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tool": "aquarank"`)
}

func TestOutputterErrors(t *testing.T) {
	factoryErr := errors.New("factory failed")
	o := NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{createError: factoryErr}, io.Discard)
	assert.ErrorIs(t, o.Format(testReport(), "console"), factoryErr)

	formatErr := errors.New("format failed")
	o = NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{formatter: &mockFormatter{formatError: formatErr}}, io.Discard)
	assert.ErrorIs(t, o.Format(testReport(), "console"), formatErr)

	cfg := &config.Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "out.md")}
	o = NewOutputter(cfg)
	assert.Error(t, o.Format(testReport(), "markdown"))
}
