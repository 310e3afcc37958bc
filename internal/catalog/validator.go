package catalog

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Issue is a schema violation found in one catalog record.
type Issue struct {
	Source  string `json:"source"`
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	where := fmt.Sprintf("record %d", i.Index)
	if i.Name != "" {
		where += fmt.Sprintf(" (%s)", i.Name)
	}
	if i.Source != "" {
		where = i.Source + ": " + where
	}
	return where + ": " + i.Message
}

// Validator checks decoded records against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	sample cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schemas: %w", err)
	}

	var sample cue.Value
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}
		inst := ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if err := inst.Err(); err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", entry.Name(), err)
		}
		if def := inst.LookupPath(cue.ParsePath("#Sample")); def.Exists() {
			sample = def
		}
	}

	if !sample.Exists() {
		return nil, fmt.Errorf("no #Sample definition in embedded schemas")
	}

	return &Validator{ctx: ctx, sample: sample}, nil
}

// Validate checks every record and returns one Issue per failing record.
func (v *Validator) Validate(source string, records []any) []Issue {
	var issues []Issue
	for i, rec := range records {
		if msg := v.check(rec); msg != "" {
			issues = append(issues, Issue{
				Source:  source,
				Index:   i,
				Name:    recordName(rec),
				Message: msg,
			})
		}
	}
	return issues
}

func (v *Validator) check(rec any) string {
	value := v.ctx.Encode(rec)
	if err := value.Err(); err != nil {
		return fmt.Sprintf("cannot encode record: %v", err)
	}

	unified := v.sample.Unify(value)
	if err := unified.Err(); err != nil {
		return cleanCUEError(err)
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cleanCUEError(err)
	}
	return ""
}

func recordName(rec any) string {
	m, ok := rec.(map[string]any)
	if !ok {
		return ""
	}
	name, _ := m["name"].(string)
	return name
}

// cleanCUEError flattens a multi-line CUE error into one line.
func cleanCUEError(err error) string {
	msg := strings.ReplaceAll(err.Error(), "\n", "; ")
	return strings.TrimSpace(strings.TrimSuffix(msg, ";"))
}
