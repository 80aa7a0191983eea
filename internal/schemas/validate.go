// Package schemas checks collaborator payloads and stored profiles against the
// embedded JSON Schemas in files/.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/jonathan/blyn/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed files/*.schema.json
var files embed.FS

// Embedded schema names
const (
	ProfileSchema         = "profile.schema.json"
	ResumeReportSchema    = "score_report.resume.schema.json"
	PortfolioReportSchema = "score_report.portfolio.schema.json"
)

// SchemaError is an embedded schema that is missing or does not compile.
type SchemaError struct {
	Name  string
	Cause error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Name, e.Cause)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Violation is one failed constraint. Field is a dotted path, "(root)" for the
// document itself.
type Violation struct {
	Field   string
	Message string
}

// ValidationError lists every constraint a document failed.
type ValidationError struct {
	Schema     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(parts, "; "))
}

var compile = sync.OnceValues(func() (map[string]*gojsonschema.Schema, error) {
	paths, err := fs.Glob(files, "files/*.schema.json")
	if err != nil {
		return nil, err
	}
	compiled := make(map[string]*gojsonschema.Schema, len(paths))
	for _, p := range paths {
		name := path.Base(p)
		data, err := files.ReadFile(p)
		if err != nil {
			return nil, &SchemaError{Name: name, Cause: err}
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, &SchemaError{Name: name, Cause: err}
		}
		compiled[name] = schema
	}
	return compiled, nil
})

func schema(name string) (*gojsonschema.Schema, error) {
	compiled, err := compile()
	if err != nil {
		return nil, err
	}
	s, ok := compiled[name]
	if !ok {
		return nil, &SchemaError{Name: name, Cause: fs.ErrNotExist}
	}
	return s, nil
}

// Validate checks a document against a named schema. It returns a *ValidationError
// when the document is well-formed but violates the schema.
func Validate(name string, document gojsonschema.JSONLoader) error {
	s, err := schema(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(document)
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{Schema: name}
	for _, desc := range result.Errors() {
		verr.Violations = append(verr.Violations, Violation{Field: desc.Field(), Message: desc.Description()})
	}
	return verr
}

// ScoreReportSchemaFor returns the schema a score report of the given kind must match.
func ScoreReportSchemaFor(kind types.DocumentKind) (string, error) {
	switch kind {
	case types.DocumentResume:
		return ResumeReportSchema, nil
	case types.DocumentPortfolio:
		return PortfolioReportSchema, nil
	}
	return "", fmt.Errorf("no score report schema for document kind %q", kind)
}

// ValidateScoreReport checks a collaborator score payload. Every section key of the
// kind is required and every score must lie in [0,100].
func ValidateScoreReport(kind types.DocumentKind, payload string) error {
	name, err := ScoreReportSchemaFor(kind)
	if err != nil {
		return err
	}
	return Validate(name, gojsonschema.NewStringLoader(payload))
}

// ValidateProfile checks that a normalized profile has every required field.
func ValidateProfile(profile *types.Profile) error {
	if profile == nil {
		return &ValidationError{Schema: ProfileSchema, Violations: []Violation{{Field: "(root)", Message: "profile is nil"}}}
	}
	return Validate(ProfileSchema, gojsonschema.NewGoLoader(profile))
}
