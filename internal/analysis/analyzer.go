// Package analysis scores resume and portfolio content against a job description
// through the generation collaborator and validates what comes back.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/blyn/internal/llm"
	"github.com/jonathan/blyn/internal/prompts"
	"github.com/jonathan/blyn/internal/schemas"
	"github.com/jonathan/blyn/internal/types"
)

// Request is one gap-analysis request.
type Request struct {
	Kind           types.DocumentKind
	JobDescription string
	SourceContent  string
}

// kindPrompt holds the per-kind values substituted into the scoring template.
type kindPrompt struct {
	role             string
	label            string
	optimizedContent string
	dimensions       []string
}

var kindPrompts = map[types.DocumentKind]kindPrompt{
	types.DocumentResume: {
		role:             "ATS (Applicant Tracking System) analyzer",
		label:            "RESUME",
		optimizedContent: "rewritten resume content optimized for this job description",
		dimensions: []string{
			"Keyword matching and ATS compatibility",
			"Relevance of experience to job requirements",
			"Skills alignment",
			"Overall presentation and structure",
			"Missing critical elements",
		},
	},
	types.DocumentPortfolio: {
		role:             "portfolio analyzer",
		label:            "PORTFOLIO",
		optimizedContent: "rewritten portfolio descriptions optimized for this job description",
		dimensions: []string{
			"Technical skills alignment with job requirements",
			"Project relevance and complexity",
			"Technology stack matching",
			"Portfolio presentation and structural completeness",
			"Missing critical projects or skills demonstrations",
			"Professional branding and positioning",
		},
	},
}

// Analyzer runs gap analyses. It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	completer llm.Completer
}

// NewAnalyzer creates an Analyzer backed by the given collaborator.
func NewAnalyzer(completer llm.Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// Validate rejects requests with an unknown kind or blank inputs.
func (r Request) Validate() error {
	if !r.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown document kind %q", r.Kind)}
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return &ValidationError{Field: "jobDescription", Message: "job description is required"}
	}
	if strings.TrimSpace(r.SourceContent) == "" {
		return &ValidationError{Field: "sourceContent", Message: "content is required"}
	}
	return nil
}

// Analyze scores the request's content. Validation failures are reported before any
// collaborator call. Collaborator and response failures return *AnalysisFailedError and
// never a partial report.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*types.ScoreReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	instructions, err := Instructions(req.Kind)
	if err != nil {
		return nil, err
	}

	response, err := a.completer.Complete(ctx, instructions, Content(req))
	if err != nil {
		return nil, &AnalysisFailedError{Stage: StageCollaborator, Cause: err}
	}

	report, err := ParseReport(req.Kind, response)
	if err != nil {
		return nil, err
	}

	report.MissingKeywords = MissingKeywords(req.JobDescription, req.SourceContent, report.MissingKeywords)
	return report, nil
}

// Instructions assembles the scoring instructions for a document kind. The result is
// a pure function of the kind.
func Instructions(kind types.DocumentKind) (string, error) {
	kp, ok := kindPrompts[kind]
	if !ok {
		return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown document kind %q", kind)}
	}

	keys := kind.SectionKeys()
	sectionLines := make([]string, len(keys))
	for i, key := range keys {
		sectionLines[i] = fmt.Sprintf("    %q: number (0-100)", key)
	}

	dimensionLines := make([]string, len(kp.dimensions))
	for i, dimension := range kp.dimensions {
		dimensionLines[i] = fmt.Sprintf("%d. %s", i+1, dimension)
	}

	system := prompts.MustRender("analysis.json", "system", map[string]string{
		"Role": kp.role,
	})
	body := prompts.MustRender("analysis.json", "score-document", map[string]string{
		"Kind":             string(kind),
		"SectionScores":    strings.Join(sectionLines, ",\n"),
		"OptimizedContent": kp.optimizedContent,
		"Dimensions":       strings.Join(dimensionLines, "\n"),
	})
	return system + "\n\n" + body, nil
}

// Content formats the job description and source content sent with the instructions.
func Content(req Request) string {
	label := strings.ToUpper(string(req.Kind))
	if kp, ok := kindPrompts[req.Kind]; ok {
		label = kp.label
	}
	return prompts.MustRender("analysis.json", "score-content", map[string]string{
		"JobDescription": strings.TrimSpace(req.JobDescription),
		"Label":          label,
		"SourceContent":  strings.TrimSpace(req.SourceContent),
	})
}

// wireReport is the collaborator's response shape. Scores may arrive as fractions.
type wireReport struct {
	OverallScore     float64            `json:"overallScore"`
	SectionScores    map[string]float64 `json:"sectionScores"`
	MissingKeywords  []string           `json:"missingKeywords"`
	Suggestions      []string           `json:"suggestions"`
	OptimizedContent string             `json:"optimizedContent"`
}

// ParseReport strips code fences from a collaborator response, validates it against
// the score report schema of the kind and converts it to a ScoreReport.
func ParseReport(kind types.DocumentKind, response string) (*types.ScoreReport, error) {
	payload := llm.ExtractJSON(response)
	if !json.Valid([]byte(payload)) {
		return nil, &AnalysisFailedError{
			Stage: StageParse,
			Cause: fmt.Errorf("response is not valid JSON: %.80q", payload),
		}
	}

	if err := schemas.ValidateScoreReport(kind, payload); err != nil {
		return nil, &AnalysisFailedError{Stage: StageSchema, Cause: err}
	}

	var wire wireReport
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, &AnalysisFailedError{Stage: StageParse, Cause: err}
	}

	report := &types.ScoreReport{
		Kind:             kind,
		OverallScore:     roundScore(wire.OverallScore),
		SectionScores:    make(map[string]int, len(kind.SectionKeys())),
		MissingKeywords:  nonBlank(wire.MissingKeywords),
		Suggestions:      nonBlank(wire.Suggestions),
		OptimizedContent: strings.TrimSpace(wire.OptimizedContent),
	}
	for _, key := range kind.SectionKeys() {
		report.SectionScores[key] = roundScore(wire.SectionScores[key])
	}
	return report, nil
}

func roundScore(score float64) int {
	return int(math.Max(0, math.Min(100, math.Round(score))))
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
