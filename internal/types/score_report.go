package types

// DocumentKind identifies what kind of document is scored against a job description
type DocumentKind string

const (
	// DocumentResume scores resume text
	DocumentResume DocumentKind = "resume"
	// DocumentPortfolio scores portfolio copy
	DocumentPortfolio DocumentKind = "portfolio"
)

// SectionKeys returns the section score keys for a document kind, in display order.
// Unknown kinds return nil.
func (k DocumentKind) SectionKeys() []string {
	switch k {
	case DocumentResume:
		return []string{"summary", "experience", "skills", "education"}
	case DocumentPortfolio:
		return []string{"projects", "skills", "about", "contact"}
	default:
		return nil
	}
}

// Valid reports whether the kind is one of the supported document kinds.
func (k DocumentKind) Valid() bool {
	return k.SectionKeys() != nil
}

// ScoreReport is the result of a gap analysis. It is never mutated after creation.
type ScoreReport struct {
	Kind             DocumentKind   `json:"kind"`
	OverallScore     int            `json:"overallScore"`
	SectionScores    map[string]int `json:"sectionScores"`
	MissingKeywords  []string       `json:"missingKeywords"`
	Suggestions      []string       `json:"suggestions"`
	OptimizedContent string         `json:"optimizedContent"`
}

// Rating buckets the overall score the way it is shown to users.
func (r *ScoreReport) Rating() string {
	switch {
	case r.OverallScore >= 80:
		return "Excellent"
	case r.OverallScore >= 60:
		return "Good"
	default:
		return "Needs Improvement"
	}
}
