package analysis

import "fmt"

// ValidationError is returned for caller input rejected before any I/O.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Analysis stages reported by AnalysisFailedError
const (
	StageCollaborator = "collaborator"
	StageParse        = "parse"
	StageSchema       = "schema"
)

// AnalysisFailedError reports that scoring could not produce a report. No partial
// report accompanies it; callers may retry.
type AnalysisFailedError struct {
	Stage string
	Cause error
}

func (e *AnalysisFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis failed at %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("analysis failed at %s", e.Stage)
}

func (e *AnalysisFailedError) Unwrap() error {
	return e.Cause
}
