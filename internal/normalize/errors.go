package normalize

import "fmt"

// ExtractionFailedError reports that the extraction collaborator failed or returned an
// unparseable payload. Extraction recovers with the fallback profile, so this is
// surfaced to users as a warning.
type ExtractionFailedError struct {
	Message string
	Cause   error
}

func (e *ExtractionFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Cause
}

// UnsupportedInputError reports input outside the accepted set. It is returned
// before any network call is made.
type UnsupportedInputError struct {
	Message  string
	Filename string
	MIMEType string
}

func (e *UnsupportedInputError) Error() string {
	if e.MIMEType != "" {
		return fmt.Sprintf("unsupported input: %s (%s)", e.Message, e.MIMEType)
	}
	return fmt.Sprintf("unsupported input: %s", e.Message)
}
