package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NormalizeRequest asks for a raw source record to be normalized into a Profile.
type NormalizeRequest struct {
	Source  SourceKind      `json:"source" validate:"required,oneof=document questionnaire scraped_profile"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// RawInput returns the request as the normalizer's tagged union.
func (r *NormalizeRequest) RawInput() RawInput {
	return RawInput{Source: r.Source, Payload: r.Payload}
}

// ExtractTextRequest asks for pasted resume text to be extracted into a Profile.
type ExtractTextRequest struct {
	Text string `json:"text" validate:"required"`
}

// AnalyzeRequest asks for a gap analysis of content against a job description.
type AnalyzeRequest struct {
	Kind           DocumentKind `json:"kind" validate:"required,oneof=resume portfolio"`
	JobDescription string       `json:"jobDescription" validate:"required"`
	Content        string       `json:"content" validate:"required"`
}

// The render and deploy requests fall back to the owner's latest stored profile
// when Profile is omitted.

// ResumeRequest asks for a resume view-model.
type ResumeRequest struct {
	Profile *Profile `json:"profile,omitempty"`
	Style   string   `json:"style,omitempty"`
	LaTeX   bool     `json:"latex,omitempty"`
}

// CoverLetterRequest asks for a cover letter.
type CoverLetterRequest struct {
	Profile        *Profile `json:"profile,omitempty"`
	Tone           string   `json:"tone,omitempty"`
	Company        string   `json:"company,omitempty"`
	JobTitle       string   `json:"jobTitle,omitempty"`
	JobDescription string   `json:"jobDescription,omitempty"`
}

// PortfolioRequest asks for a static portfolio bundle.
type PortfolioRequest struct {
	Profile  *Profile `json:"profile,omitempty"`
	Template string   `json:"template,omitempty"`
	Year     int      `json:"year,omitempty" validate:"omitempty,min=1900,max=9999"`
}

// DeployRequest asks for a portfolio to be rendered and published. The hosting
// token travels in the session, not the body.
type DeployRequest struct {
	Profile  *Profile `json:"profile,omitempty"`
	Template string   `json:"template,omitempty"`
	SiteName string   `json:"siteName,omitempty" validate:"omitempty,max=63"`
	Year     int      `json:"year,omitempty" validate:"omitempty,min=1900,max=9999"`
}

// Validate validates the NormalizeRequest using the validator.
func (r *NormalizeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ExtractTextRequest using the validator.
func (r *ExtractTextRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ResumeRequest using the validator.
func (r *ResumeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CoverLetterRequest using the validator.
func (r *CoverLetterRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the PortfolioRequest using the validator.
func (r *PortfolioRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the DeployRequest using the validator.
func (r *DeployRequest) Validate() error {
	return validate.Struct(r)
}
