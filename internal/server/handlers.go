package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/jonathan/blyn/internal/analysis"
	"github.com/jonathan/blyn/internal/normalize"
	"github.com/jonathan/blyn/internal/pipeline"
	"github.com/jonathan/blyn/internal/rendering"
	"github.com/jonathan/blyn/internal/server/middleware"
	"github.com/jonathan/blyn/internal/types"
)

// validatable is implemented by every request body type.
type validatable interface {
	Validate() error
}

// OnboardResponse is returned by the normalize and extract endpoints.
type OnboardResponse struct {
	Profile       *types.Profile `json:"profile"`
	VersionNumber int            `json:"versionNumber,omitempty"`
	Fallback      bool           `json:"fallback"`
	Warning       string         `json:"warning,omitempty"`
}

// ResumeResponse is returned by the resume endpoint.
type ResumeResponse struct {
	Resume *rendering.ResumeViewModel `json:"resume"`
	LaTeX  string                     `json:"latex,omitempty"`
}

// CoverLetterResponse is returned by the cover letter endpoint.
type CoverLetterResponse struct {
	Tone   rendering.Tone `json:"tone"`
	Letter string         `json:"letter"`
}

// PortfolioResponse is returned by the portfolio endpoint.
type PortfolioResponse struct {
	Template string                 `json:"template"`
	Files    types.StaticSiteBundle `json:"files"`
}

// decodeJSON reads a bounded JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst validatable) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &ErrValidation{Message: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
		}
		return &ErrValidation{Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	if err := dst.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}

// session returns the request's Session. Routes are always wrapped by the
// session middleware, so a missing session is a wiring bug.
func (s *Server) session(r *http.Request) (types.Session, error) {
	session, err := middleware.GetSession(r)
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to resolve session: %w", err)
	}
	return session, nil
}

// resolveProfile prefers the profile in the request body and otherwise loads the
// owner's latest stored profile.
func (s *Server) resolveProfile(r *http.Request, session types.Session, given *types.Profile) (*types.Profile, error) {
	if given != nil {
		return normalize.NormalizeProfile(given), nil
	}
	profile, err := s.pipeline.CurrentProfile(r.Context(), session)
	if err != nil && !errors.Is(err, pipeline.ErrMissingOwner) {
		return nil, err
	}
	if profile == nil {
		return nil, &ErrValidation{Field: "profile", Message: "profile is required when no stored profile exists"}
	}
	return profile, nil
}

func onboardResponse(result *pipeline.OnboardResult) OnboardResponse {
	resp := OnboardResponse{
		Profile:  result.Profile,
		Fallback: result.Fallback,
		Warning:  result.WarningMessage(),
	}
	if result.Record != nil {
		resp.VersionNumber = result.Record.VersionNumber
	}
	return resp
}

// handleNormalize normalizes a tagged raw source record.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	var req types.NormalizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}

	result, err := s.pipeline.Onboard(r.Context(), session, req.RawInput())
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, onboardResponse(result))
}

// handleExtract extracts a profile from a multipart "document" upload or from a
// JSON body carrying pasted text.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	var result *pipeline.OnboardResult
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		doc, err := readDocument(w, r)
		if err != nil {
			s.failWith(w, r, err)
			return
		}
		result, err = s.pipeline.OnboardDocument(r.Context(), session, doc)
		if err != nil {
			s.failWith(w, r, err)
			return
		}
	} else {
		var req types.ExtractTextRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.failWith(w, r, err)
			return
		}
		result, err = s.pipeline.OnboardText(r.Context(), session, req.Text)
		if err != nil {
			s.failWith(w, r, err)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, onboardResponse(result))
}

// readDocument reads the uploaded file, keeping one byte past the size limit so the
// extractor can reject oversized documents.
func readDocument(w http.ResponseWriter, r *http.Request) (normalize.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, normalize.MaxDocumentSize+maxBodyBytes)
	file, header, err := r.FormFile("document")
	if err != nil {
		return normalize.Document{}, &ErrValidation{Field: "document", Message: fmt.Sprintf("missing upload: %v", err)}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, normalize.MaxDocumentSize+1))
	if err != nil {
		return normalize.Document{}, fmt.Errorf("failed to read upload: %w", err)
	}
	return normalize.Document{Filename: header.Filename, Data: data}, nil
}

// handleCurrentProfile returns the owner's latest stored profile.
func (s *Server) handleCurrentProfile(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	profile, err := s.pipeline.CurrentProfile(r.Context(), session)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "no stored profile")
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleHistory lists the owner's stored records. The optional limit query parameter
// caps each list.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			s.failWith(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
	}
	history, err := s.pipeline.History(r.Context(), session, limit)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, history)
}

// handleAnalyze scores content against a job description.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	var req types.AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}

	report, err := s.pipeline.Analyze(r.Context(), session, analysis.Request{
		Kind:           req.Kind,
		JobDescription: req.JobDescription,
		SourceContent:  req.Content,
	})
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleRenderResume returns the resume view-model and, on request, its LaTeX export.
func (s *Server) handleRenderResume(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	var req types.ResumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}
	profile, err := s.resolveProfile(r, session, req.Profile)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	resp := ResumeResponse{Resume: rendering.RenderResume(profile, req.Style)}
	if req.LaTeX {
		resp.LaTeX, err = rendering.RenderResumeLaTeX(resp.Resume)
		if err != nil {
			s.failWith(w, r, err)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRenderCoverLetter renders and, for authenticated owners, stores a cover letter.
func (s *Server) handleRenderCoverLetter(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	var req types.CoverLetterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}
	profile, err := s.resolveProfile(r, session, req.Profile)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	letter, err := s.pipeline.CoverLetter(r.Context(), session, profile, pipeline.CoverLetterRequest{
		Tone:           req.Tone,
		Company:        req.Company,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CoverLetterResponse{Tone: rendering.ParseTone(req.Tone), Letter: letter})
}

// handleRenderPortfolio returns the static site bundle without deploying it.
func (s *Server) handleRenderPortfolio(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	var req types.PortfolioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}
	profile, err := s.resolveProfile(r, session, req.Profile)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	var opts []rendering.PortfolioOption
	if req.Year > 0 {
		opts = append(opts, rendering.WithCopyrightYear(req.Year))
	}
	bundle, err := rendering.RenderPortfolioSite(profile, req.Template, opts...)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, PortfolioResponse{
		Template: rendering.ParsePortfolioTemplate(req.Template).ID,
		Files:    bundle,
	})
}

// handleDeploy renders the portfolio and publishes it with the session's hosting token.
func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	var req types.DeployRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}
	profile, err := s.resolveProfile(r, session, req.Profile)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	result, err := s.pipeline.PublishPortfolio(r.Context(), session, profile, pipeline.PublishRequest{
		TemplateID: req.Template,
		SiteName:   req.SiteName,
		Year:       req.Year,
	})
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
