package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jonathan/blyn/internal/llm"
	"github.com/jonathan/blyn/internal/prompts"
	"github.com/jonathan/blyn/internal/storage"
	"github.com/jonathan/blyn/internal/types"
	"github.com/tidwall/sjson"
)

// MaxDocumentSize is the largest document accepted for extraction.
const MaxDocumentSize = 10 << 20

// Accepted document MIME types
var acceptedTypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

// Document is an uploaded source document.
type Document struct {
	Filename string
	Data     []byte
}

// Result is the outcome of an extraction. When Fallback is set the profile is the
// fixed sample profile and Warning explains why.
type Result struct {
	Profile   *types.Profile
	Raw       json.RawMessage // document record the profile was normalized from
	SourceURL string
	MIMEType  string
	Fallback  bool
	Warning   *ExtractionFailedError
}

// Extractor turns documents and pasted text into profiles through the extraction collaborator.
type Extractor struct {
	completer llm.Completer
	store     storage.ObjectStore
}

// NewExtractor creates an Extractor. store may be nil, in which case documents are not
// staged and only plain-text documents can be extracted: the collaborator reads PDF and
// DOCX files from their staged URL.
func NewExtractor(completer llm.Completer, store storage.ObjectStore) *Extractor {
	return &Extractor{completer: completer, store: store}
}

// DetectDocumentType sniffs the document and rejects types outside the accepted set.
func DetectDocumentType(doc Document) (string, error) {
	if len(doc.Data) == 0 {
		return "", &UnsupportedInputError{Message: "document is empty", Filename: doc.Filename}
	}
	if len(doc.Data) > MaxDocumentSize {
		return "", &UnsupportedInputError{Message: "document exceeds 10 MB", Filename: doc.Filename}
	}

	detected := mimetype.Detect(doc.Data)
	for _, accepted := range acceptedTypes {
		if detected.Is(accepted) {
			return accepted, nil
		}
	}
	return "", &UnsupportedInputError{
		Message:  fmt.Sprintf("%s is not a PDF, DOCX or plain text document", doc.Filename),
		Filename: doc.Filename,
		MIMEType: detected.String(),
	}
}

// ExtractDocument validates, stages and extracts an uploaded document. Unsupported input
// and staging failures are errors; collaborator failures fall back to the sample profile.
func (e *Extractor) ExtractDocument(ctx context.Context, session types.Session, doc Document) (*Result, error) {
	mimeType, err := DetectDocumentType(doc)
	if err != nil {
		return nil, err
	}

	var text string
	if mimeType == "text/plain" && utf8.Valid(doc.Data) {
		text = string(doc.Data)
	}
	if text == "" && e.store == nil {
		return nil, &UnsupportedInputError{
			Message:  fmt.Sprintf("%s can only be read from object storage, which is not configured", doc.Filename),
			Filename: doc.Filename,
			MIMEType: mimeType,
		}
	}

	var sourceURL string
	if e.store != nil {
		sourceURL, err = e.store.Upload(ctx, storage.ObjectPath(session.OwnerID, doc.Filename), doc.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to stage document: %w", err)
		}
	}

	content := prompts.MustRender("profile.json", "document-content", map[string]string{
		"URL":      sourceURL,
		"Filename": doc.Filename,
		"Text":     text,
	})

	result := e.extract(ctx, content)
	result.SourceURL = sourceURL
	result.MIMEType = mimeType
	return result, nil
}

// ExtractText extracts a profile from pasted resume text.
func (e *Extractor) ExtractText(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &UnsupportedInputError{Message: "resume text is empty"}
	}
	return e.extract(ctx, text), nil
}

// extract runs the collaborator and normalizes its payload, substituting the fallback
// profile wholesale on any failure.
func (e *Extractor) extract(ctx context.Context, content string) *Result {
	instructions := prompts.MustRender("profile.json", "system", nil) + "\n\n" + prompts.MustRender("profile.json", "extract-profile", nil)

	response, err := e.completer.Complete(ctx, instructions, content)
	if err != nil {
		return fallback(&ExtractionFailedError{Message: "collaborator call failed", Cause: err})
	}

	payload := llm.ExtractJSON(response)
	if !json.Valid([]byte(payload)) || !strings.HasPrefix(payload, "{") {
		return fallback(&ExtractionFailedError{
			Message: "collaborator returned an unparseable payload",
			Cause:   fmt.Errorf("invalid JSON object: %.80q", payload),
		})
	}

	raw := []byte(payload)
	return &Result{
		Profile: Normalize(types.RawInput{Source: types.SourceDocument, Payload: raw}),
		Raw:     raw,
	}
}

func fallback(warning *ExtractionFailedError) *Result {
	log.Printf("[extract] using fallback profile: %v", warning)
	raw, err := sjson.SetBytes(FallbackPayload(), "fallback", true)
	if err != nil {
		raw = FallbackPayload()
	}
	return &Result{
		Profile:  FallbackProfile(),
		Raw:      raw,
		Fallback: true,
		Warning:  warning,
	}
}
