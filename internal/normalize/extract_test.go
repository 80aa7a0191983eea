package normalize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/blyn/internal/llm"
	"github.com/jonathan/blyn/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeStore struct {
	paths []string
	err   error
}

func (s *fakeStore) Upload(_ context.Context, objectPath string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.paths = append(s.paths, objectPath)
	return "https://storage.example.com/" + objectPath, nil
}

func completerReturning(response string, err error, calls *int) llm.Completer {
	return llm.CompleterFunc(func(_ context.Context, instructions, content string) (string, error) {
		*calls++
		return response, err
	})
}

var testSession = types.Session{OwnerID: uuid.MustParse("0b7e2a9c-6a57-4a0e-9d9f-1f5d6c3b2a10")}

func TestExtractDocument_Success(t *testing.T) {
	calls := 0
	var gotContent string
	completer := llm.CompleterFunc(func(_ context.Context, instructions, content string) (string, error) {
		calls++
		gotContent = content
		assert.Contains(t, instructions, "extract the following information")
		return "```json\n{\"name\": \"Jane\", \"title\": \"SRE\", \"experience\": [{\"company\": \"Acme\", \"title\": \"SRE\"}]}\n```", nil
	})
	store := &fakeStore{}
	extractor := NewExtractor(completer, store)

	result, err := extractor.ExtractDocument(context.Background(), testSession, Document{
		Filename: "resume.txt",
		Data:     []byte("Jane\nSRE at Acme"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.False(t, result.Fallback)
	assert.Nil(t, result.Warning)
	assert.Equal(t, "Jane", result.Profile.Name)
	assert.Equal(t, "SRE", result.Profile.Role)
	assert.Equal(t, types.PresentEndDate, result.Profile.WorkExperience[0].EndDate)
	assert.Equal(t, "text/plain", result.MIMEType)

	require.Len(t, store.paths, 1)
	assert.Equal(t, testSession.OwnerID.String()+"/resume.txt", store.paths[0])
	assert.Equal(t, "https://storage.example.com/"+store.paths[0], result.SourceURL)
	assert.Contains(t, gotContent, result.SourceURL)
	assert.Contains(t, gotContent, "SRE at Acme")
}

func TestExtractDocument_FallbackOnTransportFailure(t *testing.T) {
	calls := 0
	extractor := NewExtractor(completerReturning("", errors.New("503 from provider"), &calls), &fakeStore{})

	result, err := extractor.ExtractDocument(context.Background(), testSession, Document{
		Filename: "resume.pdf",
		Data:     []byte("%PDF-1.4\n1 0 obj\n"),
	})
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	require.NotNil(t, result.Warning)
	assert.Contains(t, result.Warning.Error(), "503 from provider")
	assert.Equal(t, FallbackProfile(), result.Profile)
	assert.True(t, gjson.GetBytes(result.Raw, "fallback").Bool())
	assert.Equal(t, "application/pdf", result.MIMEType)
}

func TestExtractDocument_FallbackOnUnparseablePayload(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose", "I could not read that file."},
		{"array", `["not", "an", "object"]`},
		{"truncated object", "{\"name\": "},
		{
			"truncated fenced object with a complete nested entry",
			"```json\n{\"name\": \"Jane Roe\", \"role\": \"Dev\", \"workExperience\": [{\"company\": \"Acme\", \"position\": \"Dev\"}, {\"company\": \"Be",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			extractor := NewExtractor(completerReturning(tt.response, nil, &calls), nil)

			result, err := extractor.ExtractText(context.Background(), "Some resume text")
			require.NoError(t, err)
			assert.True(t, result.Fallback)

			var extractionErr *ExtractionFailedError
			assert.ErrorAs(t, error(result.Warning), &extractionErr)
			// All-or-nothing: the fallback profile, never a partial parse
			assert.Equal(t, FallbackProfile(), result.Profile)
		})
	}
}

func TestExtractDocument_UnsupportedInput(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{name: "png", doc: Document{Filename: "photo.png", Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")}},
		{name: "html", doc: Document{Filename: "page.html", Data: []byte("<!DOCTYPE html><html><body>hi</body></html>")}},
		{name: "empty", doc: Document{Filename: "empty.pdf"}},
		{name: "too large", doc: Document{Filename: "big.txt", Data: []byte(strings.Repeat("a", MaxDocumentSize+1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			store := &fakeStore{}
			extractor := NewExtractor(completerReturning("{}", nil, &calls), store)

			_, err := extractor.ExtractDocument(context.Background(), testSession, tt.doc)

			var unsupported *UnsupportedInputError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, 0, calls, "collaborator must not be called")
			assert.Empty(t, store.paths, "nothing must be staged")
		})
	}
}

func TestExtractDocument_BinaryNeedsObjectStorage(t *testing.T) {
	pdf := Document{Filename: "cv.pdf", Data: []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")}

	calls := 0
	_, err := NewExtractor(completerReturning(`{"name": "Jane"}`, nil, &calls), nil).
		ExtractDocument(context.Background(), testSession, pdf)
	var unsupported *UnsupportedInputError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "application/pdf", unsupported.MIMEType)
	assert.Equal(t, 0, calls)

	store := &fakeStore{}
	result, err := NewExtractor(completerReturning(`{"name": "Jane"}`, nil, &calls), store).
		ExtractDocument(context.Background(), testSession, pdf)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Jane", result.Profile.Name)
	assert.Len(t, store.paths, 1)

	text, err := NewExtractor(completerReturning(`{"name": "Jane"}`, nil, &calls), nil).
		ExtractDocument(context.Background(), testSession, Document{Filename: "cv.txt", Data: []byte("Jane")})
	require.NoError(t, err, "plain text needs no staging")
	assert.Empty(t, text.SourceURL)
}

func TestExtractDocument_StagingFailure(t *testing.T) {
	calls := 0
	extractor := NewExtractor(completerReturning("{}", nil, &calls), &fakeStore{err: errors.New("bucket missing")})

	_, err := extractor.ExtractDocument(context.Background(), testSession, Document{Filename: "cv.txt", Data: []byte("text")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket missing")
	assert.Equal(t, 0, calls)
}

func TestExtractText_Blank(t *testing.T) {
	calls := 0
	extractor := NewExtractor(completerReturning("{}", nil, &calls), nil)

	_, err := extractor.ExtractText(context.Background(), "  \n ")
	var unsupported *UnsupportedInputError
	assert.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 0, calls)
}

func TestDetectDocumentType_DOCX(t *testing.T) {
	_, err := DetectDocumentType(Document{Filename: "archive.zip", Data: []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00")})
	var unsupported *UnsupportedInputError
	require.ErrorAs(t, err, &unsupported)
	assert.NotEmpty(t, unsupported.MIMEType)
}
