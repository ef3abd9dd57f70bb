package types

import "fmt"

// Error kinds, stable on the wire. Clients branch on these, never on the
// human-readable detail text.
const (
	KindUnsupportedFormat = "unsupported_format"
	KindEmptyDocument     = "empty_document"
	KindNoChunksProduced  = "no_chunks_produced"
	KindEmptyQuestion     = "empty_question"
	KindNoDocumentIndexed = "no_document_indexed"
	KindGenerationFailed  = "generation_failed"
	KindSessionNotFound   = "session_not_found"
	KindBadRequest        = "bad_request"
)

// Error is a classified request failure. The HTTP layer maps Kind to a
// status code and serializes the value as the response body.
type Error struct {
	Detail string `json:"detail"`
	Kind   string `json:"kind"`
	cause  error
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.cause
}

func ErrUnsupportedFormat(name string) *Error {
	return &Error{
		Kind:   KindUnsupportedFormat,
		Detail: fmt.Sprintf("unsupported file format %q, expected .pdf or .docx", name),
	}
}

func ErrEmptyDocument() *Error {
	return &Error{
		Kind:   KindEmptyDocument,
		Detail: "document contains no extractable text",
	}
}

func ErrNoChunksProduced() *Error {
	return &Error{
		Kind:   KindNoChunksProduced,
		Detail: "document text produced no chunks",
	}
}

func ErrEmptyQuestion() *Error {
	return &Error{
		Kind:   KindEmptyQuestion,
		Detail: "question must not be empty",
	}
}

func ErrNoDocumentIndexed() *Error {
	return &Error{
		Kind:   KindNoDocumentIndexed,
		Detail: "no document indexed for this session, upload one first",
	}
}

func ErrSessionNotFound(id string) *Error {
	return &Error{
		Kind:   KindSessionNotFound,
		Detail: fmt.Sprintf("session %q not found", id),
	}
}

func ErrBadRequest(detail string) *Error {
	return &Error{Kind: KindBadRequest, Detail: detail}
}

// ErrGenerationFailed wraps an upstream collaborator failure (embedding
// service, model backend, index) keeping the underlying message visible.
func ErrGenerationFailed(err error) *Error {
	return &Error{
		Kind:   KindGenerationFailed,
		Detail: "generation failed: " + err.Error(),
		cause:  err,
	}
}
