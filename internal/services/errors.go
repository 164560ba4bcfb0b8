package services

import (
	"errors"
	"fmt"

	"alfredoptarigan/careerpulse/internal/models"
)

var (
	ErrEmptyResponse          = errors.New("no text content in response")
	ErrUnknownResourceKind    = errors.New("unknown resource kind")
	ErrEmptyMessage           = errors.New("message is empty")
	ErrTurnInProgress         = errors.New("a reply is still streaming")
	ErrConversationNotFound   = errors.New("conversation not found")
	ErrConversationClosed     = errors.New("conversation closed")
	ErrConversationNotStarted = errors.New("conversation not started")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrNoTextContent          = errors.New("no text content found")
)

type ErrorKind string

const (
	KindRequestFailure ErrorKind = "request_failure"
	KindEmptyResponse  ErrorKind = "empty_response"
	KindParseError     ErrorKind = "parse_error"
)

// classify maps an LLM client error onto an ErrorKind.
func classify(err error) ErrorKind {
	if errors.Is(err, ErrEmptyResponse) {
		return KindEmptyResponse
	}
	return KindRequestFailure
}

type AnalysisError struct {
	Kind ErrorKind
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("resume analysis failed (%s): %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

type GenerationError struct {
	Kind     ErrorKind
	Resource models.ResourceKind
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed (%s): %v", e.Resource, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
