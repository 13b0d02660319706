package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of ways a pipeline invocation can end early
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAcquisition
	KindTranscription
	KindEmptyTranscript
	KindGenerative
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAcquisition:
		return "acquisition"
	case KindTranscription:
		return "transcription"
	case KindEmptyTranscript:
		return "empty_transcript"
	case KindGenerative:
		return "generative"
	default:
		return "unknown"
	}
}

// StageError tags a stage failure with its kind
type StageError struct {
	Kind ErrorKind
	Err  error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with kind
func NewStageError(kind ErrorKind, err error) *StageError {
	return &StageError{Kind: kind, Err: err}
}

// ErrEmptyTranscript marks a transcription that produced only whitespace
var ErrEmptyTranscript = errors.New("speech not recognized")

// KindOf returns the kind of the first StageError in err's chain, or zero
func KindOf(err error) ErrorKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
