package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNetwork           = errors.New("network error")
	ErrParse             = errors.New("parse error")
	ErrRoadNotFound      = errors.New("road not found")
	ErrNoStoredPoints    = errors.New("no stored points found")
	ErrMissingParameters = errors.New("missing required parameters")
	ErrNoLocation        = errors.New("no location available")
	ErrStoreUnavailable  = errors.New("point store not configured")
)

// PipelineError is the single failure a proximity pipeline run surfaces.
// Kind is one of ErrRoadNotFound, ErrInvalidArgument, ErrNetwork or ErrParse.
type PipelineError struct {
	Kind    error
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewPipelineError classifies err into a PipelineError of the given kind.
func NewPipelineError(kind error, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

// ClassifyKind returns the taxonomy sentinel err belongs to, defaulting to ErrNetwork.
func ClassifyKind(err error) error {
	for _, kind := range []error{ErrInvalidArgument, ErrParse, ErrRoadNotFound, ErrNetwork} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrNetwork
}
