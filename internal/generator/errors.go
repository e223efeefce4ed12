package generator

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against a *GenerationError.
var (
	ErrTransport = errors.New("generation request failed")
	ErrResponse  = errors.New("generation service returned an error status")
	ErrParse     = errors.New("generation response could not be parsed")
)

// Kind classifies a GenerationError.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindResponse
	KindParse
)

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindResponse:
		return ErrResponse
	case KindParse:
		return ErrParse
	default:
		return nil
	}
}

// GenerationError is the single error type returned by Client.Generate.
type GenerationError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case KindResponse:
		return fmt.Sprintf("generation service error (HTTP %d)", e.StatusCode)
	default:
		if e.Err == nil {
			return e.Kind.sentinel().Error()
		}
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind's sentinel.
func (e *GenerationError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
