package service

import (
	"context"
	"errors"
)

// ErrNoResponse is returned when the model answers without any usable text.
var ErrNoResponse = errors.New("no response generated")

// AIService is a hosted text-generation model. Generate makes exactly one
// blocking call and returns the complete text.
type AIService interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UpstreamError marks a failure of the AI backend. Its message is the
// backend's own message so it can be shown to the client as is.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Err: err}
}

// FallbackErrorMessage is shown when a failure carries no message.
const FallbackErrorMessage = "Failed to generate response"

// ErrorMessage is the client-facing text of a chat failure.
func ErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return FallbackErrorMessage
	}
	return err.Error()
}
