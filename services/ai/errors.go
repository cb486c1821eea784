package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type ErrorKind int

const (
	Generic ErrorKind = iota
	AuthOrQuota
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case AuthOrQuota:
		return "auth_or_quota"
	case MalformedResponse:
		return "malformed_response"
	default:
		return "generic"
	}
}

// UpstreamError is a failed model call. Hint is a human readable
// explanation; Err keeps the raw upstream error.
type UpstreamError struct {
	Kind ErrorKind
	Hint string
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Hint
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// classify turns a raw client error into an UpstreamError.
func classify(err error) *UpstreamError {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue
	}

	switch statusCode(err) {
	case http.StatusNotFound, http.StatusUnauthorized:
		return &UpstreamError{
			Kind: AuthOrQuota,
			Hint: "AI Model not found or API Key issue. Please ensure your API key is valid and has access to the configured model.",
			Err:  err,
		}
	case http.StatusForbidden, http.StatusTooManyRequests:
		return &UpstreamError{Kind: AuthOrQuota, Hint: "API Key restricted or quota exceeded.", Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Kind: Generic, Hint: "AI Error: the model did not answer in time", Err: err}
	}
	return &UpstreamError{Kind: Generic, Hint: "AI Error: " + err.Error(), Err: err}
}

func malformed(hint string, err error) *UpstreamError {
	return &UpstreamError{Kind: MalformedResponse, Hint: hint, Err: err}
}

// statusCode extracts an HTTP status from the client libraries' error types,
// falling back to the status text in the message.
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "404"):
		return http.StatusNotFound
	case strings.Contains(msg, "403"):
		return http.StatusForbidden
	case strings.Contains(msg, "429"):
		return http.StatusTooManyRequests
	}
	return 0
}
