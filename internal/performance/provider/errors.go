package provider

import (
	"errors"
	"fmt"
)

// Kind classifies an upstream fetch failure.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindTransientFetch    Kind = "transient_fetch_failure"
	KindEmptyResponse     Kind = "empty_response"
	KindMalformedPayload  Kind = "malformed_payload"
	KindUpstreamError     Kind = "upstream_error"
)

// Sentinels matched by errors.Is against a *FetchError of the same kind.
var (
	ErrMissingCredential = errors.New("DATAGOV_API_KEY environment variable is required for datagov provider")
	ErrTransientFetch    = errors.New("upstream fetch failed after retries")
	ErrEmptyResponse     = errors.New("empty response from upstream")
	ErrMalformedPayload  = errors.New("malformed upstream payload")
	ErrUpstreamError     = errors.New("upstream reported an error")
	ErrUnknownProvider   = errors.New("unknown provider type")
)

var kindSentinels = map[Kind]error{
	KindMissingCredential: ErrMissingCredential,
	KindTransientFetch:    ErrTransientFetch,
	KindEmptyResponse:     ErrEmptyResponse,
	KindMalformedPayload:  ErrMalformedPayload,
	KindUpstreamError:     ErrUpstreamError,
}

// FetchError is the structured failure returned by a Source. Callers branch
// on Kind (or errors.Is with the sentinels), never on message text.
type FetchError struct {
	Kind     Kind
	Op       string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrEmptyResponse) and friends match by kind.
func (e *FetchError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// NewFetchError builds a FetchError of the given kind.
func NewFetchError(kind Kind, op string, err error) *FetchError {
	return &FetchError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the failure kind carried by err, or "" if err is not a
// FetchError.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
