package clients

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"storefront_admin/internal/domain"
)

type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindDecode    ErrorKind = "decode"
)

// RequestError is returned by every APIClient call that fails.
type RequestError struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	// Message is the backend-supplied message, empty when the backend did
	// not send one.
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: backend returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s %s: backend returned status %d", e.Method, e.Path, e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("%s %s: failed to decode response: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: failed to communicate with backend: %v", e.Method, e.Path, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// inputErrors are raised before a request is sent and are safe to show as is.
var inputErrors = []error{
	domain.ErrEmptyCategoryName,
	domain.ErrInvalidDiscountType,
	domain.ErrInvalidVoucherStatus,
	domain.ErrInvalidID,
	domain.ErrNoProductIDs,
}

// inputError returns the validation sentinel err wraps, if any.
func inputError(err error) (error, bool) {
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return target, true
		}
	}
	return nil, false
}

// DisplayMessage turns err into a short string for direct display. The
// backend message wins, then the text of an input validation error. Anything
// else yields fallback.
func DisplayMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Message != "" {
			return reqErr.Message
		}
		return fallback
	}
	if target, ok := inputError(err); ok {
		return target.Error()
	}
	return fallback
}

// HTTPStatus maps err to the status a proxying handler should answer with.
func HTTPStatus(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Kind == KindStatus && reqErr.StatusCode >= 400 {
			return reqErr.StatusCode
		}
		return http.StatusBadGateway
	}
	if _, ok := inputError(err); ok {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// serverMessage extracts the message field of an error body, if any.
func serverMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"message", "Message", "error"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return ""
}
