package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failed backend call
type Kind int

const (
	KindUnexpected Kind = iota
	KindTransport
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server fault"
	default:
		return "unexpected"
	}
}

const (
	fallbackMessage    = "An unexpected error occurred"
	serverFaultMessage = "The server could not complete the request, please try again later"
)

// Error represents a failed call to the backend
type Error struct {
	Kind       Kind
	StatusCode int
	Method     string
	Path       string
	Message    string
	Errors     []string
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Kind == KindTransport {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, ErrorMessage(e))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// kindForStatus maps an HTTP status onto the error taxonomy
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnexpected
	}
}

// newStatusError builds an Error from a non-2xx response body. The body may
// be a bare string, a JSON string, or an object with message/errors fields.
func newStatusError(method, path string, status int, body []byte) *Error {
	e := &Error{
		Kind:       kindForStatus(status),
		StatusCode: status,
		Method:     method,
		Path:       path,
		Err:        fmt.Errorf("request failed with status code %d", status),
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return e
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		e.Message = trimmed
		return e
	}

	switch v := raw.(type) {
	case string:
		e.Message = v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			e.Message = msg
		}
		e.Errors = flattenErrors(v["errors"])
	}
	return e
}

// flattenErrors accepts either a list of messages or a field -> message map
func flattenErrors(v any) []string {
	switch errs := v.(type) {
	case []any:
		out := make([]string, 0, len(errs))
		for _, item := range errs {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else if item != nil {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	case map[string]any:
		fields := make([]string, 0, len(errs))
		for field := range errs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		out := make([]string, 0, len(fields))
		for _, field := range fields {
			out = append(out, fmt.Sprintf("%s: %v", field, errs[field]))
		}
		return out
	default:
		return nil
	}
}

// ErrorMessage extracts the human readable message from any error: the
// structured message first, then the joined errors list, then the transport
// text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return fallbackMessage
	}

	switch {
	case apiErr.Message != "":
		return apiErr.Message
	case len(apiErr.Errors) > 0:
		return strings.Join(apiErr.Errors, ", ")
	case apiErr.Kind == KindServer:
		return serverFaultMessage
	case apiErr.Err != nil:
		return apiErr.Err.Error()
	default:
		return fallbackMessage
	}
}

func isKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// IsAuthError checks if the error is an authentication error
func IsAuthError(err error) bool { return isKind(err, KindAuth) }

// IsForbiddenError checks if the error is a forbidden error
func IsForbiddenError(err error) bool { return isKind(err, KindForbidden) }

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool { return isKind(err, KindNotFound) }

// IsValidationError checks if the backend rejected the payload
func IsValidationError(err error) bool { return isKind(err, KindValidation) }

// IsServerFault checks for a 5xx response
func IsServerFault(err error) bool { return isKind(err, KindServer) }

// IsTransportError checks if no response reached the client
func IsTransportError(err error) bool { return isKind(err, KindTransport) }
