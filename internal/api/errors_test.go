package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatusError_Classification(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
		{http.StatusConflict, KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := newStatusError(http.MethodGet, "/x", tt.status, nil)
			assert.Equal(t, tt.want, err.Kind)
			assert.Equal(t, tt.status, err.StatusCode)
		})
	}
}

func TestErrorMessage_Precedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{"message field wins", `{"message":"Invalid OTP","errors":["a","b"]}`, 400, "Invalid OTP"},
		{"errors list joined", `{"errors":["email is required","password is required"]}`, 422, "email is required, password is required"},
		{"errors map sorted", `{"errors":{"password":"too short","email":"invalid"}}`, 400, "email: invalid, password: too short"},
		{"json string body", `"Email already in use"`, 409, "Email already in use"},
		{"plain text body", `User not found`, 404, "User not found"},
		{"empty body falls back to transport text", ``, 404, "request failed with status code 404"},
		{"server fault without body", ``, 503, serverFaultMessage},
		{"server fault keeps backend message", `{"message":"database down"}`, 500, "database down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newStatusError(http.MethodPost, "/auth/login", tt.code, []byte(tt.body))
			assert.Equal(t, tt.want, ErrorMessage(err))
		})
	}
}

func TestErrorMessage_NonAPIErrors(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom")))

	transport := &Error{Kind: KindTransport, Method: "GET", Path: "/auth/me", Err: errors.New("connection refused")}
	assert.Equal(t, "connection refused", ErrorMessage(transport))
	assert.True(t, IsTransportError(transport))
	assert.Contains(t, transport.Error(), "connection refused")
}

func TestPredicates_UnwrapWrapped(t *testing.T) {
	err := newStatusError(http.MethodGet, "/patient", http.StatusForbidden, []byte(`{"message":"Access denied"}`))
	wrapped := errors.Join(errors.New("failed to list patients"), err)

	assert.True(t, IsForbiddenError(wrapped))
	assert.False(t, IsAuthError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.False(t, IsServerFault(wrapped))
	assert.Equal(t, "Access denied", ErrorMessage(wrapped))
}
