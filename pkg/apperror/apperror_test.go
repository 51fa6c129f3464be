package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("screen", "abc"), http.StatusNotFound},
		{"validation", NewValidation(errors.New("unsupported extension"), ".txt"), http.StatusBadRequest},
		{"too large", NewPayloadTooLarge(10), http.StatusRequestEntityTooLarge},
		{"external", NewExternalService("apply", errors.New("dial tcp: refused")), http.StatusBadGateway},
		{"internal", NewInternal("disk full", nil), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("create asset: %w", NewNotFound("asset", "x")), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestExternalServiceKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewExternalService("remove", cause)

	assert.ErrorIs(t, err, ErrExternalService)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestValidationMessageIsRule(t *testing.T) {
	rule := errors.New("invalid SVG content")
	err := NewValidation(rule, "no <svg> root element found")

	body := err.ToJSON()
	assert.Equal(t, "invalid SVG content", body["message"])
	assert.Equal(t, "invalid input", body["error"])
	assert.Equal(t, "no <svg> root element found", body["details"])
	assert.ErrorIs(t, err, rule)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
