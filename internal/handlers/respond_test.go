package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/complytrack/compliance-tracker-api/internal/logger"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewWithWriter(io.Discard, "error")

	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"validation", &services.ValidationError{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"wrapped not found", fmt.Errorf("loading: %w", services.ErrTaskNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden edit", services.ErrTaskEditForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"company scope", services.ErrCompanyAccessDenied, http.StatusForbidden, "FORBIDDEN"},
		{"duplicate code", services.ErrCompanyCodeTaken, http.StatusConflict, "CONFLICT"},
		{"bad login", services.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"empty upload", services.ErrEmptyFile, http.StatusBadRequest, "INVALID_INPUT"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, log, tt.err)

			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for raw, ok := range map[string]bool{"42": true, "0": false, "-1": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		id, got := parseIDParam(c, "id")

		assert.Equal(t, ok, got, raw)
		if ok {
			assert.Equal(t, uint64(42), id)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}
