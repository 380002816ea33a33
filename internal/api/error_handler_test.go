package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "username or password is incorrect"},
		{"wrapped invalid credentials", fmt.Errorf("login: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized, "username or password is incorrect"},
		{"echo http error", echo.NewHTTPError(http.StatusForbidden, "forbidden"), http.StatusForbidden, "forbidden"},
		{"router not found", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"deadline exceeded", fmt.Errorf("authenticate: wait for verification slot: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, "service unavailable"},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
		{"internal cause never leaks", domain.ErrIdentityNotFound, http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/login/authenticate", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.wantMsg {
				t.Errorf("expected %q, got %q", tc.wantMsg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrInvalidCredentials, c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestHTTPErrorHandler_Committed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := c.NoContent(http.StatusAccepted); err != nil {
		t.Fatalf("no content: %v", err)
	}
	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected committed status 202 to be kept, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected no body after commit, got %q", rec.Body.String())
	}
}

func TestHTTPErrorHandler_ClientCancelled(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs).Level(zerolog.DebugLevel)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login/authenticate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := fmt.Errorf("authenticate: wait for verification slot: %w", context.Canceled)
	NewHTTPErrorHandler(log)(err, c)

	if rec.Code != statusClientClosedRequest {
		t.Fatalf("expected %d, got %d", statusClientClosedRequest, rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
	if bytes.Contains(logs.Bytes(), []byte(`"level":"error"`)) {
		t.Errorf("cancelled request logged at error level: %s", logs.String())
	}
	if !bytes.Contains(logs.Bytes(), []byte("request cancelled by client")) {
		t.Errorf("expected debug entry for the cancellation, got %s", logs.String())
	}
}
