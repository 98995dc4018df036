package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"barhopregistration/internal/delivery/http/helpers"
	"barhopregistration/internal/delivery/http/middleware"
	"barhopregistration/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testEventID = "5b8f9a2c-3d4e-4f5a-8b6c-7d8e9f0a1b2c"
const testPaymentID = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	paymentID   string
	err         error
	lastUserID  string
	lastInput   *domain.RegisterTeamInput
	callCount   int
}

func (f *fakeRegistrationService) Register(ctx context.Context, userID string, input *domain.RegisterTeamInput) (string, error) {
	f.callCount++
	f.lastUserID = userID
	f.lastInput = input
	if f.err != nil {
		return "", f.err
	}
	return f.paymentID, nil
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	claims := &domain.TokenClaims{UserID: "user-1", AccountID: "acct-1", Roles: []string{"owner"}}
	return req.WithContext(middleware.SetClaims(req.Context(), claims))
}

func validRegisterBody() map[string]any {
	return map[string]any{
		"event_id": testEventID,
		"participant": map[string]any{
			"first_name": "Ana",
			"last_name":  "Meyer",
			"email":      "ana@example.com",
		},
	}
}

func TestRegistrationController_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		svc        *fakeRegistrationService
		noAuth     bool
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success returns transaction",
			body:       validRegisterBody(),
			svc:        &fakeRegistrationService{paymentID: testPaymentID},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing event_id",
			body:       map[string]any{"participant": map[string]any{"first_name": "Ana", "last_name": "Meyer", "email": "ana@example.com"}},
			svc:        &fakeRegistrationService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name: "invalid participant email",
			body: map[string]any{
				"event_id":    testEventID,
				"participant": map[string]any{"first_name": "Ana", "last_name": "Meyer", "email": "not-an-email"},
			},
			svc:        &fakeRegistrationService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unauthenticated",
			body:       validRegisterBody(),
			svc:        &fakeRegistrationService{},
			noAuth:     true,
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "event full maps to conflict",
			body:       validRegisterBody(),
			svc:        &fakeRegistrationService{err: domain.ErrEventFull},
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeConflict,
		},
		{
			name:       "duplicate participant maps to conflict",
			body:       validRegisterBody(),
			svc:        &fakeRegistrationService{err: domain.ErrDuplicateParticipant},
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeConflict,
		},
		{
			name:       "unknown event maps to not found",
			body:       validRegisterBody(),
			svc:        &fakeRegistrationService{err: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewRegistrationController(testLogger, tt.svc)
			body, err := json.Marshal(tt.body)
			require.NoError(t, err)

			var req *http.Request
			if tt.noAuth {
				req = httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			} else {
				req = authedRequest(http.MethodPost, "/register", body)
			}
			rr := httptest.NewRecorder()

			controller.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
			} else {
				assert.Nil(t, envelope.Error)
			}
		})
	}
}

func TestRegistrationController_Register_PassesFriend(t *testing.T) {
	svc := &fakeRegistrationService{paymentID: testPaymentID}
	controller := NewRegistrationController(testLogger, svc)

	body := validRegisterBody()
	body["friend"] = map[string]any{
		"first_name": "Ben",
		"last_name":  "Klein",
		"email":      "Ben@Example.com",
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	controller.Register(rr, authedRequest(http.MethodPost, "/register", raw))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NotNil(t, svc.lastInput)
	assert.Equal(t, "user-1", svc.lastUserID)
	require.NotNil(t, svc.lastInput.Friend)
	// Emails are normalized before they reach the service.
	assert.Equal(t, "ben@example.com", svc.lastInput.Friend.Email)
}
