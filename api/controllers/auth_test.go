package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockpos/internal/auth"
	"github.com/angelmondragon/stockpos/internal/users"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

type stubAuthService struct {
	auth.Service
	login          func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	updatePassword func(ctx context.Context, req auth.UpdatePasswordRequest) (bool, error)
	defaultUser    func(ctx context.Context) (bool, error)
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login(ctx, req)
}

func (s stubAuthService) UpdatePassword(ctx context.Context, req auth.UpdatePasswordRequest) (bool, error) {
	return s.updatePassword(ctx, req)
}

func (s stubAuthService) InitializeDefaultUser(ctx context.Context) (bool, error) {
	return s.defaultUser(ctx)
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	svc := stubAuthService{
		login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			require.Equal(t, "admin@stockpos.local", req.Email)
			return &auth.LoginResponse{
				AccessToken: "token-123",
				ExpiresAt:   time.Now().Add(time.Hour),
				User:        &users.UserDTO{ID: 1, Username: "admin", Email: req.Email},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	AuthLogin(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "admin@stockpos.local",
		"password": "secret",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "token-123", rec.Header().Get(tokenHeader))
	require.Contains(t, rec.Body.String(), `"access_token":"token-123"`)
}

func TestAuthLoginRejectsMissingPassword(t *testing.T) {
	called := false
	svc := stubAuthService{
		login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			called = true
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	AuthLogin(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "admin@stockpos.local",
	}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, called)
}

func TestAuthLoginUnauthorized(t *testing.T) {
	svc := stubAuthService{
		login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		},
	}

	rec := httptest.NewRecorder()
	AuthLogin(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "admin@stockpos.local",
		"password": "nope",
	}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Header().Get(tokenHeader))
	require.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestAuthUpdatePasswordReportsOutcome(t *testing.T) {
	svc := stubAuthService{
		updatePassword: func(ctx context.Context, req auth.UpdatePasswordRequest) (bool, error) {
			return req.CurrentPassword == "old-password", nil
		},
	}

	rec := httptest.NewRecorder()
	AuthUpdatePassword(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/password", map[string]string{
		"email":            "admin@stockpos.local",
		"current_password": "wrong",
		"new_password":     "brand-new-password",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":{"updated":false}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	AuthUpdatePassword(svc, logger.Nop()).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/password", map[string]string{
		"email":            "admin@stockpos.local",
		"current_password": "old-password",
		"new_password":     "short",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetupDefaultUser(t *testing.T) {
	svc := stubAuthService{
		defaultUser: func(ctx context.Context) (bool, error) { return true, nil },
	}

	rec := httptest.NewRecorder()
	SetupDefaultUser(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/setup/user", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":{"created":true}}`, rec.Body.String())
}

func TestAuthHandlersWithoutService(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthLogin(nil, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
