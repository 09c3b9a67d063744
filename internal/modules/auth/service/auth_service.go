package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/modules/auth/domain"
	authout "lectern/internal/modules/auth/port/out"
	"lectern/internal/platform/clock"
	apperrors "lectern/internal/platform/errors"
)

type AuthService struct {
	clock     clock.Clock
	api       authout.AuthAPI
	tokens    authout.TokenStore
	inspector authout.TokenInspector
	launcher  authout.BrowserLauncher
}

func NewAuthService(
	clock clock.Clock,
	api authout.AuthAPI,
	tokens authout.TokenStore,
	inspector authout.TokenInspector,
	launcher authout.BrowserLauncher,
) *AuthService {
	return &AuthService{clock: clock, api: api, tokens: tokens, inspector: inspector, launcher: launcher}
}

// Status asks the API who we are. A 401 is an answer, not a failure.
func (s *AuthService) Status(ctx context.Context) (domain.Status, error) {
	status, err := s.localStatus(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	remote, err := s.api.Status(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return status, nil
		}
		return domain.Status{}, err
	}
	status.Authenticated = remote.Authenticated
	status.User = remote.User
	return status, nil
}

func (s *AuthService) localStatus(ctx context.Context) (domain.Status, error) {
	token, err := s.loadToken(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	status := domain.Status{HasToken: token != ""}
	if token != "" && s.inspector != nil {
		if expiresAt, ok, inspectErr := s.inspector.ExpiresAt(token); inspectErr == nil && ok {
			status.TokenExpiresAt = expiresAt
		}
	}
	return status, nil
}

func (s *AuthService) Login(ctx context.Context, open bool) (string, bool, error) {
	target := s.api.LoginURL()
	if !open || s.launcher == nil {
		return target, false, nil
	}
	if err := s.launcher.Open(ctx, target); err != nil {
		return target, false, err
	}
	return target, true, nil
}

func (s *AuthService) SaveToken(ctx context.Context, token string) (domain.Status, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return domain.Status{}, fmt.Errorf("%w: token is required", apperrors.ErrInvalidInput)
	}
	if s.inspector != nil {
		expiresAt, ok, err := s.inspector.ExpiresAt(token)
		if err != nil {
			return domain.Status{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		if ok && domain.TokenExpired(expiresAt, s.clock.Now()) {
			return domain.Status{}, fmt.Errorf("%w: token expired at %s", apperrors.ErrInvalidInput, expiresAt.Format("2006-01-02T15:04:05Z07:00"))
		}
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return domain.Status{}, err
	}
	return s.Status(ctx)
}

// Logout always drops the local token, even when the server already forgot
// the session.
func (s *AuthService) Logout(ctx context.Context) error {
	apiErr := s.api.Logout(ctx)
	if err := s.tokens.Clear(ctx); err != nil {
		return err
	}
	if apiErr != nil && !errors.Is(apiErr, apperrors.ErrUnauthorized) {
		return apiErr
	}
	return nil
}

func (s *AuthService) loadToken(ctx context.Context) (string, error) {
	token, err := s.tokens.Load(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil
	}
	return token, err
}
