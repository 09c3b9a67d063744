package out

import (
	"context"
	"time"

	"lectern/internal/modules/auth/domain"
)

type RemoteStatus struct {
	Authenticated bool
	User          domain.User
}

type AuthAPI interface {
	Status(ctx context.Context) (RemoteStatus, error)
	Logout(ctx context.Context) error
	LoginURL() string
}

type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenInspector reads the expiry of a bearer token without verifying it.
// ok is false when the token carries no readable expiry.
type TokenInspector interface {
	ExpiresAt(token string) (expiresAt time.Time, ok bool, err error)
}

type BrowserLauncher interface {
	Open(ctx context.Context, target string) error
}
