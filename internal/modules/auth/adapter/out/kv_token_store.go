package out

import (
	"context"
	"errors"

	"lectern/internal/modules/auth/domain"
	authout "lectern/internal/modules/auth/port/out"
	apperrors "lectern/internal/platform/errors"
)

type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// KVTokenStore keeps the bearer token in the local key/value store. It also
// serves as the api client's token source.
type KVTokenStore struct {
	kv keyValue
}

func NewKVTokenStore(kv keyValue) *KVTokenStore {
	return &KVTokenStore{kv: kv}
}

var _ authout.TokenStore = (*KVTokenStore)(nil)

func (s *KVTokenStore) Load(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, domain.TokenKey)
}

func (s *KVTokenStore) Save(ctx context.Context, token string) error {
	return s.kv.Set(ctx, domain.TokenKey, token)
}

func (s *KVTokenStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, domain.TokenKey)
}

func (s *KVTokenStore) Token(ctx context.Context) (string, error) {
	token, err := s.Load(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil
	}
	return token, err
}
