package out

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authout "lectern/internal/modules/auth/port/out"
)

// JWTInspector decodes claims without a key: the server owns verification,
// the client only wants to know when to ask the user to log in again.
type JWTInspector struct {
	parser *jwt.Parser
}

func NewJWTInspector() authout.TokenInspector {
	return &JWTInspector{parser: jwt.NewParser()}
}

func (i *JWTInspector) ExpiresAt(token string) (time.Time, bool, error) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false, nil
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time.UTC(), true, nil
}
