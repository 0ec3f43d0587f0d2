package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hygio/internal/faults"
)

// Claims токена: роль и SIRET-поля, subject = UUID аккаунта.
type Claims struct {
	Role           string `json:"role"`
	OwnSiret       string `json:"own_siret,omitempty"`
	InheritedSiret string `json:"inherited_siret,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken подписывает HS256-токен на ttl.
func IssueToken(secret []byte, id Identity, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role:           id.Role,
		OwnSiret:       id.OwnSiret,
		InheritedSiret: id.InheritedSiret,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken проверяет подпись и срок; любая проблема —
// faults.ErrAuthentication, без деталей.
func VerifyToken(secret []byte, token string) (Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Identity{}, faults.ErrAuthentication
	}
	return Identity{
		UUID:           claims.Subject,
		Role:           claims.Role,
		OwnSiret:       claims.OwnSiret,
		InheritedSiret: claims.InheritedSiret,
	}, nil
}
