package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActivationClaims carries a pending registration and its one-time code
// until the user confirms their email. The password travels only as a
// bcrypt hash; the plaintext is never embedded.
type ActivationClaims struct {
	Name         string
	Email        string
	PasswordHash string
	Code         string
}

type wireActivationClaims struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Code         string `json:"code"`
	jwt.RegisteredClaims
}

// IssueActivation signs an activation token under [ClassActivation].
func (c *Codec) IssueActivation(claims ActivationClaims, ttl time.Duration) (string, error) {
	secret, ok := c.secrets[ClassActivation]
	if !ok {
		return "", errors.New("activation secret not configured")
	}
	if claims.Email == "" || claims.Code == "" {
		return "", errors.New("activation claims must carry email and code")
	}

	now := time.Now()
	wc := wireActivationClaims{
		Name:         claims.Name,
		Email:        claims.Email,
		PasswordHash: claims.PasswordHash,
		Code:         claims.Code,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, wc).SignedString(secret)
}

// VerifyActivation checks an activation token and returns its claims.
// Failure modes match [Codec.Verify].
func (c *Codec) VerifyActivation(tokenStr string) (ActivationClaims, error) {
	secret, ok := c.secrets[ClassActivation]
	if !ok {
		return ActivationClaims{}, ErrInvalid
	}

	parsed, err := newParser().ParseWithClaims(tokenStr, &wireActivationClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return ActivationClaims{}, classifyParseError(err)
	}

	wc, ok := parsed.Claims.(*wireActivationClaims)
	if !ok || !parsed.Valid || wc.Email == "" {
		return ActivationClaims{}, ErrInvalid
	}

	return ActivationClaims{
		Name:         wc.Name,
		Email:        wc.Email,
		PasswordHash: wc.PasswordHash,
		Code:         wc.Code,
	}, nil
}
