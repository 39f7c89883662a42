package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Class selects which signing secret a token is issued and verified under.
type Class string

const (
	// ClassAccess is the short-lived per-request credential class.
	ClassAccess Class = "access"
	// ClassRefresh is the long-lived credential class used only to mint new
	// access tokens.
	ClassRefresh Class = "refresh"
	// ClassActivation is the registration-activation credential class.
	ClassActivation Class = "activation"
)

// ErrExpired is returned by Verify when the token is structurally and
// cryptographically sound but past its embedded expiry.
var ErrExpired = errors.New("token expired")

// ErrInvalid is returned by Verify for every non-expiry failure: bad
// signature, malformed structure, unknown class, or class confusion.
var ErrInvalid = errors.New("token invalid")

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	AccessSecret     []byte
	RefreshSecret    []byte
	ActivationSecret []byte // optional; activation issuance fails without it
}

// Codec signs and verifies class-scoped claims. It is pure CPU work with no
// ambient environment lookups; every secret arrives through [Config].
type Codec struct {
	secrets map[Class][]byte
}

// NewCodec validates the configuration and builds a [Codec].
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.New("access secret is required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("refresh secret is required")
	}

	secrets := map[Class][]byte{
		ClassAccess:  cfg.AccessSecret,
		ClassRefresh: cfg.RefreshSecret,
	}
	if len(cfg.ActivationSecret) > 0 {
		secrets[ClassActivation] = cfg.ActivationSecret
	}

	return &Codec{secrets: secrets}, nil
}

// Claims is the signed payload of access and refresh tokens. Role is only
// carried on access tokens. ExpiresAt is populated by [Codec.Verify] and
// ignored by [Codec.Issue].
type Claims struct {
	ID        string
	Role      string
	ExpiresAt time.Time
}

type wireClaims struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issue produces a signed HS256 token embedding claims with an absolute
// expiry of now+ttl.
func (c *Codec) Issue(class Class, claims Claims, ttl time.Duration) (string, error) {
	secret, ok := c.secrets[class]
	if !ok {
		return "", errors.New("unknown token class")
	}
	if claims.ID == "" {
		return "", errors.New("claims must carry a principal id")
	}

	now := time.Now()
	wc := wireClaims{
		ID:   claims.ID,
		Role: claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, wc).SignedString(secret)
}

// Verify checks signature, structure, and expiry against the class secret.
// The only two failure modes are [ErrExpired] and [ErrInvalid]; a token
// that fails the signature check reports ErrInvalid even if it is also past
// its expiry.
func (c *Codec) Verify(class Class, tokenStr string) (Claims, error) {
	secret, ok := c.secrets[class]
	if !ok {
		return Claims{}, ErrInvalid
	}

	parsed, err := newParser().ParseWithClaims(tokenStr, &wireClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return Claims{}, classifyParseError(err)
	}

	wc, ok := parsed.Claims.(*wireClaims)
	if !ok || !parsed.Valid || wc.ID == "" {
		return Claims{}, ErrInvalid
	}

	out := Claims{ID: wc.ID, Role: wc.Role}
	if wc.ExpiresAt != nil {
		out.ExpiresAt = wc.ExpiresAt.Time
	}

	return out, nil
}

func newParser() *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
}

// classifyParseError funnels the jwt library's joined errors into the two
// sentinels. Signature and structure failures win over expiry: an expired
// token signed with the wrong secret is invalid, not expired.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrInvalid
	}
}
