package authcore

import (
	"errors"
	"net/http"
	"time"
)

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token   TokenConfig
	Session SessionConfig
	Cookie  CookieConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig carries one symmetric HS256 secret per token class plus the
// class lifetimes. A token signed under one class never verifies under
// another, which is what prevents a long-lived refresh credential from
// being replayed as a short-lived access credential.
type TokenConfig struct {
	AccessSecret     []byte
	RefreshSecret    []byte
	ActivationSecret []byte

	AccessTTL     time.Duration // default 15m
	RefreshTTL    time.Duration // default 7d
	ActivationTTL time.Duration // default 1h

	// RenewWithin is the rotation threshold: a successful refresh also
	// mints a new refresh token when the presented one has less than this
	// much lifetime left. Default 24h.
	RenewWithin time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the Redis key namespace and record TTL. The TTL
// mirrors the refresh-token lifetime when left zero, so a session record
// never outlives the last credential that could resurrect it.
type SessionConfig struct {
	RedisPrefix string        // default "user"
	TTL         time.Duration // default Token.RefreshTTL
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig sets the attributes written on the two credential cookies.
// Production deployments serve cross-site clients and need Secure plus
// SameSite=None; everything else defaults to Lax.
type CookieConfig struct {
	Path     string // default "/"
	Domain   string
	Secure   bool
	SameSite http.SameSite // default Lax
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			ActivationTTL: time.Hour,
			RenewWithin:   24 * time.Hour,
		},
		Session: SessionConfig{
			RedisPrefix: "user",
		},
		Cookie: CookieConfig{
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (c *Config) applyDefaults() {
	def := defaultConfig()
	if c.Token.AccessTTL == 0 {
		c.Token.AccessTTL = def.Token.AccessTTL
	}
	if c.Token.RefreshTTL == 0 {
		c.Token.RefreshTTL = def.Token.RefreshTTL
	}
	if c.Token.ActivationTTL == 0 {
		c.Token.ActivationTTL = def.Token.ActivationTTL
	}
	if c.Token.RenewWithin == 0 {
		c.Token.RenewWithin = def.Token.RenewWithin
	}
	if c.Session.RedisPrefix == "" {
		c.Session.RedisPrefix = def.Session.RedisPrefix
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = c.Token.RefreshTTL
	}
	if c.Cookie.Path == "" {
		c.Cookie.Path = def.Cookie.Path
	}
	if c.Cookie.SameSite == 0 {
		c.Cookie.SameSite = def.Cookie.SameSite
	}
}

func (c Config) validate() error {
	if len(c.Token.AccessSecret) == 0 {
		return errors.New("access token secret is required")
	}
	if len(c.Token.RefreshSecret) == 0 {
		return errors.New("refresh token secret is required")
	}
	if c.Token.AccessTTL < 0 || c.Token.RefreshTTL < 0 || c.Token.ActivationTTL < 0 {
		return errors.New("invalid TTL configuration")
	}
	if c.Token.AccessTTL >= c.Token.RefreshTTL {
		return errors.New("access TTL must be shorter than refresh TTL")
	}
	if c.Token.RenewWithin < 0 || c.Token.RenewWithin >= c.Token.RefreshTTL {
		return errors.New("invalid refresh renewal window")
	}
	if c.Session.TTL < c.Token.RefreshTTL {
		return errors.New("session TTL must cover the refresh token lifetime")
	}
	return nil
}
