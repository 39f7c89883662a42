package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumenlms/authcore/session"
	"github.com/lumenlms/authcore/token"
)

// Carrier is the request's credential carrier: two optional opaque inbound
// tokens and a write side for rotated outbound credentials. The cookie
// implementation lives in the middleware package; tests substitute an
// in-memory one.
type Carrier interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	SetAccessToken(value string, ttl time.Duration)
	SetRefreshToken(value string, ttl time.Duration)
	ClearTokens()
}

// Authenticator orchestrates the dual-token state machine over the token
// codec and the session store. Safe for concurrent use; each request runs
// the machine to completion independently, coupled to other requests only
// through the shared store.
type Authenticator struct {
	config   Config
	codec    *token.Codec
	sessions *session.Store
	metrics  *Metrics
}

// New validates cfg, fills in defaults, and wires an [Authenticator]
// against the given Redis client.
func New(cfg Config, rdb redis.UniversalClient) (*Authenticator, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rdb == nil {
		return nil, errors.New("redis client is required")
	}

	codec, err := token.NewCodec(token.Config{
		AccessSecret:     cfg.Token.AccessSecret,
		RefreshSecret:    cfg.Token.RefreshSecret,
		ActivationSecret: cfg.Token.ActivationSecret,
	})
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		config:   cfg,
		codec:    codec,
		sessions: session.NewStore(rdb, cfg.Session.RedisPrefix),
		metrics:  &Metrics{},
	}, nil
}

// Config returns the effective configuration after defaulting.
func (a *Authenticator) Config() Config { return a.config }

// Codec exposes the token codec for entry points that mint non-session
// tokens (registration activation).
func (a *Authenticator) Codec() *token.Codec { return a.codec }

// Metrics exposes the authenticator's counters.
func (a *Authenticator) Metrics() *Metrics { return a.metrics }

// Authenticate runs the per-request state machine:
//
//  1. Both tokens absent: reject 401.
//  2. Access token absent but refresh present: refresh path.
//  3. Access token valid: session lookup decides. The live record, not the
//     bare claim, becomes the principal so role changes take effect without
//     reissuing tokens.
//  4. Access token expired: refresh path.
//  5. Access token invalid for any other reason: reject 401 with no refresh
//     attempt. A tampered access token gives no reason to trust the refresh
//     token presented beside it.
//
// Every credential fault maps to a 401 [Error]; only session-store
// unavailability maps to 500.
func (a *Authenticator) Authenticate(ctx context.Context, cr Carrier) (*Principal, error) {
	access, hasAccess := cr.AccessToken()
	refresh, hasRefresh := cr.RefreshToken()

	if !hasAccess {
		if !hasRefresh {
			a.metrics.inc(MetricAuthRejected)
			return nil, Unauthenticated(msgLoginRequired)
		}
		p, _, err := a.RefreshSession(ctx, cr, refresh)
		return p, err
	}

	claims, err := a.codec.Verify(token.ClassAccess, access)
	switch {
	case err == nil:
		rec, err := a.sessions.Get(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				a.metrics.inc(MetricAuthRejected)
				return nil, Unauthenticated(msgSessionExpired)
			}
			return nil, Internal(msgInternal)
		}
		a.metrics.inc(MetricAuthSuccess)
		return principalFromRecord(rec), nil

	case errors.Is(err, token.ErrExpired):
		if !hasRefresh {
			a.metrics.inc(MetricAuthRejected)
			return nil, Unauthenticated(msgLoginRequired)
		}
		p, _, err := a.RefreshSession(ctx, cr, refresh)
		return p, err

	default:
		a.metrics.inc(MetricAuthRejected)
		return nil, Unauthenticated(msgTokenInvalid)
	}
}

// RefreshSession validates a refresh token, re-derives the principal from
// the session store, mints a new access token, and writes it to the
// carrier. The refresh token itself is rotated only when its remaining
// lifetime falls below the renewal window; otherwise the returned pair
// carries the original. Both outgoing credentials are written before the
// request proceeds downstream so the next request picks up the rotation.
func (a *Authenticator) RefreshSession(ctx context.Context, cr Carrier, refreshToken string) (*Principal, TokenPair, error) {
	claims, err := a.codec.Verify(token.ClassRefresh, refreshToken)
	if err != nil {
		a.metrics.inc(MetricRefreshFailure)
		return nil, TokenPair{}, Unauthenticated(msgRefreshInvalid)
	}

	rec, err := a.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			a.metrics.inc(MetricRefreshFailure)
			return nil, TokenPair{}, Unauthenticated(msgLoginAgain)
		}
		return nil, TokenPair{}, Internal(msgInternal)
	}
	p := principalFromRecord(rec)

	access, err := a.codec.Issue(token.ClassAccess, token.Claims{ID: p.ID, Role: p.Role}, a.config.Token.AccessTTL)
	if err != nil {
		return nil, TokenPair{}, Internal(msgInternal)
	}
	cr.SetAccessToken(access, a.config.Token.AccessTTL)

	pair := TokenPair{AccessToken: access, RefreshToken: refreshToken}
	if time.Until(claims.ExpiresAt) < a.config.Token.RenewWithin {
		next, err := a.codec.Issue(token.ClassRefresh, token.Claims{ID: p.ID}, a.config.Token.RefreshTTL)
		if err != nil {
			return nil, TokenPair{}, Internal(msgInternal)
		}
		cr.SetRefreshToken(next, a.config.Token.RefreshTTL)
		pair.RefreshToken = next
		a.metrics.inc(MetricRefreshRotated)
	}

	a.metrics.inc(MetricRefreshSuccess)
	return p, pair, nil
}

// IssueSession is the login/registration/social-auth entry point: given an
// already verified principal, mint both tokens, upsert the session record
// with the refresh lifetime as TTL, set the outgoing credentials, and
// return the pair.
func (a *Authenticator) IssueSession(ctx context.Context, cr Carrier, p *Principal) (TokenPair, error) {
	if p == nil || p.ID == "" {
		return TokenPair{}, errors.New("principal must carry an id")
	}

	access, err := a.codec.Issue(token.ClassAccess, token.Claims{ID: p.ID, Role: p.Role}, a.config.Token.AccessTTL)
	if err != nil {
		return TokenPair{}, Internal(msgInternal)
	}
	refresh, err := a.codec.Issue(token.ClassRefresh, token.Claims{ID: p.ID}, a.config.Token.RefreshTTL)
	if err != nil {
		return TokenPair{}, Internal(msgInternal)
	}

	if err := a.sessions.Put(ctx, recordFromPrincipal(p), a.config.Session.TTL); err != nil {
		return TokenPair{}, Internal(msgInternal)
	}

	cr.SetAccessToken(access, a.config.Token.AccessTTL)
	cr.SetRefreshToken(refresh, a.config.Token.RefreshTTL)

	a.metrics.inc(MetricLoginSuccess)
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// SyncSession re-upserts the session record after a profile or password
// change so the cache stays authoritative over stale token claims.
func (a *Authenticator) SyncSession(ctx context.Context, p *Principal) error {
	if p == nil || p.ID == "" {
		return errors.New("principal must carry an id")
	}
	if err := a.sessions.Put(ctx, recordFromPrincipal(p), a.config.Session.TTL); err != nil {
		return Internal(msgInternal)
	}
	a.metrics.inc(MetricSessionSynced)
	return nil
}

// Logout clears the outgoing credentials and deletes the session record.
// Deletion is best-effort: a miss means the record already expired and is
// not an error, so repeated logouts are idempotent.
func (a *Authenticator) Logout(ctx context.Context, cr Carrier, id string) error {
	cr.ClearTokens()

	if id == "" {
		return nil
	}
	if _, err := a.sessions.Delete(ctx, id); err != nil {
		return Internal(msgInternal)
	}

	a.metrics.inc(MetricLogout)
	return nil
}

func principalFromRecord(rec *session.Record) *Principal {
	return &Principal{
		ID:         rec.ID,
		Name:       rec.Name,
		Email:      rec.Email,
		Role:       rec.Role,
		IsVerified: rec.IsVerified,
		Courses:    rec.Courses,
		Avatar:     Avatar{PublicID: rec.Avatar.PublicID, URL: rec.Avatar.URL},
	}
}

func recordFromPrincipal(p *Principal) *session.Record {
	return &session.Record{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Role:       p.Role,
		IsVerified: p.IsVerified,
		Courses:    p.Courses,
		Avatar:     session.Avatar{PublicID: p.Avatar.PublicID, URL: p.Avatar.URL},
	}
}
