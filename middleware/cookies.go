package middleware

import (
	"net/http"
	"time"

	authcore "github.com/lumenlms/authcore"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
)

// Cookies reads the two credential cookies from an inbound request and
// writes rotated or cleared credentials to the response. It implements
// [authcore.Carrier]. Clearing writes empty values with a past expiry.
type Cookies struct {
	r    *http.Request
	w    http.ResponseWriter
	opts authcore.CookieConfig
}

// NewCookies builds a cookie carrier for one request/response pair.
func NewCookies(w http.ResponseWriter, r *http.Request, opts authcore.CookieConfig) *Cookies {
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	return &Cookies{r: r, w: w, opts: opts}
}

// AccessToken implements [authcore.Carrier].
func (c *Cookies) AccessToken() (string, bool) { return c.read(accessCookieName) }

// RefreshToken implements [authcore.Carrier].
func (c *Cookies) RefreshToken() (string, bool) { return c.read(refreshCookieName) }

// SetAccessToken implements [authcore.Carrier].
func (c *Cookies) SetAccessToken(value string, ttl time.Duration) {
	c.write(accessCookieName, value, ttl)
}

// SetRefreshToken implements [authcore.Carrier].
func (c *Cookies) SetRefreshToken(value string, ttl time.Duration) {
	c.write(refreshCookieName, value, ttl)
}

// ClearTokens implements [authcore.Carrier].
func (c *Cookies) ClearTokens() {
	c.expire(accessCookieName)
	c.expire(refreshCookieName)
}

func (c *Cookies) read(name string) (string, bool) {
	ck, err := c.r.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (c *Cookies) write(name, value string, ttl time.Duration) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.opts.Path,
		Domain:   c.opts.Domain,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
}

func (c *Cookies) expire(name string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     c.opts.Path,
		Domain:   c.opts.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
}
