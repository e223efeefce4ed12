package settings

import (
	"context"
	"errors"
	"net/http"
)

// CookieName is the cookie carrying the encoded settings.
const CookieName = "pwgen-settings"

// CookieStore reads the blob from an incoming request and writes changes to
// the paired response. It lives for a single request.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	name string
}

// NewCookieStore binds a store to one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r, name: CookieName}
}

// Load implements Store.
func (c *CookieStore) Load(ctx context.Context) (string, bool, error) {
	cookie, err := c.r.Cookie(c.name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", false, nil
		}
		return "", false, err
	}
	if cookie.Value == "" {
		return "", false, nil
	}
	return cookie.Value, true, nil
}

// Save implements Store.
func (c *CookieStore) Save(ctx context.Context, blob string, opts StoreOptions) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.name,
		Value:    blob,
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		SameSite: opts.SameSite,
		HttpOnly: true,
	})
	return nil
}

// Clear implements Store.
func (c *CookieStore) Clear(ctx context.Context) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:   c.name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return nil
}
