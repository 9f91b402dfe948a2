package stadia

import (
	"context"
	"net/http"
	"sort"
)

// SessionCookieDomain is the domain the identity provider scopes its session
// cookies to. Cookies for any other domain are ignored, even with a matching name.
const SessionCookieDomain = ".google.com"

// SessionCookieNames are the cookies that carry the identity provider session.
var SessionCookieNames = []string{"HSID", "SID", "SSID"}

func isSessionCookie(name string) bool {
	for _, n := range SessionCookieNames {
		if n == name {
			return true
		}
	}
	return false
}

// Bundle maps session cookie names to their values.
type Bundle map[string]string

// Empty reports whether the bundle carries no cookies.
func (b Bundle) Empty() bool {
	return len(b) == 0
}

// Names returns the cookie names in sorted order. Used for logging, since
// values must never be written out.
func (b Bundle) Names() []string {
	names := make([]string, 0, len(b))
	for k := range b {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (b Bundle) Clone() Bundle {
	if b == nil {
		return nil
	}
	out := make(Bundle, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// HTTPCookies renders the bundle as host-only cookies, sorted by name.
func (b Bundle) HTTPCookies() []*http.Cookie {
	names := b.Names()
	out := make([]*http.Cookie, 0, len(names))
	for _, n := range names {
		out = append(out, &http.Cookie{Name: n, Value: b[n]})
	}
	return out
}

// FilterSessionCookies keeps the cookies that are both a recognised session
// cookie and scoped exactly to SessionCookieDomain. A later duplicate name
// overwrites an earlier one.
func FilterSessionCookies(cookies []HostCookie) Bundle {
	out := Bundle{}
	for _, c := range cookies {
		if c.Domain != SessionCookieDomain || !isSessionCookie(c.Name) {
			continue
		}
		out[c.Name] = c.Value
	}
	return out
}

// CredentialStore persists the session bundle between plugin runs. In plugin
// mode the host owns persistence; the CLI uses an encrypted local file.
type CredentialStore interface {
	// StoreCredentials replaces whatever was stored before.
	StoreCredentials(ctx context.Context, b Bundle) error
}

// CredentialStoreFunc adapts a plain function to CredentialStore.
type CredentialStoreFunc func(ctx context.Context, b Bundle) error

func (f CredentialStoreFunc) StoreCredentials(ctx context.Context, b Bundle) error {
	return f(ctx, b)
}
