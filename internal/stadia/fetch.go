package stadia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"

	"github.com/warpdl/stadia-galaxy/pkg/logger"
)

// DefaultUserAgent is the desktop Chrome string the home page is known to
// render the expected markup for.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/78.0.3904.97 Safari/537.36"

// maxRedirects matches the net/http default.
const maxRedirects = 10

// Endpoints are the URLs the shim talks to. Tests point them at an
// httptest server.
type Endpoints struct {
	// Home is the page both identity and library are scraped from.
	Home string
	// IdentityProvider is the URL prefix a stale session gets redirected to.
	IdentityProvider string
	// LoginStart is the first page of the interactive login window.
	LoginStart string
}

// DefaultEndpoints returns the production URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Home:             "https://stadia.google.com/home",
		IdentityProvider: "https://accounts.google.com/",
		LoginStart:       "https://accounts.google.com/SignOutOptions?continue=https%3A%2F%2Fstadia.google.com%2F",
	}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.Home == "" {
		e.Home = d.Home
	}
	if e.IdentityProvider == "" {
		e.IdentityProvider = d.IdentityProvider
	}
	if e.LoginStart == "" {
		e.LoginStart = d.LoginStart
	}
	return e
}

// FetchError wraps a transport level failure: DNS, TLS, connection reset,
// too many redirects or a cancelled context.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("stadia: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// fetchResult is what fetchAuthorized hands back to the shim.
type fetchResult struct {
	Body      []byte
	FinalURL  string
	Redirects int
	Status    int
}

// sessionJar builds a jar holding the bundle as host-only cookies for every
// host in hosts. Go drops request cookies on cross-host redirects, so the
// jar is what keeps the session attached through the identity provider hop.
func sessionJar(b Bundle, hosts ...string) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	for _, h := range hosts {
		u, err := url.Parse(h)
		if err != nil {
			return nil, err
		}
		cookies := b.HTTPCookies()
		for _, c := range cookies {
			c.Path = "/"
		}
		jar.SetCookies(&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, cookies)
	}
	return jar, nil
}

// fetchAuthorized performs one GET with the given bundle. A fresh client is
// built per call and nothing survives between calls. Landing on the identity
// provider is reported as ErrAuthenticationRequired whatever the status code.
func fetchAuthorized(ctx context.Context, ep Endpoints, ua string, b Bundle, target string, l logger.Logger) (*fetchResult, error) {
	jar, err := sessionJar(b, target, ep.IdentityProvider)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	redirects := 0
	client := resty.New().
		SetLogger(restyLogger{l}).
		SetHeader("User-Agent", ua).
		SetCookieJar(jar).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			redirects = len(via)
			return nil
		}))

	res, err := client.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	final := target
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		final = raw.Request.URL.String()
	}
	l.Info("fetched %s: final url %s after %d redirect(s), status %d", target, final, redirects, res.StatusCode())

	if strings.HasPrefix(final, ep.IdentityProvider) {
		return nil, ErrAuthenticationRequired
	}
	if res.StatusCode() >= http.StatusBadRequest {
		l.Warning("unexpected status %d from %s, parsing body anyway", res.StatusCode(), final)
	}
	return &fetchResult{
		Body:      res.Body(),
		FinalURL:  final,
		Redirects: redirects,
		Status:    res.StatusCode(),
	}, nil
}

// restyLogger routes resty's own diagnostics into the plugin log.
type restyLogger struct {
	l logger.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error("resty: "+format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warning("resty: "+format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug("resty: "+format, v...) }
