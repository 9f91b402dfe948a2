// Package stadia implements the session shim: it signs in to the streaming
// service with identity provider session cookies and scrapes the home page
// for the account identity and the owned game library.
package stadia

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/warpdl/stadia-galaxy/pkg/logger"
)

// Login window parameters shown by the host.
const (
	LoginWindowTitle  = "Anmelden – Google Konten"
	LoginWindowWidth  = 560
	LoginWindowHeight = 610
)

// Options configures a Shim. Zero values select production defaults.
type Options struct {
	// Store persists the bundle after a successful web login.
	Store CredentialStore
	// Markup extracts data from the home page. Defaults to RegexMarkup.
	Markup Markup
	// Endpoints overrides the service URLs.
	Endpoints Endpoints
	// UserAgent overrides DefaultUserAgent.
	UserAgent string
	// Log receives diagnostics. Defaults to logger.NopLogger.
	Log logger.Logger
	// RequireLastPlayed makes OwnedTitles fail with ErrNoLastPlayed when the
	// home page has no last played tile instead of skipping it.
	RequireLastPlayed bool
}

// Shim holds the active session bundle. It is safe for concurrent use.
type Shim struct {
	store     CredentialStore
	markup    Markup
	endpoints Endpoints
	userAgent string
	log       logger.Logger
	requireLP bool

	mu     sync.RWMutex
	bundle Bundle
}

// New creates a Shim with no active bundle.
func New(opts Options) *Shim {
	s := &Shim{
		store:     opts.Store,
		markup:    opts.Markup,
		endpoints: opts.Endpoints.withDefaults(),
		userAgent: opts.UserAgent,
		log:       opts.Log,
		requireLP: opts.RequireLastPlayed,
	}
	if s.markup == nil {
		s.markup = NewRegexMarkup()
	}
	if s.userAgent == "" {
		s.userAgent = DefaultUserAgent
	}
	if s.log == nil {
		s.log = logger.NewNopLogger()
	}
	return s
}

// LoginDirective describes the interactive login the host has to run. The
// window is done once the browser lands on the home page.
func (s *Shim) LoginDirective() LoginDirective {
	return LoginDirective{
		Kind:         LoginKindWebSession,
		WindowTitle:  LoginWindowTitle,
		WindowWidth:  LoginWindowWidth,
		WindowHeight: LoginWindowHeight,
		StartURI:     s.endpoints.LoginStart,
		EndURIRegex:  "^" + regexp.QuoteMeta(s.endpoints.Home),
	}
}

// Bundle returns a copy of the active bundle.
func (s *Shim) Bundle() Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.Clone()
}

func (s *Shim) setBundle(b Bundle) {
	s.mu.Lock()
	s.bundle = b.Clone()
	s.mu.Unlock()
}

// Authenticate tries the stored bundle first. Any failure with it, stale
// session or network alike, falls back to asking for a web login, so the
// returned error is always nil.
func (s *Shim) Authenticate(ctx context.Context, stored Bundle) (AuthResult, error) {
	if stored.Empty() {
		s.log.Info("no stored credentials, requesting web login")
		d := s.LoginDirective()
		return AuthResult{Login: &d}, nil
	}

	s.setBundle(stored)
	s.log.Debug("trying stored credentials %v", stored.Names())
	id, err := s.profile(ctx)
	if err != nil {
		s.log.Info("stored credentials rejected: %v", err)
		d := s.LoginDirective()
		return AuthResult{Login: &d}, nil
	}
	s.log.Info("authenticated as %s", id.UserID)
	return AuthResult{Identity: &id}, nil
}

// PassLoginCredentials completes a web login. The session cookies among
// cookies replace any stored bundle before the identity is fetched. step and
// credentials are accepted for protocol completeness and otherwise unused.
func (s *Shim) PassLoginCredentials(ctx context.Context, step string, credentials map[string]string, cookies []HostCookie) (Identity, error) {
	b := FilterSessionCookies(cookies)
	s.log.Debug("login step %q returned %d cookie(s), kept %v", step, len(cookies), b.Names())

	if s.store == nil {
		return Identity{}, ErrNoStore
	}
	if err := s.store.StoreCredentials(ctx, b); err != nil {
		return Identity{}, fmt.Errorf("store credentials: %w", err)
	}
	s.setBundle(b)

	id, err := s.profile(ctx)
	if err != nil {
		return Identity{}, err
	}
	s.log.Info("logged in as %s", id.UserID)
	return id, nil
}

// OwnedTitles lists the library tiles on the home page followed by the last
// played title. Duplicates keep their first position.
func (s *Shim) OwnedTitles(ctx context.Context) ([]Title, error) {
	res, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	names := s.markup.Titles(res.Body)
	last, ok := s.markup.LastPlayed(res.Body)
	switch {
	case ok:
		names = append(names, last)
	case s.requireLP:
		return nil, ErrNoLastPlayed
	default:
		s.log.Debug("no last played tile on %s", res.FinalURL)
	}

	seen := make(map[string]struct{}, len(names))
	titles := make([]Title, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		titles = append(titles, newTitle(n))
	}
	s.log.Info("found %d owned title(s)", len(titles))
	return titles, nil
}

func (s *Shim) profile(ctx context.Context) (Identity, error) {
	res, err := s.fetch(ctx)
	if err != nil {
		return Identity{}, err
	}
	id := s.markup.Identity(res.Body)
	if id == unknownIdentity {
		s.log.Warning("profile markup not found on %s", res.FinalURL)
	}
	return id, nil
}

func (s *Shim) fetch(ctx context.Context) (*fetchResult, error) {
	return fetchAuthorized(ctx, s.endpoints, s.userAgent, s.Bundle(), s.endpoints.Home, s.log)
}
