// Package galaxy connects the session shim to the desktop client that hosts
// it. The host launches the plugin with a token and a port, the plugin dials
// back and both sides speak newline delimited JSON-RPC 2.0 over the socket.
package galaxy

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"

	"github.com/warpdl/stadia-galaxy/internal/stadia"
	"github.com/warpdl/stadia-galaxy/pkg/logger"
)

// Error codes understood by the host.
const (
	codeUnknownError           = jrpc2.Code(0)
	codeAuthenticationRequired = jrpc2.Code(1)
	codeBackendError           = jrpc2.Code(4)
	codeInvalidParams          = jrpc2.Code(-32602)
)

// shutdownGrace lets the shutdown response reach the host before the
// server closes the channel.
const shutdownGrace = 50 * time.Millisecond

// Config holds the bridge settings.
type Config struct {
	// Token is echoed back by get_capabilities so the host can match the
	// connection to the process it spawned.
	Token string
	// Shim configures the session shim. Its Store is replaced by the host.
	Shim stadia.Options
	// Log receives bridge and shim diagnostics.
	Log logger.Logger
}

// Bridge serves the host protocol for one connection.
type Bridge struct {
	token string
	shim  *stadia.Shim
	log   logger.Logger

	mu       sync.Mutex
	srv      *jrpc2.Server
	shutdown bool
}

// NewBridge creates a bridge whose shim persists credentials through the host.
func NewBridge(cfg Config) *Bridge {
	b := &Bridge{token: cfg.Token, log: cfg.Log}
	if b.log == nil {
		b.log = logger.NewNopLogger()
	}
	opts := cfg.Shim
	opts.Store = stadia.CredentialStoreFunc(b.storeCredentials)
	if opts.Log == nil {
		opts.Log = b.log
	}
	b.shim = stadia.New(opts)
	return b
}

func (b *Bridge) methods() handler.Map {
	return handler.Map{
		MethodGetCapabilities:      handler.New(b.getCapabilities),
		MethodInitAuthentication:   handler.New(b.initAuthentication),
		MethodPassLoginCredentials: handler.New(b.passLoginCredentials),
		MethodImportOwnedGames:     handler.New(b.importOwnedGames),
		MethodPing:                 handler.New(b.ping),
		MethodShutdown:             handler.New(b.shutdownPlugin),
	}
}

// Serve runs the protocol on ch until the host disconnects, asks the plugin
// to shut down or ctx is cancelled.
func (b *Bridge) Serve(ctx context.Context, ch channel.Channel) error {
	srv := jrpc2.NewServer(b.methods(), &jrpc2.ServerOptions{
		AllowPush: true,
		Logger:    func(text string) { b.log.Debug("jrpc2: %s", text) },
	})
	b.mu.Lock()
	b.srv = srv
	b.mu.Unlock()

	srv.Start(ch)
	stop := context.AfterFunc(ctx, srv.Stop)
	defer stop()

	err := srv.Wait()
	if b.stopping() || ctx.Err() != nil {
		return nil
	}
	return err
}

// Run dials the host on the loopback port and serves until disconnected.
func (b *Bridge) Run(ctx context.Context, port string) error {
	conn, err := Dial(ctx, port)
	if err != nil {
		return err
	}
	defer conn.Close()
	b.log.Info("connected to host on %s", conn.RemoteAddr())
	return b.Serve(ctx, channel.Line(conn, conn))
}

// Dial connects to the host's loopback listener.
func Dial(ctx context.Context, port string) (net.Conn, error) {
	d := net.Dialer{Timeout: 10 * time.Second}
	return d.DialContext(ctx, "tcp", net.JoinHostPort("127.0.0.1", port))
}

func (b *Bridge) stopping() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shutdown
}

func (b *Bridge) server() *jrpc2.Server {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.srv
}

// storeCredentials pushes the bundle to the host, which owns persistence.
func (b *Bridge) storeCredentials(ctx context.Context, bundle stadia.Bundle) error {
	srv := b.server()
	if srv == nil {
		return errors.New("galaxy: not connected")
	}
	b.log.Debug("pushing %s with %v", MethodStoreCredentials, bundle.Names())
	return srv.Notify(ctx, MethodStoreCredentials, &Credentials{Cookies: bundle})
}

func (b *Bridge) getCapabilities(_ context.Context, _ *NoParams) (*CapabilitiesResult, error) {
	return &CapabilitiesResult{
		PlatformName: PlatformName,
		Features:     []string{FeatureImportOwnedGames},
		Token:        b.token,
	}, nil
}

func (b *Bridge) initAuthentication(ctx context.Context, p *InitAuthParams) (*AuthResult, error) {
	var stored stadia.Bundle
	if p != nil && p.StoredCredentials != nil {
		stored = p.StoredCredentials.Cookies
	}
	res, err := b.shim.Authenticate(ctx, stored)
	if err != nil {
		return nil, hostError(err)
	}
	return authResult(res), nil
}

func (b *Bridge) passLoginCredentials(ctx context.Context, p *PassLoginParams) (*AuthResult, error) {
	if p == nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing params"}
	}
	id, err := b.shim.PassLoginCredentials(ctx, p.Step, p.Credentials, hostCookies(p.Cookies))
	if err != nil {
		b.log.Error("login failed: %v", err)
		return nil, hostError(err)
	}
	return identityResult(id), nil
}

func (b *Bridge) importOwnedGames(ctx context.Context, _ *NoParams) (*OwnedGamesResult, error) {
	titles, err := b.shim.OwnedTitles(ctx)
	if err != nil {
		b.log.Error("listing owned games: %v", err)
		return nil, hostError(err)
	}
	return ownedGames(titles), nil
}

func (b *Bridge) ping(_ context.Context, _ *NoParams) (*EmptyResult, error) {
	return &EmptyResult{}, nil
}

func (b *Bridge) shutdownPlugin(_ context.Context, _ *NoParams) (*EmptyResult, error) {
	b.mu.Lock()
	b.shutdown = true
	srv := b.srv
	b.mu.Unlock()
	b.log.Info("host requested shutdown")
	if srv != nil {
		time.AfterFunc(shutdownGrace, srv.Stop)
	}
	return &EmptyResult{}, nil
}

// hostError maps shim failures onto the codes the host knows how to surface.
func hostError(err error) error {
	var fe *stadia.FetchError
	switch {
	case errors.Is(err, stadia.ErrAuthenticationRequired):
		return &jrpc2.Error{Code: codeAuthenticationRequired, Message: "Authentication required"}
	case errors.As(err, &fe):
		return &jrpc2.Error{Code: codeBackendError, Message: "Backend error"}
	default:
		return &jrpc2.Error{Code: codeUnknownError, Message: "Unknown error"}
	}
}
