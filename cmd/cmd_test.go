package cmd

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
	zkeyring "github.com/zalando/go-keyring"

	"github.com/warpdl/stadia-galaxy/cmd/common"
	appcommon "github.com/warpdl/stadia-galaxy/common"
	"github.com/warpdl/stadia-galaxy/internal/galaxy"
	"github.com/warpdl/stadia-galaxy/internal/stadia"
	"github.com/warpdl/stadia-galaxy/pkg/credman"
	"github.com/warpdl/stadia-galaxy/pkg/credman/keyring"
)

func TestExecute_Version(t *testing.T) {
	setupEnv(t)
	out, _ := captureOutput(func() {
		if err := run("version"); err != nil {
			t.Errorf("version: %v", err)
		}
	})
	assertContains(t, out, "stadia-galaxy 1.0.0-test")
	assertContains(t, out, "Build: 2026-01-01=abc123")
}

func TestExecute_NoArgsShowsHelp(t *testing.T) {
	setupEnv(t)
	called := false
	prev := common.SetShowAppHelpAndExit(func(_ *cli.Context, _ int) { called = true })
	defer common.SetShowAppHelpAndExit(prev)

	captureOutput(func() {
		if err := run(); err != nil {
			t.Errorf("run: %v", err)
		}
	})
	if !called {
		t.Error("expected app help")
	}
}

func TestLoginWhoamiGamesLogout(t *testing.T) {
	dir := setupEnv(t)
	path := writeCookieFile(t, "good")

	out, errOut := captureOutput(func() {
		if err := run("login", "--cookies-from", path); err != nil {
			t.Errorf("login: %v", err)
		}
	})
	assertContains(t, out, "Read 4 google.com cookie(s) from Netscape")
	assertContains(t, out, "Logged in as Jane (12345)")
	assertNotContains(t, out+errOut, "good")
	if _, err := os.Stat(filepath.Join(dir, credman.StoreFileName)); err != nil {
		t.Fatalf("bundle not saved: %v", err)
	}

	out, _ = captureOutput(func() {
		if err := run("whoami"); err != nil {
			t.Errorf("whoami: %v", err)
		}
	})
	assertContains(t, out, "Jane (12345)")

	for _, markup := range []string{"regex", "dom"} {
		out, _ = captureOutput(func() {
			if err := run("--markup", markup, "games"); err != nil {
				t.Errorf("games: %v", err)
			}
		})
		assertContains(t, out, "Games owned by Jane")
		for _, title := range []string{"Foo", "Bar", "Baz"} {
			assertContains(t, out, title)
		}
	}

	out, _ = captureOutput(func() {
		if err := run("logout"); err != nil {
			t.Errorf("logout: %v", err)
		}
	})
	assertContains(t, out, "Saved cookies deleted: "+filepath.Join(dir, credman.StoreFileName))

	out, _ = captureOutput(func() {
		if err := run("whoami"); err != nil {
			t.Errorf("whoami: %v", err)
		}
	})
	assertContains(t, out, "Not signed in.")
	assertContains(t, out, "/accounts/SignOutOptions")
}

func TestLogin_RejectedCookiesAreNotKept(t *testing.T) {
	dir := setupEnv(t)
	path := writeCookieFile(t, "stale")

	var err error
	captureOutput(func() { err = run("login", "--cookies-from", path) })
	var re *common.RuntimeError
	if !errors.As(err, &re) || re.Cmd != "login" || re.Action != "verify" {
		t.Fatalf("err = %v, want login[verify]", err)
	}
	if _, serr := os.Stat(filepath.Join(dir, credman.StoreFileName)); !os.IsNotExist(serr) {
		t.Errorf("rejected bundle should be removed, stat err = %v", serr)
	}
}

func TestLogin_NoSessionCookies(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte("# Netscape HTTP Cookie File\n.google.com\tTRUE\t/\tTRUE\t0\tNID\tn\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var err error
	captureOutput(func() { err = run("login", "--cookies-from", path) })
	if !errors.Is(err, errNoSessionCookies) {
		t.Fatalf("err = %v, want errNoSessionCookies", err)
	}
}

func TestLogin_UnreadableStore(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "junk")
	if err := os.WriteFile(path, []byte("not cookies"), 0600); err != nil {
		t.Fatal(err)
	}

	var err error
	captureOutput(func() { err = run("login", "-c", path) })
	if err == nil || !strings.HasPrefix(err.Error(), "login[import]:") {
		t.Fatalf("err = %v, want login[import]", err)
	}
}

func TestGames_NotSignedIn(t *testing.T) {
	setupEnv(t)
	var err error
	captureOutput(func() { err = run("games") })
	if !errors.Is(err, stadia.ErrAuthenticationRequired) {
		t.Fatalf("err = %v, want ErrAuthenticationRequired", err)
	}
}

func TestOpenStore_InvalidKey(t *testing.T) {
	setupEnv(t)
	t.Setenv(appcommon.CookieKeyEnv, "zz")
	var err error
	captureOutput(func() { err = run("logout") })
	if err == nil || !strings.HasPrefix(err.Error(), "logout[store]:") {
		t.Fatalf("err = %v, want logout[store]", err)
	}
}

func TestFormatTitles(t *testing.T) {
	if got := formatTitles("Jane", nil); !strings.Contains(got, "no games found for Jane") {
		t.Errorf("empty listing = %q", got)
	}

	long := strings.Repeat("x", titleColumn+10)
	got := formatTitles("Jane", []stadia.Title{{ID: "Foo", Name: "Foo"}, {ID: long, Name: long}})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	width := len(lines[len(lines)-1])
	for _, l := range lines[2:] {
		if len(l) != width {
			t.Errorf("line %q is %d wide, want %d", l, len(l), width)
		}
	}
	assertContains(t, got, strings.Repeat("x", titleColumn-3)+"...")
	assertNotContains(t, got, long)
}

func TestPlugin_ServesHost(t *testing.T) {
	setupEnv(t)
	logPath := filepath.Join(t.TempDir(), "plugin.log")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	done := make(chan error, 1)
	go func() { done <- run("--log-file", logPath, "tok-9", port) }()

	conn, err := ln.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	host := jrpc2.NewClient(channel.Line(conn, conn), &jrpc2.ClientOptions{
		OnNotify: func(*jrpc2.Request) {},
	})
	defer host.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var caps galaxy.CapabilitiesResult
	if err := host.CallResult(ctx, galaxy.MethodGetCapabilities, nil, &caps); err != nil {
		t.Fatalf("get_capabilities: %v", err)
	}
	if caps.Token != "tok-9" {
		t.Errorf("token = %q", caps.Token)
	}

	login := galaxy.PassLoginParams{Cookies: []galaxy.Cookie{
		{Name: "SID", Value: "good", Domain: ".google.com", Path: "/"},
	}}
	if _, err := host.Call(ctx, "pass_login_credentials", login); err != nil {
		t.Fatalf("pass_login_credentials: %v", err)
	}
	var owned galaxy.OwnedGamesResult
	if err := host.CallResult(ctx, "import_owned_games", nil, &owned); err != nil {
		t.Fatalf("import_owned_games: %v", err)
	}
	if len(owned.OwnedGames) != 3 || owned.OwnedGames[2].GameTitle != "Baz" {
		t.Errorf("owned games = %+v", owned.OwnedGames)
	}
	if _, err := host.Call(ctx, galaxy.MethodShutdown, nil); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("plugin returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("plugin did not stop after shutdown")
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	assertContains(t, string(data), "starting stadia-galaxy plugin")
}

func TestPlugin_MissingArgs(t *testing.T) {
	setupEnv(t)
	prev := common.SetShowCommandHelp(func(*cli.Context, string) error { return nil })
	defer common.SetShowCommandHelp(prev)

	out, _ := captureOutput(func() {
		if err := run("plugin", "only-token"); err != nil {
			t.Errorf("plugin: %v", err)
		}
	})
	assertContains(t, out, "plugin needs a token and a port")
}

func TestGames_RequireLastPlayedFromEnv(t *testing.T) {
	setupEnv(t)
	path := writeCookieFile(t, "nolastplayed")
	var err error
	captureOutput(func() { err = run("login", "--cookies-from", path) })
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	out, _ := captureOutput(func() {
		if err := run("games"); err != nil {
			t.Errorf("games: %v", err)
		}
	})
	assertContains(t, out, "Foo")
	assertNotContains(t, out, "Baz")

	t.Setenv(appcommon.RequireLastPlayedEnv, "true")
	captureOutput(func() { err = run("games") })
	if !errors.Is(err, stadia.ErrNoLastPlayed) {
		t.Fatalf("err = %v, want ErrNoLastPlayed", err)
	}
}

func TestLogout_ForgetsFileKey(t *testing.T) {
	dir := setupEnv(t)
	os.Unsetenv(appcommon.CookieKeyEnv)
	prev := newKeyProvider
	newKeyProvider = func(fs afero.Fs, d string) keyring.Provider {
		return keyring.Chain{
			Primary:  unavailableKeyring{},
			Fallback: keyring.NewFileKeyStore(fs, d),
		}
	}
	defer func() { newKeyProvider = prev }()

	path := writeCookieFile(t, "good")
	var err error
	captureOutput(func() { err = run("login", "--cookies-from", path) })
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	keyFile := filepath.Join(dir, "cookie.key")
	if _, err := os.Stat(keyFile); err != nil {
		t.Fatalf("key file not created: %v", err)
	}

	captureOutput(func() { err = run("logout") })
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := os.Stat(keyFile); !os.IsNotExist(err) {
		t.Errorf("key file should be removed, stat err = %v", err)
	}

	// Logging out again with nothing stored is not an error.
	captureOutput(func() { err = run("logout") })
	if err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

type unavailableKeyring struct{}

func (unavailableKeyring) GetKey() ([]byte, error) { return nil, errors.New("no keyring") }
func (unavailableKeyring) SetKey() ([]byte, error) { return nil, errors.New("no keyring") }
func (unavailableKeyring) DeleteKey() error        { return zkeyring.ErrNotFound }
