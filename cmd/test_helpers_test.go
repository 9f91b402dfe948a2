package cmd

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli"

	"github.com/warpdl/stadia-galaxy/cmd/common"
	appcommon "github.com/warpdl/stadia-galaxy/common"
	"github.com/warpdl/stadia-galaxy/internal/stadia"
)

const homePage = `<html><body>
<span class="VY8blf fSorq">Jane</span><div class="gI3hkd">12345</div>
<div class="GqLi4d QAAyWd qu6XL" aria-label="Foo ansehen"></div>
<div class="GqLi4d QAAyWd qu6XL" aria-label="Bar ansehen"></div>
<div class="Rt8Z2e qRvogc QAAyWd" aria-label="Baz Spielen jetzt"></div>
</body></html>`

// captureOutput captures stdout and stderr while f runs.
func captureOutput(f func()) (stdout, stderr string) {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	var bufOut, bufErr bytes.Buffer
	done := make(chan struct{}, 2)
	go func() { io.Copy(&bufOut, rOut); done <- struct{}{} }()
	go func() { io.Copy(&bufErr, rErr); done <- struct{}{} }()

	f()

	wOut.Close()
	wErr.Close()
	<-done
	<-done
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	rOut.Close()
	rErr.Close()

	return bufOut.String(), bufErr.String()
}

func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

func assertNotContains(t *testing.T, output, notExpected string) {
	t.Helper()
	if strings.Contains(output, notExpected) {
		t.Errorf("expected output to NOT contain %q, got:\n%s", notExpected, output)
	}
}

// setupEnv points the CLI at a temp config dir, a fixed cookie key and a
// local stand-in for the service. It returns the config dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(appcommon.ConfigDirEnv, dir)
	t.Setenv(appcommon.CookieKeyEnv, hex.EncodeToString(bytes.Repeat([]byte{7}, 32)))
	for _, env := range []string{appcommon.DebugEnv, appcommon.LogFileEnv, appcommon.MarkupEnv, appcommon.RequireLastPlayedEnv} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("SID")
		switch {
		case err == nil && c.Value == "good":
			_, _ = w.Write([]byte(homePage))
		case err == nil && c.Value == "nolastplayed":
			_, _ = w.Write([]byte(strings.Replace(homePage, "Rt8Z2e", "other", 1)))
		default:
			http.Redirect(w, r, "/accounts/ServiceLogin", http.StatusFound)
		}
	})
	mux.HandleFunc("/accounts/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("sign in"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	prev := endpoints
	endpoints = stadia.Endpoints{
		Home:             srv.URL + "/home",
		IdentityProvider: srv.URL + "/accounts/",
		LoginStart:       srv.URL + "/accounts/SignOutOptions",
	}
	t.Cleanup(func() { endpoints = prev })

	prevHelp := common.SetShowAppHelpAndExit(func(*cli.Context, int) {})
	t.Cleanup(func() { common.SetShowAppHelpAndExit(prevHelp) })
	return dir
}

// writeCookieFile writes a Netscape cookies.txt with the given SID value and
// returns its path.
func writeCookieFile(t *testing.T, sid string) string {
	t.Helper()
	exp := time.Now().Add(24 * time.Hour).Unix()
	var b strings.Builder
	b.WriteString("# Netscape HTTP Cookie File\n")
	for name, value := range map[string]string{"SID": sid, "HSID": "h", "SSID": "s", "NID": "n"} {
		fmt.Fprintf(&b, ".google.com\tTRUE\t/\tTRUE\t%d\t%s\t%s\n", exp, name, value)
	}
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(args ...string) error {
	return Execute(append([]string{appcommon.AppName}, args...), BuildArgs{
		Version:   "1.0.0",
		BuildType: "test",
		Date:      "2026-01-01",
		Commit:    "abc123",
	})
}
