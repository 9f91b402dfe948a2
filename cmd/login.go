package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/warpdl/stadia-galaxy/cmd/common"
	"github.com/warpdl/stadia-galaxy/internal/cookies"
	"github.com/warpdl/stadia-galaxy/internal/stadia"
)

// cookieDomain is the identity provider domain the session cookies live on.
const cookieDomain = "google.com"

// loginStep names the CLI import in the shim's debug log.
const loginStep = "cookie_import"

var errNoSessionCookies = errors.New("no Google session cookies found, sign in to Google in that browser first")

var (
	cookiesFrom string

	loginFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "cookies-from, c",
			Usage:       "cookie store to read: a file path or auto",
			Value:       "auto",
			Destination: &cookiesFrom,
		},
	}
)

func importCookies(im *cookies.Importer) ([]cookies.Cookie, *cookies.Source, error) {
	if cookiesFrom == "" || cookiesFrom == "auto" {
		return im.Detect(cookieDomain)
	}
	return im.Import(cookiesFrom, cookieDomain)
}

func login(ctx *cli.Context) error {
	l := consoleLogger("login")
	cs, src, err := importCookies(cookies.NewImporter(l))
	if err != nil {
		return common.NewRuntimeError("login", "import", err)
	}
	fmt.Printf("Read %d %s cookie(s) from %s (%s)\n", len(cs), cookieDomain, src.Browser, src.Path)

	hc := cookies.HostCookies(cs)
	if stadia.FilterSessionCookies(hc).Empty() {
		return common.NewRuntimeError("login", "filter", errNoSessionCookies)
	}

	store, err := openStore()
	if err != nil {
		return common.NewRuntimeError("login", "store", err)
	}

	rctx, cancel := commandContext()
	defer cancel()
	id, err := stadia.New(shimOptions(store, l)).PassLoginCredentials(rctx, loginStep, nil, hc)
	if errors.Is(err, stadia.ErrAuthenticationRequired) {
		if cerr := store.Clear(); cerr != nil {
			common.PrintRuntimeErr(ctx, "login", "clear", cerr)
		}
		return common.NewRuntimeError("login", "verify", errors.New("cookies rejected by Stadia, sign in again in the browser"))
	}
	if err != nil {
		return common.NewRuntimeError("login", "verify", err)
	}
	fmt.Printf("Logged in as %s (%s)\n", id.UserName, id.UserID)
	return nil
}
