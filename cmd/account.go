package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/warpdl/stadia-galaxy/cmd/common"
	appcommon "github.com/warpdl/stadia-galaxy/common"
	"github.com/warpdl/stadia-galaxy/internal/stadia"
	"github.com/warpdl/stadia-galaxy/pkg/credman/keyring"
)

const titleColumn = 40

func whoami(ctx *cli.Context) error {
	rctx, cancel := commandContext()
	defer cancel()
	_, res, err := storedSession(rctx, consoleLogger("whoami"))
	if err != nil {
		return common.NewRuntimeError("whoami", "session", err)
	}
	if res.RequiresLogin() {
		fmt.Printf("Not signed in. Run \"%s login\" or sign in at:\n        %s\n", appcommon.AppName, res.Login.StartURI)
		return nil
	}
	fmt.Printf("%s (%s)\n", res.Identity.UserName, res.Identity.UserID)
	return nil
}

func games(ctx *cli.Context) error {
	rctx, cancel := commandContext()
	defer cancel()
	shim, res, err := storedSession(rctx, consoleLogger("games"))
	if err != nil {
		return common.NewRuntimeError("games", "session", err)
	}
	if res.RequiresLogin() {
		return common.NewRuntimeError("games", "auth", stadia.ErrAuthenticationRequired)
	}
	titles, err := shim.OwnedTitles(rctx)
	if err != nil {
		return common.NewRuntimeError("games", "list", err)
	}
	fmt.Print(formatTitles(res.Identity.UserName, titles))
	return nil
}

func formatTitles(user string, titles []stadia.Title) string {
	if len(titles) == 0 {
		return fmt.Sprintf("%s: no games found for %s\n", appcommon.AppName, user)
	}
	line := strings.Repeat("-", titleColumn+8)
	var b strings.Builder
	fmt.Fprintf(&b, "Games owned by %s:\n\n%s\n", user, line)
	fmt.Fprintf(&b, "|Num|%s|\n", common.Beaut("Title", titleColumn+2))
	fmt.Fprintf(&b, "|---|%s|\n", strings.Repeat("-", titleColumn+2))
	for i, t := range titles {
		name := t.Name
		if r := []rune(name); len(r) > titleColumn {
			name = string(r[:titleColumn-3]) + "..."
		}
		fmt.Fprintf(&b, "|%s| %s |\n", common.Beaut(fmt.Sprint(i+1), 3), common.Beaut(name, titleColumn))
	}
	b.WriteString(line + "\n")
	return b.String()
}

func logout(ctx *cli.Context) error {
	store, err := openStore()
	if err != nil {
		return common.NewRuntimeError("logout", "store", err)
	}
	if err := store.Clear(); err != nil {
		return common.NewRuntimeError("logout", "clear", err)
	}
	fmt.Printf("Saved cookies deleted: %s\n", store.Path())

	// A key from the environment is owned by the caller.
	if os.Getenv(appcommon.CookieKeyEnv) != "" {
		return nil
	}
	if err := newKeyProvider(appFs, configDir).DeleteKey(); err != nil && !keyring.IsNotFound(err) {
		return common.NewRuntimeError("logout", "key", err)
	}
	return nil
}
