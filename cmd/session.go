package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	appcommon "github.com/warpdl/stadia-galaxy/common"
	"github.com/warpdl/stadia-galaxy/internal/stadia"
	"github.com/warpdl/stadia-galaxy/pkg/credman"
	"github.com/warpdl/stadia-galaxy/pkg/credman/keyring"
	"github.com/warpdl/stadia-galaxy/pkg/logger"
)

var (
	appFs = afero.NewOsFs()

	newKeyProvider = func(fs afero.Fs, dir string) keyring.Provider {
		return keyring.Chain{
			Primary:  keyring.NewKeyring(),
			Fallback: keyring.NewFileKeyStore(fs, dir),
		}
	}

	// endpoints is swapped by tests to point at a local server.
	endpoints stadia.Endpoints
)

// openStore resolves the bundle key and opens the saved bundle file.
func openStore() (*credman.BundleStore, error) {
	key, err := credman.ResolveKey(os.Getenv(appcommon.CookieKeyEnv), newKeyProvider(appFs, configDir))
	if err != nil {
		return nil, err
	}
	return credman.NewBundleStore(appFs, configDir, key)
}

// consoleLogger writes to stderr so command output on stdout stays clean.
// Lines are tagged with the running command.
func consoleLogger(command string) logger.Logger {
	return logger.NewConsoleLogger(os.Stderr, debugMode).With(command)
}

func shimOptions(store stadia.CredentialStore, l logger.Logger) stadia.Options {
	return stadia.Options{
		Store:             store,
		Markup:            stadia.MarkupByName(markupName),
		Endpoints:         endpoints,
		Log:               l,
		RequireLastPlayed: requireLastPlayed,
	}
}

// commandContext is cancelled on interrupt and after DEF_TIMEOUT.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, DEF_TIMEOUT)
	return ctx, func() {
		cancel()
		stop()
	}
}

// storedSession loads the saved bundle into a fresh shim. The returned
// AuthResult carries the login directive when the bundle is missing or stale.
func storedSession(ctx context.Context, l logger.Logger) (*stadia.Shim, stadia.AuthResult, error) {
	store, err := openStore()
	if err != nil {
		return nil, stadia.AuthResult{}, err
	}
	b, err := store.Load()
	if err != nil {
		return nil, stadia.AuthResult{}, err
	}
	shim := stadia.New(shimOptions(store, l))
	res, err := shim.Authenticate(ctx, b)
	return shim, res, err
}
