package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli"

	"github.com/warpdl/stadia-galaxy/cmd/common"
	appcommon "github.com/warpdl/stadia-galaxy/common"
	"github.com/warpdl/stadia-galaxy/internal/galaxy"
	"github.com/warpdl/stadia-galaxy/pkg/logger"
)

// pluginLogger opens the rotating plugin log. Stdout belongs to the host, so
// a log file that cannot be opened leaves the plugin silent rather than dead.
func pluginLogger(ctx *cli.Context) logger.Logger {
	path := logFile
	if path == "" {
		path = filepath.Join(configDir, appcommon.LogFileName)
	}
	l, err := logger.NewFileLogger(logger.FileOptions{Path: path, Debug: debugMode})
	if err != nil {
		common.PrintRuntimeErr(ctx, "plugin", "log", err)
		return logger.NewNopLogger()
	}
	return l
}

func plugin(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("plugin needs a token and a port"))
	}
	token, port := ctx.Args().Get(0), ctx.Args().Get(1)

	l := pluginLogger(ctx)
	defer l.Close()
	l.Info("starting %s plugin, host port %s", appcommon.AppName, port)

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := galaxy.NewBridge(galaxy.Config{
		Token: token,
		Shim:  shimOptions(nil, l),
		Log:   l,
	})
	if err := b.Run(sctx, port); err != nil {
		l.Error("plugin stopped: %v", err)
		return common.NewRuntimeError("plugin", "run", err)
	}
	l.Info("plugin stopped")
	return nil
}
