package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/warpdl/stadia-galaxy/cmd/common"
	appcommon "github.com/warpdl/stadia-galaxy/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var (
	debugMode         bool
	configDir         string
	logFile           string
	markupName        string
	requireLastPlayed bool

	globalFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "debug, d",
			Usage:       "enable debug logging",
			EnvVar:      appcommon.DebugEnv,
			Destination: &debugMode,
		},
		cli.StringFlag{
			Name:        "config-dir",
			Usage:       "directory holding the saved cookies and key",
			EnvVar:      appcommon.ConfigDirEnv,
			Value:       appcommon.DefaultConfigDir(),
			Destination: &configDir,
		},
		cli.StringFlag{
			Name:        "log-file",
			Usage:       "plugin log file (default: <config-dir>/" + appcommon.LogFileName + ")",
			EnvVar:      appcommon.LogFileEnv,
			Destination: &logFile,
		},
		cli.StringFlag{
			Name:        "markup",
			Usage:       "home page parser, regex or dom",
			EnvVar:      appcommon.MarkupEnv,
			Value:       "regex",
			Destination: &markupName,
		},
		cli.BoolFlag{
			Name:        "require-last-played",
			Usage:       "fail the library listing when no last played title is shown",
			EnvVar:      appcommon.RequireLastPlayedEnv,
			Destination: &requireLastPlayed,
		},
	}
)

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  appcommon.AppName,
		HelpName:              appcommon.AppName,
		Usage:                 "Stadia library plugin for GOG Galaxy.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             appcommon.AppName + " [global options] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:               "plugin",
				Usage:              "run as a GOG Galaxy plugin",
				UsageText:          "<token> <port>",
				Action:             plugin,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        PluginDescription,
			},
			{
				Name:               "login",
				Usage:              "sign in with browser cookies",
				Action:             login,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        LoginDescription,
				Flags:              loginFlags,
			},
			{
				Name:               "whoami",
				Usage:              "show the signed in account",
				Action:             whoami,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        WhoamiDescription,
			},
			{
				Name:               "games",
				Aliases:            []string{"g"},
				Usage:              "list owned games",
				Action:             games,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        GamesDescription,
			},
			{
				Name:               "logout",
				Usage:              "delete the saved cookies",
				Action:             logout,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        LogoutDescription,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      defaultAction,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}

// defaultAction runs the plugin when started the way the host starts it,
// with a token and a port as the first two arguments.
func defaultAction(ctx *cli.Context) error {
	if ctx.NArg() >= 2 {
		return plugin(ctx)
	}
	return common.Help(ctx)
}
