package cmd

import "time"

// DEF_TIMEOUT bounds each command that talks to the service.
const DEF_TIMEOUT = time.Second * 30

const DESCRIPTION = `
Stadia Galaxy imports the games of a Stadia account into GOG Galaxy.
Galaxy starts it as a plugin; the commands below let you sign in and
inspect the library from a terminal with cookies from your browser.
`

const (
	PluginDescription = `The plugin command is what GOG Galaxy runs. It connects back
to the client on the given port and answers its requests until
the client asks it to shut down. Logs go to the plugin log file.

Example:
        stadia-galaxy plugin <token> <port>
					OR
        stadia-galaxy <token> <port>

`
	LoginDescription = `The login command reads the Google session cookies from a
browser cookie store, checks them against Stadia and saves them
encrypted in the config directory for the other commands.

Firefox cookies.sqlite, Chrome Cookies (unencrypted values only)
and Netscape cookies.txt files are supported. "auto" scans the
default profiles of installed browsers.

Example:
        stadia-galaxy login --cookies-from auto
        stadia-galaxy login --cookies-from ~/cookies.txt

`
	WhoamiDescription = `The whoami command signs in with the saved cookies and prints
the account, or the address to sign in at if they are stale.

Example:
        stadia-galaxy whoami

`
	GamesDescription = `The games command lists the titles in the Stadia library of
the saved account, the last played title included.

Example:
        stadia-galaxy games

`
	LogoutDescription = `The logout command deletes the saved cookies and the key they
were encrypted with, unless the key comes from STADIA_COOKIE_KEY.

Example:
        stadia-galaxy logout

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
