// Package cookies reads identity provider session cookies out of a local
// browser profile, so the command line can log in without the host's web
// window. Firefox and Chrome SQLite stores and Netscape cookies.txt files are
// supported. Cookie values are never logged.
package cookies

import (
	"time"

	"github.com/warpdl/stadia-galaxy/internal/stadia"
)

// Format identifies a cookie store layout.
type Format string

const (
	FormatUnknown  Format = ""
	FormatFirefox  Format = "firefox"
	FormatChrome   Format = "chrome"
	FormatNetscape Format = "netscape"
	// FormatSQLite is a SQLite store whose schema has not been inspected yet.
	FormatSQLite Format = "sqlite"
)

// Cookie is one cookie read from a browser store. Value is sensitive.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expiry   time.Time
	Secure   bool
	HttpOnly bool
}

// Source records where cookies were read from.
type Source struct {
	Path    string
	Format  Format
	Browser string
}

// HostCookies converts imported cookies into the shape the login flow takes.
func HostCookies(cs []Cookie) []stadia.HostCookie {
	out := make([]stadia.HostCookie, 0, len(cs))
	for _, c := range cs {
		out = append(out, stadia.HostCookie{Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path})
	}
	return out
}

// Names lists cookie names for logging.
func Names(cs []Cookie) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}
