package stadia

// Identity is the signed-in account as shown on the home page.
type Identity struct {
	UserID   string
	UserName string
}

// unknownIdentity is returned when the profile markup cannot be matched.
var unknownIdentity = Identity{UserID: "unknown", UserName: "unknown"}

// LicenseType tags the ownership category of a Title.
type LicenseType string

// LicenseOtherUser is the only category the home page lets us express: the
// title is reachable through the account but we cannot tell how it is held.
const LicenseOtherUser LicenseType = "OtherUserLicense"

// Title is one owned game. ID and Name are both the display name because the
// page exposes no stable identifier.
type Title struct {
	ID      string
	Name    string
	License LicenseType
}

func newTitle(name string) Title {
	return Title{ID: name, Name: name, License: LicenseOtherUser}
}

// LoginKindWebSession asks the host to open an embedded browser window.
const LoginKindWebSession = "web_session"

// LoginDirective tells the host how to run an interactive web login. The host
// closes the window once the browser reaches a URL matching EndURIRegex and
// hands the window's cookies back through PassLoginCredentials.
type LoginDirective struct {
	Kind         string
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	StartURI     string
	EndURIRegex  string
}

// AuthResult is the outcome of Authenticate. Exactly one field is set.
type AuthResult struct {
	Identity *Identity
	Login    *LoginDirective
}

// RequiresLogin reports whether the host has to run the login directive.
func (r AuthResult) RequiresLogin() bool {
	return r.Login != nil
}

// HostCookie is a cookie as reported by the host's login window.
type HostCookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}
