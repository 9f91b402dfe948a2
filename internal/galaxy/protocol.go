package galaxy

import "github.com/warpdl/stadia-galaxy/internal/stadia"

// Methods served to the host.
const (
	MethodGetCapabilities      = "get_capabilities"
	MethodInitAuthentication   = "init_authentication"
	MethodPassLoginCredentials = "pass_login_credentials"
	MethodImportOwnedGames     = "import_owned_games"
	MethodPing                 = "ping"
	MethodShutdown             = "shutdown"
)

// MethodStoreCredentials is pushed to the host after a successful login.
const MethodStoreCredentials = "store_credentials"

// PlatformName identifies the integration to the host.
const PlatformName = "stadia"

// FeatureImportOwnedGames is the only feature the plugin advertises.
const FeatureImportOwnedGames = "ImportOwnedGames"

// CapabilitiesResult is the response for get_capabilities.
type CapabilitiesResult struct {
	PlatformName string   `json:"platform_name"`
	Features     []string `json:"features"`
	Token        string   `json:"token"`
}

// Credentials is the opaque blob the host keeps between runs.
type Credentials struct {
	Cookies map[string]string `json:"cookies"`
}

// InitAuthParams is the input for init_authentication.
type InitAuthParams struct {
	StoredCredentials *Credentials `json:"stored_credentials,omitempty"`
}

// AuthParams describes the login window.
type AuthParams struct {
	WindowTitle  string `json:"window_title"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
	StartURI     string `json:"start_uri"`
	EndURIRegex  string `json:"end_uri_regex"`
}

// AuthResult is either an identity or a next step, never both.
type AuthResult struct {
	UserID     string      `json:"user_id,omitempty"`
	UserName   string      `json:"user_name,omitempty"`
	NextStep   string      `json:"next_step,omitempty"`
	AuthParams *AuthParams `json:"auth_params,omitempty"`
}

// Cookie is a cookie captured by the host's login window.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

// PassLoginParams is the input for pass_login_credentials.
type PassLoginParams struct {
	Step        string            `json:"step"`
	Credentials map[string]string `json:"credentials"`
	Cookies     []Cookie          `json:"cookies"`
}

// LicenseInfo tags an owned game.
type LicenseInfo struct {
	LicenseType string `json:"license_type"`
}

// DLC is downloadable content attached to a Game. The home page never
// lists any, so the slice is always empty.
type DLC struct {
	DLCID       string      `json:"dlc_id"`
	DLCTitle    string      `json:"dlc_title"`
	LicenseInfo LicenseInfo `json:"license_info"`
}

// Game is one entry of import_owned_games.
type Game struct {
	GameID      string      `json:"game_id"`
	GameTitle   string      `json:"game_title"`
	DLCs        []DLC       `json:"dlcs"`
	LicenseInfo LicenseInfo `json:"license_info"`
}

// OwnedGamesResult is the response for import_owned_games.
type OwnedGamesResult struct {
	OwnedGames []Game `json:"owned_games"`
}

// NoParams accepts absent params or any object, which the host sends
// interchangeably for parameterless methods.
type NoParams struct{}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

func identityResult(id stadia.Identity) *AuthResult {
	return &AuthResult{UserID: id.UserID, UserName: id.UserName}
}

func authResult(r stadia.AuthResult) *AuthResult {
	if r.Identity != nil {
		return identityResult(*r.Identity)
	}
	d := r.Login
	return &AuthResult{
		NextStep: d.Kind,
		AuthParams: &AuthParams{
			WindowTitle:  d.WindowTitle,
			WindowWidth:  d.WindowWidth,
			WindowHeight: d.WindowHeight,
			StartURI:     d.StartURI,
			EndURIRegex:  d.EndURIRegex,
		},
	}
}

func hostCookies(cs []Cookie) []stadia.HostCookie {
	out := make([]stadia.HostCookie, 0, len(cs))
	for _, c := range cs {
		out = append(out, stadia.HostCookie{Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path})
	}
	return out
}

func ownedGames(titles []stadia.Title) *OwnedGamesResult {
	games := make([]Game, 0, len(titles))
	for _, t := range titles {
		games = append(games, Game{
			GameID:      t.ID,
			GameTitle:   t.Name,
			DLCs:        []DLC{},
			LicenseInfo: LicenseInfo{LicenseType: string(t.License)},
		})
	}
	return &OwnedGamesResult{OwnedGames: games}
}
