package stadia

import (
	"html"
	"regexp"
	"strings"
)

// Markup pulls the pieces the plugin needs out of the home page. All knowledge
// of the page's class names and localized labels lives behind this interface,
// so markup drift is fixed in one implementation rather than at call sites.
type Markup interface {
	// Identity returns the signed-in account, or an identity with both fields
	// set to "unknown" when the page does not match. It never fails.
	Identity(page []byte) Identity
	// Titles returns the cleaned names of the library tiles in page order.
	Titles(page []byte) []string
	// LastPlayed returns the cleaned name of the "last played" tile.
	LastPlayed(page []byte) (string, bool)
}

// Class signatures and localized affordances used by the German home page.
const (
	profileNameClass  = "VY8blf fSorq"
	profileIDClass    = "gI3hkd"
	titleTileClass    = "GqLi4d QAAyWd qu6XL"
	lastPlayedClass   = "Rt8Z2e qRvogc QAAyWd"
	lastPlayedMarker  = " Spielen"
	titleLabelPattern = ` ansehen.?$`
)

var titleLabelSuffix = regexp.MustCompile(titleLabelPattern)

// cleanTitleLabel strips the trailing "watch" affordance from a tile label.
// The page sometimes follows it with a single punctuation character.
func cleanTitleLabel(label string) string {
	return titleLabelSuffix.ReplaceAllString(label, "")
}

// cleanLastPlayedLabel keeps everything before the "play" affordance.
func cleanLastPlayedLabel(label string) string {
	name, _, _ := strings.Cut(label, lastPlayedMarker)
	return name
}

// RegexMarkup matches the page with regular expressions, the way the page has
// always been scraped. It is the default Markup.
type RegexMarkup struct {
	identity   *regexp.Regexp
	titles     *regexp.Regexp
	lastPlayed *regexp.Regexp
}

// NewRegexMarkup compiles the home page patterns.
func NewRegexMarkup() *RegexMarkup {
	return &RegexMarkup{
		identity: regexp.MustCompile(
			`<span class="` + profileNameClass + `">(.*?)</span>.*<div class="` + profileIDClass + `">(.*?)</div>`,
		),
		titles:     regexp.MustCompile(`class="` + titleTileClass + `"[^>]*aria-label="(.*?)"`),
		lastPlayed: regexp.MustCompile(`class="` + lastPlayedClass + `" aria-label="(.*?)"`),
	}
}

func (m *RegexMarkup) Identity(page []byte) Identity {
	groups := m.identity.FindSubmatch(page)
	if groups == nil {
		return unknownIdentity
	}
	return Identity{
		UserName: html.UnescapeString(string(groups[1])),
		UserID:   html.UnescapeString(string(groups[2])),
	}
}

func (m *RegexMarkup) Titles(page []byte) []string {
	matches := m.titles.FindAllSubmatch(page, -1)
	names := make([]string, 0, len(matches))
	for _, groups := range matches {
		names = append(names, cleanTitleLabel(html.UnescapeString(string(groups[1]))))
	}
	return names
}

func (m *RegexMarkup) LastPlayed(page []byte) (string, bool) {
	groups := m.lastPlayed.FindSubmatch(page)
	if groups == nil {
		return "", false
	}
	return cleanLastPlayedLabel(html.UnescapeString(string(groups[1]))), true
}

var _ Markup = (*RegexMarkup)(nil)
