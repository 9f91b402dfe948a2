package stadia

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DOMMarkup expresses the same class signatures as exact-attribute CSS
// selectors. Unlike RegexMarkup it tolerates attribute reordering and line
// breaks inside the profile block.
type DOMMarkup struct{}

// NewDOMMarkup returns a goquery backed Markup.
func NewDOMMarkup() *DOMMarkup {
	return &DOMMarkup{}
}

func classSelector(tag, class string) string {
	return tag + `[class="` + class + `"]`
}

func (DOMMarkup) parse(page []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil
	}
	return doc
}

func (m DOMMarkup) Identity(page []byte) Identity {
	doc := m.parse(page)
	if doc == nil {
		return unknownIdentity
	}
	name := doc.Find(classSelector("span", profileNameClass)).First()
	id := doc.Find(classSelector("div", profileIDClass)).Last()
	if name.Length() == 0 || id.Length() == 0 {
		return unknownIdentity
	}
	return Identity{UserID: id.Text(), UserName: name.Text()}
}

func (m DOMMarkup) Titles(page []byte) []string {
	doc := m.parse(page)
	if doc == nil {
		return nil
	}
	var names []string
	doc.Find(classSelector("", titleTileClass) + "[aria-label]").Each(func(_ int, s *goquery.Selection) {
		names = append(names, cleanTitleLabel(s.AttrOr("aria-label", "")))
	})
	return names
}

func (m DOMMarkup) LastPlayed(page []byte) (string, bool) {
	doc := m.parse(page)
	if doc == nil {
		return "", false
	}
	label, ok := doc.Find(classSelector("", lastPlayedClass) + "[aria-label]").First().Attr("aria-label")
	if !ok {
		return "", false
	}
	return cleanLastPlayedLabel(label), true
}

var _ Markup = DOMMarkup{}

// MarkupByName resolves the --markup flag value. Unknown names fall back to
// the regex implementation.
func MarkupByName(name string) Markup {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dom", "goquery":
		return NewDOMMarkup()
	default:
		return NewRegexMarkup()
	}
}
