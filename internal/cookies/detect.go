package cookies

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"
)

// browserSpec lists where one browser keeps its default profile cookies.
type browserSpec struct {
	Name string
	// CookiePaths are direct candidates for Chromium family browsers.
	CookiePaths []string
	// ProfilesIniPaths are profiles.ini candidates for Firefox family browsers.
	ProfilesIniPaths []string
}

// chromium builds a spec for a Chromium family browser rooted at the given
// "Default" profile directory.
func chromium(name, profileDir string) browserSpec {
	return browserSpec{
		Name: name,
		CookiePaths: []string{
			filepath.Join(profileDir, "Network", "Cookies"),
			filepath.Join(profileDir, "Cookies"),
		},
	}
}

// defaultProfile resolves the default profile directory from a Firefox style
// profiles.ini. An [Install*] Default= entry wins over a [Profile*] section
// with Default=1. Missing or unreadable files yield "".
func (im *Importer) defaultProfile(iniPath string) string {
	f, err := im.FS.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	iniDir := filepath.Dir(iniPath)
	var (
		installDefault, profileDefault string
		section, path                  string
		isDefault                      bool
	)
	flush := func() {
		if strings.HasPrefix(section, "Profile") && isDefault && profileDefault == "" {
			profileDefault = path
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			flush()
			section = strings.Trim(line, "[]")
			path, isDefault = "", false
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case strings.HasPrefix(section, "Install") && k == "Default" && installDefault == "":
			installDefault = filepath.Join(iniDir, filepath.FromSlash(v))
		case strings.HasPrefix(section, "Profile") && k == "Path":
			path = filepath.Join(iniDir, filepath.FromSlash(v))
		case strings.HasPrefix(section, "Profile") && k == "Default" && v == "1":
			isDefault = true
		}
	}
	flush()

	if installDefault != "" {
		return installDefault
	}
	return profileDefault
}

// candidates expands specs into cookie store paths that exist, in order.
func (im *Importer) candidates(specs []browserSpec) []browserCandidate {
	var out []browserCandidate
	exists := func(p string) bool {
		_, err := im.FS.Stat(p)
		return err == nil
	}
	for _, spec := range specs {
		for _, ini := range spec.ProfilesIniPaths {
			if dir := im.defaultProfile(ini); dir != "" {
				if p := filepath.Join(dir, "cookies.sqlite"); exists(p) {
					out = append(out, browserCandidate{spec.Name, p})
				}
			}
		}
		for _, p := range spec.CookiePaths {
			if exists(p) {
				out = append(out, browserCandidate{spec.Name, p})
			}
		}
	}
	return out
}

type browserCandidate struct {
	browser string
	path    string
}

func (im *Importer) detectWithSpecs(domain string, specs []browserSpec) ([]Cookie, *Source, error) {
	for _, c := range im.candidates(specs) {
		cs, src, err := im.Import(c.path, domain)
		if err != nil {
			im.Log.Debug("skipping %s store %s: %v", c.browser, c.path, err)
			continue
		}
		src.Browser = c.browser
		return cs, src, nil
	}
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return nil, nil, fmt.Errorf("no supported browser cookie store found (tried %s)", strings.Join(names, ", "))
}

// Detect scans the default profiles of known browsers and imports from the
// first readable store. Firefox family browsers are tried before Chromium
// family ones.
func (im *Importer) Detect(domain string) ([]Cookie, *Source, error) {
	return im.detectWithSpecs(domain, browserSpecs())
}
