//go:build unix

package cookies

import (
	"os"
	"path/filepath"
	"runtime"
)

func browserSpecsForHome(home string, darwin bool) []browserSpec {
	if darwin {
		support := filepath.Join(home, "Library", "Application Support")
		return []browserSpec{
			{Name: "Firefox", ProfilesIniPaths: []string{filepath.Join(support, "Firefox", "profiles.ini")}},
			{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(support, "librewolf", "profiles.ini")}},
			chromium("Chrome", filepath.Join(support, "Google", "Chrome", "Default")),
			chromium("Chromium", filepath.Join(support, "Chromium", "Default")),
			chromium("Edge", filepath.Join(support, "Microsoft Edge", "Default")),
			chromium("Brave", filepath.Join(support, "BraveSoftware", "Brave-Browser", "Default")),
		}
	}
	config := filepath.Join(home, ".config")
	return []browserSpec{
		{Name: "Firefox", ProfilesIniPaths: []string{
			filepath.Join(home, ".mozilla", "firefox", "profiles.ini"),
			filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
		}},
		{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(home, ".librewolf", "profiles.ini")}},
		chromium("Chrome", filepath.Join(config, "google-chrome", "Default")),
		chromium("Chromium", filepath.Join(config, "chromium", "Default")),
		chromium("Edge", filepath.Join(config, "microsoft-edge", "Default")),
		chromium("Brave", filepath.Join(config, "BraveSoftware", "Brave-Browser", "Default")),
	}
}

func browserSpecs() []browserSpec {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return browserSpecsForHome(home, runtime.GOOS == "darwin")
}
