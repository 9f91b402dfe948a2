//go:build windows

package cookies

import (
	"os"
	"path/filepath"
)

func browserSpecsForEnv(localAppData, appData string) []browserSpec {
	return []browserSpec{
		{Name: "Firefox", ProfilesIniPaths: []string{filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini")}},
		{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(appData, "LibreWolf", "profiles.ini")}},
		chromium("Chrome", filepath.Join(localAppData, "Google", "Chrome", "User Data", "Default")),
		chromium("Chromium", filepath.Join(localAppData, "Chromium", "User Data", "Default")),
		chromium("Edge", filepath.Join(localAppData, "Microsoft", "Edge", "User Data", "Default")),
		chromium("Brave", filepath.Join(localAppData, "BraveSoftware", "Brave-Browser", "User Data", "Default")),
	}
}

func browserSpecs() []browserSpec {
	return browserSpecsForEnv(os.Getenv("LOCALAPPDATA"), os.Getenv("APPDATA"))
}
