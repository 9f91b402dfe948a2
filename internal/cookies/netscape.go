package cookies

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const httpOnlyPrefix = "#HttpOnly_"

// parseNetscape reads a cookies.txt file. Comment lines are skipped except
// for the #HttpOnly_ marker; malformed lines are skipped with a warning that
// carries the line number only.
func (im *Importer) parseNetscape(path, domain string) ([]Cookie, error) {
	f, err := im.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open Netscape cookie file: %w", err)
	}
	defer f.Close()

	now := time.Now()
	var cookies []Cookie
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		httpOnly := strings.HasPrefix(line, httpOnlyPrefix)
		if httpOnly {
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			im.Log.Warning("skipping malformed cookie on line %d of %s", lineNo, path)
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			im.Log.Warning("skipping cookie with invalid expiry on line %d of %s", lineNo, path)
			continue
		}
		if !matchesDomain(fields[0], domain) {
			continue
		}
		// Zero expiry marks a session cookie.
		if expiry > 0 && time.Unix(expiry, 0).Before(now) {
			continue
		}
		cookies = append(cookies, Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Expiry:   time.Unix(expiry, 0),
			Name:     fields[5],
			Value:    fields[6],
			HttpOnly: httpOnly,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Netscape cookie file: %w", err)
	}
	return cookies, nil
}

// matchesDomain accepts domain itself, its dotted form and any subdomain.
func matchesDomain(cookieDomain, domain string) bool {
	dotted := "." + domain
	return cookieDomain == domain || cookieDomain == dotted || strings.HasSuffix(cookieDomain, dotted)
}
