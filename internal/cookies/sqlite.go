package cookies

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// chromeEpochOffset is the number of seconds between 1601-01-01 and the Unix
// epoch. Chrome stores expiry as microseconds since the former.
const chromeEpochOffset int64 = 11_644_473_600

// sqliteSchema describes how one browser lays out its cookie table.
type sqliteSchema struct {
	format Format
	table  string
	query  string
	// toUnix converts the stored expiry into Unix seconds.
	toUnix func(int64) int64
	// fromUnix converts Unix seconds into the stored expiry unit.
	fromUnix func(int64) int64
}

func identity(v int64) int64 { return v }

var sqliteSchemas = []sqliteSchema{
	{
		format: FormatFirefox,
		table:  "moz_cookies",
		query: `SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        WHERE (host = ? OR host = ? OR host LIKE ?) AND expiry > ?
        ORDER BY path DESC, name ASC`,
		toUnix:   identity,
		fromUnix: identity,
	},
	{
		// Only unencrypted values are readable. Recent Chrome builds keep
		// everything in encrypted_value, so those rows are skipped.
		format: FormatChrome,
		table:  "cookies",
		query: `SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE (host_key = ? OR host_key = ? OR host_key LIKE ?) AND value != '' AND expires_utc > ?
        ORDER BY path DESC, name ASC`,
		toUnix:   func(us int64) int64 { return us/1_000_000 - chromeEpochOffset },
		fromUnix: func(s int64) int64 { return (s + chromeEpochOffset) * 1_000_000 },
	},
}

// readSQLite opens a copied store read only, works out which browser wrote
// it and returns the live cookies for domain and its subdomains.
func readSQLite(dbPath, domain string) ([]Cookie, Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("cannot open cookie database: %w", err)
	}
	defer db.Close()

	for _, s := range sqliteSchemas {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, s.table).Scan(&name)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, FormatUnknown, fmt.Errorf("cannot read cookie database schema: %w", err)
		}
		cs, err := queryCookies(db, s, domain)
		return cs, s.format, err
	}
	return nil, FormatUnknown, fmt.Errorf("unsupported cookie database schema at %s", dbPath)
}

func queryCookies(db *sql.DB, s sqliteSchema, domain string) ([]Cookie, error) {
	now := s.fromUnix(time.Now().Unix())
	rows, err := db.Query(s.query, domain, "."+domain, "%."+domain, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s cookies: %w", s.format, err)
	}
	defer rows.Close()

	var cookies []Cookie
	for rows.Next() {
		var (
			c                Cookie
			expiry           int64
			secure, httpOnly int
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Domain, &c.Path, &expiry, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan %s cookie row: %w", s.format, err)
		}
		c.Expiry = time.Unix(s.toUnix(expiry), 0)
		c.Secure = secure != 0
		c.HttpOnly = httpOnly != 0
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s cookie rows: %w", s.format, err)
	}
	return cookies, nil
}
