package cookies

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/warpdl/stadia-galaxy/pkg/logger"
)

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

var netscapeHeaders = [][]byte{
	[]byte("# Netscape HTTP Cookie File"),
	[]byte("# HTTP Cookie File"),
}

// Importer reads cookie stores from FS. SQLite stores are copied to the OS
// temp directory first because the browser may hold a lock on the original
// and the driver needs a real path.
type Importer struct {
	FS  afero.Fs
	Log logger.Logger
}

// NewImporter returns an Importer over the real filesystem.
func NewImporter(log logger.Logger) *Importer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Importer{FS: afero.NewOsFs(), Log: log}
}

// DetectFormat sniffs the store at path. SQLite files are reported as
// FormatSQLite; which browser wrote them is only known once the schema is read.
func (im *Importer) DetectFormat(path string) (Format, error) {
	info, err := im.FS.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("cookie file not found: %s", path)
	}
	if info.IsDir() {
		return FormatUnknown, fmt.Errorf("%s is a directory, expected a cookie file path or 'auto'", path)
	}
	if info.Size() == 0 {
		return FormatUnknown, fmt.Errorf("cookie file at %s is empty", path)
	}

	f, err := im.FS.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open cookie file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("cannot read cookie file: %w", err)
	}
	head = head[:n]

	if bytes.HasPrefix(head, sqliteMagic) {
		return FormatSQLite, nil
	}
	firstLine, _, _ := bytes.Cut(head, []byte("\n"))
	firstLine = bytes.TrimRight(firstLine, "\r")
	for _, h := range netscapeHeaders {
		if bytes.Equal(firstLine, h) {
			return FormatNetscape, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unsupported cookie store at %s", path)
}

// Import reads the cookies for domain and its subdomains from the store at
// path.
func (im *Importer) Import(path, domain string) ([]Cookie, *Source, error) {
	format, err := im.DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}

	var cs []Cookie
	if format == FormatSQLite {
		cs, format, err = im.importSQLite(path, domain)
	} else {
		cs, err = im.parseNetscape(path, domain)
	}
	if err != nil {
		return nil, nil, err
	}
	im.Log.Debug("imported %d cookie(s) for %s from %s store: %v", len(cs), domain, format, Names(cs))
	return cs, &Source{Path: path, Format: format, Browser: browserName(format)}, nil
}

func browserName(f Format) string {
	switch f {
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	case FormatNetscape:
		return "Netscape"
	}
	return ""
}

func (im *Importer) importSQLite(path, domain string) ([]Cookie, Format, error) {
	dir, cleanup, err := im.safeCopy(path)
	if err != nil {
		return nil, FormatUnknown, err
	}
	defer cleanup()
	return readSQLite(filepath.Join(dir, filepath.Base(path)), domain)
}

// safeCopy copies a SQLite store and its -wal and -shm companions into a
// fresh OS temp directory. The caller must run cleanup.
func (im *Importer) safeCopy(src string) (string, func(), error) {
	osFs := afero.NewOsFs()
	dir, err := afero.TempDir(osFs, "", "stadia-cookies-*")
	if err != nil {
		return "", nil, fmt.Errorf("cannot create temp directory: %w", err)
	}
	cleanup := func() { osFs.RemoveAll(dir) }

	base := filepath.Base(src)
	if err := copyFile(im.FS, src, osFs, filepath.Join(dir, base)); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := im.FS.Stat(src + suffix); err == nil {
			_ = copyFile(im.FS, src+suffix, osFs, filepath.Join(dir, base+suffix))
		}
	}
	return dir, cleanup, nil
}

func copyFile(srcFs afero.Fs, src string, dstFs afero.Fs, dst string) error {
	in, err := srcFs.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", src, err)
	}
	defer in.Close()

	out, err := dstFs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("cannot copy %s: %w", src, err)
	}
	return out.Close()
}
