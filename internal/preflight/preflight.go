package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const sqliteScheme = "sqlite://"

// ErrInvalidTOML is returned when the config file exists but does not parse
var ErrInvalidTOML = errors.New("config file is not valid TOML")

// CheckConfigFile parses the proxy configuration file as TOML when it exists.
// A missing file is not an error, the proxy falls back to its own defaults.
func CheckConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("%w: line %d, column %d: %w", ErrInvalidTOML, row, col, err)
		}
		return fmt.Errorf("%w: %w", ErrInvalidTOML, err)
	}
	return nil
}

// SQLitePath extracts the database file path from a sqlite:// URL.
// It returns false for any other scheme or for in-memory databases.
func SQLitePath(databaseURL string) (string, bool) {
	rest, ok := strings.CutPrefix(databaseURL, sqliteScheme)
	if !ok {
		return "", false
	}
	rest, _, _ = strings.Cut(rest, "?")
	if rest == "" || rest == ":memory:" {
		return "", false
	}
	return rest, true
}

// CheckDatabaseURL reports a sqlite database living in a directory that
// does not exist, which usually means the data volume was not mounted.
// Other schemes are not checked.
func CheckDatabaseURL(databaseURL string) error {
	path, ok := SQLitePath(databaseURL)
	if !ok {
		return nil
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("database directory %q is unavailable, check the data volume mount: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("database directory %q is not a directory", dir)
	}
	return nil
}
