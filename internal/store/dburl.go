package store

import (
	"errors"
	"fmt"
	"strings"
)

// PathFromURL extracts the filesystem path from a database URL of the form
// scheme:///path. Three slashes after the scheme introduce a relative path
// (sqlite:///./data/sales.db -> ./data/sales.db, sqlite:///sales.db ->
// ./sales.db), four an absolute one (sqlite:////var/db/sales.db ->
// /var/db/sales.db). A value without a scheme separator is treated as a
// plain filesystem path. The scheme itself is not validated.
func PathFromURL(raw string) (string, error) {
	i := strings.Index(raw, "://")
	if i < 0 {
		if raw == "" {
			return "", errors.New("empty database path")
		}
		return raw, nil
	}

	path := strings.TrimPrefix(raw[i+len("://"):], "/")
	if path == "" {
		return "", fmt.Errorf("database url %q has no path", raw)
	}
	if path == ":memory:" {
		return path, nil
	}
	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "./") && !strings.HasPrefix(path, "../") {
		path = "./" + path
	}
	return path, nil
}
