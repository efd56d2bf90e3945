package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/store"
)

// newLogger builds the shared text logger. Logs go to stderr so stdout stays
// clean for command output and the MCP stdio transport.
func newLogger(dev bool) *slog.Logger {
	level := slog.LevelInfo
	if dev {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// bootstrapStore opens the sales database from the configured URL, ensures
// the schema, and seeds it when empty. Returns the store and the number of
// sale rows inserted (zero when the database was already populated).
func bootstrapStore(ctx context.Context, cfg config.Config) (*store.Store, int, error) {
	path, err := store.PathFromURL(cfg.Database.URL)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve database path: %w", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, 0, err
	}

	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, 0, err
	}

	inserted, err := st.SeedIfEmpty(ctx)
	if err != nil {
		st.Close()
		return nil, 0, fmt.Errorf("seed database: %w", err)
	}

	return st, inserted, nil
}

// promptAPIKey reads an API key from the terminal without echoing it.
// Returns an empty string when stdin is not a terminal.
func promptAPIKey() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}

	fmt.Fprint(os.Stderr, "OpenAI API key: ")
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read api key: %w", err)
	}
	return strings.TrimSpace(string(keyBytes)), nil
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
