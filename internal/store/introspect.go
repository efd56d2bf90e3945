package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// identifierRegex matches bare SQL identifiers: letters, digits, and
// underscores, not starting with a digit.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Column describes one column of a user table.
type Column struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	NotNull    bool    `json:"not_null"`
	Default    *string `json:"default,omitempty"`
	PrimaryKey bool    `json:"primary_key"`
}

// tableInfoRow holds a row from PRAGMA table_info().
type tableInfoRow struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

// TableNames returns the user tables and views, excluding SQLite internals.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	const query = `SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	names := []string{}
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// SchemaDDL returns the stored CREATE statements for every user table,
// joined by blank lines. This is the schema text the agent prompts with.
func (s *Store) SchemaDDL(ctx context.Context) (string, error) {
	const query = `SELECT sql FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND sql IS NOT NULL
		ORDER BY name`

	var ddls []string
	if err := s.db.SelectContext(ctx, &ddls, query); err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	return strings.Join(ddls, ";\n\n"), nil
}

// DescribeTable returns column metadata for one table via PRAGMA table_info.
// The name is validated as a bare identifier before interpolation; PRAGMA
// does not accept bind parameters.
func (s *Store) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	if !identifierRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	var rows []tableInfoRow
	query := fmt.Sprintf(`PRAGMA table_info(%q)`, table)
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("table_info for %q: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table %s", ErrNotFound, table)
	}

	cols := make([]Column, len(rows))
	for i, r := range rows {
		cols[i] = Column{
			Name:       r.Name,
			Type:       r.Type,
			NotNull:    r.NotNull != 0,
			Default:    r.Default,
			PrimaryKey: r.PK != 0,
		}
	}
	return cols, nil
}

// QueryRows executes a single statement and returns up to limit rows as maps
// (limit <= 0 means no cap). Byte values are converted to strings so the
// result serializes cleanly as JSON. Callers are expected to run only
// guarded read-only SQL through this.
func (s *Store) QueryRows(ctx context.Context, query string, limit int) ([]map[string]interface{}, error) {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	out := []map[string]interface{}{}
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return out, nil
}
