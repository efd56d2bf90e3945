package agent

import (
	"strings"
	"testing"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "SELECT * FROM sales", "SELECT * FROM sales"},
		{"whitespace", "  SELECT * FROM sales \n", "SELECT * FROM sales"},
		{"trailing semicolon", "SELECT * FROM sales;", "SELECT * FROM sales"},
		{"fenced", "```\nSELECT * FROM sales\n```", "SELECT * FROM sales"},
		{"fenced with language", "```sql\nSELECT * FROM sales\n```", "SELECT * FROM sales"},
		{"prose prefix", "Here is the query:\nSELECT * FROM sales", "SELECT * FROM sales"},
		{"prose prefix with fence", "Sure!\n```sql\nSELECT 1\n```", "SELECT 1"},
		{"only first statement", "SELECT 1; SELECT 2", "SELECT 1"},
		{"with clause", "WITH t AS (SELECT 1) SELECT * FROM t", "WITH t AS (SELECT 1) SELECT * FROM t"},
		{"empty", "", ""},
		{"no sql at all", "I cannot answer that.", "I cannot answer that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSQL(tt.raw); got != tt.want {
				t.Errorf("ExtractSQL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCheckReadOnly(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		want    string
		wantErr string
	}{
		{"select", "SELECT * FROM sales", "SELECT * FROM sales", ""},
		{"lowercase", "select count(*) from sales", "select count(*) from sales", ""},
		{"with clause", "WITH t AS (SELECT 1) SELECT * FROM t", "WITH t AS (SELECT 1) SELECT * FROM t", ""},
		{"trailing semicolon", "SELECT 1;", "SELECT 1", ""},
		{"empty", "", "", "empty SQL"},
		{"whitespace only", "   \n ", "", "empty SQL"},
		{"multiple statements", "SELECT 1; DROP TABLE sales", "", "multiple SQL statements"},
		{"delete", "DELETE FROM sales", "", "only SELECT"},
		{"insert", "INSERT INTO sales VALUES (1)", "", "only SELECT"},
		{"update", "UPDATE sales SET amount = 0", "", "only SELECT"},
		{"drop", "DROP TABLE sales", "", "only SELECT"},
		{"pragma", "PRAGMA table_info(sales)", "", "only SELECT"},
		{"attach", "ATTACH DATABASE 'x.db' AS x", "", "only SELECT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckReadOnly(tt.sql)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("CheckReadOnly(%q) = nil error, want error containing %q", tt.sql, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("CheckReadOnly(%q) error = %v, want containing %q", tt.sql, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckReadOnly(%q): %v", tt.sql, err)
			}
			if got != tt.want {
				t.Errorf("CheckReadOnly(%q) = %q, want %q", tt.sql, got, tt.want)
			}
		})
	}
}
