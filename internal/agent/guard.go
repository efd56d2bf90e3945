package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ExtractSQL pulls the first SQL statement out of model output that may be
// wrapped in markdown fences or surrounded by prose. Only the text up to the
// first semicolon survives. Input with no recognizable statement is returned
// trimmed, so the caller's read-only check can report what the model said.
func ExtractSQL(raw string) string {
	sql := strings.TrimSpace(raw)
	if i := strings.Index(sql, "```"); i >= 0 {
		sql = sql[i+3:]
		sql = strings.TrimPrefix(sql, "sql")
		if j := strings.Index(sql, "```"); j >= 0 {
			sql = sql[:j]
		}
	}
	sql = strings.TrimSpace(sql)

	lower := strings.ToLower(sql)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		if i := firstIndexAny(lower, "select", "with"); i >= 0 {
			sql = sql[i:]
		}
	}
	if i := strings.Index(sql, ";"); i >= 0 {
		sql = sql[:i]
	}
	return strings.TrimSpace(sql)
}

// CheckReadOnly validates that sql is a single read-only statement and
// returns it trimmed, without a trailing semicolon. Multi-statement input
// and anything that is not a SELECT (or WITH ... SELECT) is rejected. Every
// statement the agent or the MCP query tool executes passes through here.
func CheckReadOnly(sql string) (string, error) {
	sql = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
	if sql == "" {
		return "", errors.New("empty SQL statement")
	}
	if strings.Contains(sql, ";") {
		return "", errors.New("multiple SQL statements are not allowed")
	}
	lower := strings.ToLower(sql)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return "", fmt.Errorf("only SELECT queries are allowed, got %q", firstWord(sql))
	}
	return sql, nil
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return s
}

func firstIndexAny(s string, subs ...string) int {
	best := -1
	for _, sub := range subs {
		if i := strings.Index(s, sub); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}
