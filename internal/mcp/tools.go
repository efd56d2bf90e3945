package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/askdb/askdb/internal/agent"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/store"
)

// registerTools registers all AskDB MCP tools on the given server.
func (s *MCPServer) registerTools(srv *server.MCPServer) {

	// ----- Natural-language tool -----

	srv.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription(
				"Ask a natural-language question about the sales database. The question "+
					"is translated to SQL, executed, and answered in plain language. The "+
					"result includes the intermediate steps (generated SQL, query results) "+
					"so you can verify how the answer was produced.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("question",
				mcp.Required(),
				mcp.Description("The question to answer, e.g. \"Who had the highest sales last month?\""),
			),
		),
		s.handleAsk,
	)

	// ----- Discovery tools -----

	srv.AddTool(
		mcp.NewTool("list_tables",
			mcp.WithDescription(
				"List all tables in the sales database with their column names and types. "+
					"Use this to explore what data is available before writing queries.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
		),
		s.handleListTables,
	)

	srv.AddTool(
		mcp.NewTool("describe_table",
			mcp.WithDescription(
				"Get the detailed schema for a specific table, including all columns "+
					"with their types, nullability, defaults, and primary keys. Use this "+
					"to understand table structure before writing queries.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("table",
				mcp.Required(),
				mcp.Description("Name of the table to describe"),
			),
		),
		s.handleDescribeTable,
	)

	// ----- Raw SQL tool -----

	srv.AddTool(
		mcp.NewTool("run_query",
			mcp.WithDescription(
				"Execute a read-only SQL query against the sales database and return "+
					"the rows as JSON. Only single SELECT statements (including WITH ... "+
					"SELECT) are accepted; anything that writes is rejected. Use ask for "+
					"natural-language questions and this tool when you already know the SQL.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("sql",
				mcp.Required(),
				mcp.Description("SELECT statement to execute"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of rows to return (default 100, max 1000)"),
			),
		),
		s.handleRunQuery,
	)
}

// =========================================================================
// Tool handlers
// =========================================================================

// handleAsk runs a natural-language question through the query service.
func (s *MCPServer) handleAsk(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	question, err := requireString(request, "question")
	if err != nil {
		return toolError("%v", err)
	}

	resp, err := s.querySvc.Execute(ctx, question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAgentNotReady):
			return toolError("Agent not initialized yet, try again shortly.")
		case errors.Is(err, service.ErrEmptyQuery):
			return toolError("Question must not be empty.")
		default:
			return toolError("Query failed: %v", err)
		}
	}

	// The full envelope goes back so the client sees the steps even when the
	// agent reports a failure.
	return successJSON(resp)
}

// handleListTables returns all tables with a column summary per table.
func (s *MCPServer) handleListTables(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	names, err := s.store.TableNames(ctx)
	if err != nil {
		return toolError("Failed to list tables: %v", err)
	}

	type columnSummary struct {
		Name string `json:"name"`
		Type string `json:"type"`
		PK   bool   `json:"pk,omitempty"`
	}

	type tableInfo struct {
		Name    string          `json:"name"`
		Columns []columnSummary `json:"columns"`
	}

	tables := make([]tableInfo, 0, len(names))
	for _, name := range names {
		cols, err := s.store.DescribeTable(ctx, name)
		if err != nil {
			return toolError("Failed to describe table %q: %v", name, err)
		}
		summaries := make([]columnSummary, len(cols))
		for i, c := range cols {
			summaries[i] = columnSummary{
				Name: c.Name,
				Type: c.Type,
				PK:   c.PrimaryKey,
			}
		}
		tables = append(tables, tableInfo{Name: name, Columns: summaries})
	}

	return successJSON(tables)
}

// handleDescribeTable returns detailed column metadata for one table.
func (s *MCPServer) handleDescribeTable(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	table, err := requireString(request, "table")
	if err != nil {
		return toolError("%v", err)
	}

	cols, err := s.store.DescribeTable(ctx, table)
	if err != nil {
		// Provide available table names to help the client self-correct.
		names, _ := s.store.TableNames(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return toolError("Table %q not found.\n\nAvailable tables: %v", table, names)
		}
		return toolError("Failed to describe table %q: %v\n\nAvailable tables: %v", table, err, names)
	}

	return successJSON(map[string]interface{}{
		"table":   table,
		"columns": cols,
	})
}

// handleRunQuery executes a guarded read-only SQL statement.
func (s *MCPServer) handleRunQuery(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	sqlStr, err := requireString(request, "sql")
	if err != nil {
		return toolError("%v", err)
	}
	limit := clamp(optionalInt(request, "limit", 100), 1, 1000)

	stmt, err := agent.CheckReadOnly(sqlStr)
	if err != nil {
		return toolError("Rejected: %v\n\n"+
			"Only single SELECT statements are allowed. Example: "+
			"SELECT name, SUM(amount) AS total FROM sales "+
			"JOIN sales_people ON sales_people.id = sales.sales_person_id "+
			"GROUP BY name ORDER BY total DESC", err)
	}

	records, err := s.store.QueryRows(ctx, stmt, limit)
	if err != nil {
		return toolError("Query execution failed: %v\n\nSQL: %s", err, stmt)
	}

	truncated := len(records) >= limit

	result := map[string]interface{}{
		"records":   records,
		"count":     len(records),
		"truncated": truncated,
	}
	if truncated {
		result["message"] = fmt.Sprintf(
			"Results truncated at %d rows. Increase the 'limit' parameter or add a WHERE clause to narrow results.",
			limit,
		)
	}

	return successJSON(result)
}
