package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const schemaResourceURI = "askdb://schema"

// registerResources adds MCP resource definitions to the server. Resources
// provide read-only data that LLM clients can load into their context.
func (s *MCPServer) registerResources(srv *server.MCPServer) {

	// -------------------------------------------------------------------
	// askdb://schema — CREATE TABLE statements for the sales database
	// -------------------------------------------------------------------
	srv.AddResource(
		mcp.NewResource(
			schemaResourceURI,
			"Sales Database Schema",
			mcp.WithResourceDescription(
				"The CREATE TABLE statements for the sales database. This is the "+
					"same schema text the agent is prompted with when generating SQL.",
			),
			mcp.WithMIMEType("text/plain"),
		),
		s.handleSchemaResource,
	)
}

// handleSchemaResource returns the DDL for every user table.
func (s *MCPServer) handleSchemaResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	ddl, err := s.store.SchemaDDL(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      schemaResourceURI,
			MIMEType: "text/plain",
			Text:     ddl,
		},
	}, nil
}
