// Package openapi generates the OpenAPI 3 description of the HTTP API.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Document builds the OpenAPI document for the askdb HTTP API. The route
// table is fixed, so the document is assembled statically.
func Document(version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "AskDB API",
			Description: "Ask natural-language questions about the sales database and get answers backed by generated SQL.",
			Version:     version,
		},
		Servers: openapi3.Servers{
			{URL: "/"},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	doc.Components = &components

	registerSchemas(doc)

	doc.Paths = openapi3.NewPaths()
	addMetaPaths(doc)
	addQueryPath(doc)
	addConfigPaths(doc)

	return doc
}

// ─── Component Schemas ──────────────────────────────────────────────────────

func registerSchemas(doc *openapi3.T) {
	doc.Components.Schemas["QueryRequest"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:     &openapi3.Types{"object"},
			Required: []string{"query"},
			Properties: openapi3.Schemas{
				"query": &openapi3.SchemaRef{Value: &openapi3.Schema{
					Type:        &openapi3.Types{"string"},
					Description: "Natural-language question about the sales data.",
				}},
			},
		},
	}

	doc.Components.Schemas["QueryStep"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"tool":        &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"input":       &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"observation": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			},
		},
	}

	doc.Components.Schemas["QueryResponse"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"success": &openapi3.SchemaRef{Value: &openapi3.Schema{
					Type:        &openapi3.Types{"boolean"},
					Description: "Whether the agent produced an answer.",
				}},
				"result": &openapi3.SchemaRef{Value: &openapi3.Schema{
					Type:        &openapi3.Types{"string"},
					Nullable:    true,
					Description: "The answer text, null when success is false.",
				}},
				"error": &openapi3.SchemaRef{Value: &openapi3.Schema{
					Type:        &openapi3.Types{"string"},
					Description: "Failure reason, present when success is false.",
				}},
				"steps": &openapi3.SchemaRef{Value: &openapi3.Schema{
					Type:        &openapi3.Types{"array"},
					Items:       openapi3.NewSchemaRef("#/components/schemas/QueryStep", nil),
					Description: "Intermediate agent steps, in execution order.",
				}},
			},
		},
	}

	doc.Components.Schemas["ErrorResponse"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"code":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
							"message": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
							"context": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
						},
					},
				},
			},
		},
	}

	doc.Components.Schemas["ServiceInfo"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"name":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"version": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"status":  &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			},
		},
	}

	doc.Components.Schemas["ReadyStatus"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"status":      &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"agent_ready": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}},
				"database":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			},
		},
	}

	doc.Components.Schemas["ConfigInfo"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"database_url":   &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"database_path":  &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"provider":       &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"model":          &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"temperature":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}, Format: "double"}},
				"api_key_masked": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"base_url":       &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"cors_origins": &openapi3.SchemaRef{Value: &openapi3.Schema{
					Type:  &openapi3.Types{"array"},
					Items: &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
				}},
			},
		},
	}

	doc.Components.Schemas["StatsSnapshot"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"instance_id":       &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"uptime_seconds":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}, Format: "double"}},
				"queries_total":     &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}},
				"failures_total":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}},
				"sales_people_rows": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}},
				"sales_rows":        &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}},
			},
		},
	}
}

// ─── Paths ──────────────────────────────────────────────────────────────────

func addMetaPaths(doc *openapi3.T) {
	doc.Paths.Set("/", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"meta"},
			Summary:     "Service identity",
			OperationID: "get_root",
			Responses: okResponse("Service name, version, and status",
				openapi3.NewSchemaRef("#/components/schemas/ServiceInfo", nil)),
		},
	})

	doc.Paths.Set("/healthz", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"meta"},
			Summary:     "Liveness probe",
			OperationID: "get_healthz",
			Responses: okResponse("Process is running", &openapi3.SchemaRef{
				Value: &openapi3.Schema{
					Type: &openapi3.Types{"object"},
					Properties: openapi3.Schemas{
						"status": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
					},
				},
			}),
		},
	})

	readyRef := openapi3.NewSchemaRef("#/components/schemas/ReadyStatus", nil)
	readyResponses := okResponse("Agent bound and database reachable", readyRef)
	notReadyDesc := "Agent not bound or database unreachable"
	readyResponses.Set("503", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &notReadyDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(readyRef),
		},
	})
	doc.Paths.Set("/readyz", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"meta"},
			Summary:     "Readiness probe",
			OperationID: "get_readyz",
			Responses:   readyResponses,
		},
	})
}

func addQueryPath(doc *openapi3.T) {
	reqRef := openapi3.NewSchemaRef("#/components/schemas/QueryRequest", nil)
	respRef := openapi3.NewSchemaRef("#/components/schemas/QueryResponse", nil)
	errRef := openapi3.NewSchemaRef("#/components/schemas/ErrorResponse", nil)

	responses := okResponse("Envelope for every agent outcome, success or failure", respRef)

	badReqDesc := "Malformed body or blank query"
	responses.Set("400", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &badReqDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(errRef),
		},
	})
	limitedDesc := "Rate limit exceeded"
	responses.Set("429", &openapi3.ResponseRef{
		Value: &openapi3.Response{Description: &limitedDesc},
	})
	notReadyDesc := "Agent not initialized yet"
	responses.Set("503", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &notReadyDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(errRef),
		},
	})

	doc.Paths.Set("/api/v1/query", &openapi3.PathItem{
		Post: &openapi3.Operation{
			Tags:        []string{"query"},
			Summary:     "Ask a question",
			Description: "Run one natural-language question through the SQL agent. Agent failures are reported inside the 200 envelope, not as HTTP errors.",
			OperationID: "post_query",
			RequestBody: &openapi3.RequestBodyRef{
				Value: &openapi3.RequestBody{
					Required: true,
					Content:  openapi3.NewContentWithJSONSchemaRef(reqRef),
				},
			},
			Responses: responses,
		},
	})
}

func addConfigPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/config", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"meta"},
			Summary:     "Effective configuration",
			Description: "Non-secret configuration with the API key masked.",
			OperationID: "get_config",
			Responses: okResponse("Effective configuration",
				openapi3.NewSchemaRef("#/components/schemas/ConfigInfo", nil)),
		},
	})

	doc.Paths.Set("/api/v1/debug/env", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"meta"},
			Summary:     "Credential presence and resolved paths",
			OperationID: "get_debug_env",
			Responses: okResponse("Masked environment summary", &openapi3.SchemaRef{
				Value: &openapi3.Schema{Type: &openapi3.Types{"object"}},
			}),
		},
	})

	doc.Paths.Set("/api/v1/stats", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"meta"},
			Summary:     "Usage counters",
			OperationID: "get_stats",
			Responses: okResponse("Counters snapshot",
				openapi3.NewSchemaRef("#/components/schemas/StatsSnapshot", nil)),
		},
	})
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// okResponse builds a Responses map with a single 200 response.
func okResponse(description string, schema *openapi3.SchemaRef) *openapi3.Responses {
	responses := openapi3.NewResponses()
	desc := description
	responses.Set("200", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &desc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})
	return responses
}
