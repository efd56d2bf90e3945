package model

// QueryRequest is the expected payload for the query endpoint.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryStep is one recorded step of the agent pipeline, in execution order.
type QueryStep struct {
	Tool        string `json:"tool"`
	Input       string `json:"input"`
	Observation string `json:"observation"`
}

// QueryResponse is the envelope returned for every agent outcome. On success
// Result holds the answer text and Steps the recorded pipeline; on failure
// Result is explicitly null and Error carries the description.
type QueryResponse struct {
	Success bool        `json:"success"`
	Result  *string     `json:"result"`
	Error   string      `json:"error,omitempty"`
	Steps   []QueryStep `json:"steps,omitempty"`
}

// SuccessResponse builds the envelope for a completed agent run.
func SuccessResponse(output string, steps []QueryStep) QueryResponse {
	return QueryResponse{Success: true, Result: &output, Steps: steps}
}

// FailureResponse builds the envelope for a failed agent run. Result stays
// nil so it serializes as JSON null.
func FailureResponse(errMsg string) QueryResponse {
	return QueryResponse{Success: false, Error: errMsg}
}

// ErrorResponse is the standard envelope for request-level errors (invalid
// input, unready service), as opposed to agent outcomes which always use
// QueryResponse.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned by the API.
type ErrorDetail struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// ServiceInfo is returned by the root endpoint.
type ServiceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// ReadyStatus is returned by the readiness probe.
type ReadyStatus struct {
	Status     string `json:"status"`
	AgentReady bool   `json:"agent_ready"`
	Database   string `json:"database"`
}

// ConfigInfo is the non-secret configuration view exposed by the API and the
// config CLI. The API key never appears here, only its masked form.
type ConfigInfo struct {
	DatabaseURL  string   `json:"database_url"`
	DatabasePath string   `json:"database_path"`
	Provider     string   `json:"llm_provider"`
	Model        string   `json:"model"`
	Temperature  float64  `json:"temperature"`
	APIKeyMasked string   `json:"api_key_masked"`
	BaseURL      string   `json:"base_url,omitempty"`
	CORSOrigins  []string `json:"cors_origins"`
}
