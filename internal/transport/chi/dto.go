package chi

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeInvalidQuery       ErrorCode = "invalid_query"
	ErrorCodeIndexNotFound      ErrorCode = "index_not_found"
	ErrorCodeIndexAlreadyExists ErrorCode = "index_already_exists"
	ErrorCodeDocumentNotFound   ErrorCode = "document_not_found"
	ErrorCodeBackendError       ErrorCode = "backend_error"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SuggestionResponse is returned by GET /suggestions/{index}.
type SuggestionResponse struct {
	Query string           `json:"query"`
	Items []SuggestionItem `json:"items"`
	Total int              `json:"total"`
}

// SuggestionItem is one suggestion.
type SuggestionItem struct {
	ID     string            `json:"id"`
	Score  float64           `json:"score"`
	Fields map[string]string `json:"fields,omitempty"`
}

// FieldDefinition describes one indexed field.
type FieldDefinition struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateIndexRequest is the body of PUT /indexes/{index}.
type CreateIndexRequest struct {
	Fields []FieldDefinition `json:"fields"`
}

// IndexResponse describes a suggestion index.
type IndexResponse struct {
	Name      string            `json:"name"`
	Base      string            `json:"base"`
	Fields    []FieldDefinition `json:"fields,omitempty"`
	Exists    *bool             `json:"exists,omitempty"`
	Documents *int              `json:"documents,omitempty"`
}

// DocumentItem is one document of an upsert request.
type DocumentItem struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// UpsertDocumentsRequest is the body of POST /indexes/{index}/documents.
type UpsertDocumentsRequest struct {
	Documents []DocumentItem `json:"documents"`
}

// UpsertDocumentsResponse reports how many documents were stored.
type UpsertDocumentsResponse struct {
	Stored int `json:"stored"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
