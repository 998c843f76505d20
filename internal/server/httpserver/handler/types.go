package handler

// Status values used in response bodies.
const (
	StatusSuccess = "SUCCESS"
	StatusFail    = "FAIL"
	StatusOK      = "OK"
)

// AuthRequest is the request body for POST /api/auth.
type AuthRequest struct {
	Password string `json:"password"`
}

// AuthResponse is the response body for POST /api/auth.
type AuthResponse struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

// PutRequest is the request body for POST /api/put.
type PutRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// StatusResponse carries a status and a human readable message.
type StatusResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// GetResponse is the response body for GET /api/get.
type GetResponse struct {
	Value string `json:"value"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	Namespaces int    `json:"namespaces,omitempty"`
}
