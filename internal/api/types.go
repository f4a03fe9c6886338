package api

// SpeechResponse represents the success payload of the speech endpoint
type SpeechResponse struct {
	AudioURL string `json:"audioUrl"`
	Cached   bool   `json:"cached"`
}

// SweepResponse represents the result of an admin-triggered eviction sweep
type SweepResponse struct {
	Removed int `json:"removed"`
}

// StatsResponse represents cache statistics for the admin surface
type StatsResponse struct {
	Artifacts  int   `json:"artifacts"`
	TotalBytes int64 `json:"total_bytes"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
