package web

import "time"

// StateResponse is the GET /api/state payload.
type StateResponse struct {
	Phase        string    `json:"phase"`
	Status       string    `json:"status"`
	LoadRequests int       `json:"load_requests"`
	Error        string    `json:"error,omitempty"`
	EntryCount   int       `json:"entry_count"`
	StartedAt    time.Time `json:"started_at"`
	Revision     int64     `json:"revision"`
	LiveClients  int       `json:"live_clients"`
}

type healthResponse struct {
	Status string `json:"status"`
}
