package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// SessionResponse is the JSON representation of the session endpoint.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// CostumeResponse is the JSON representation of a costume.
type CostumeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Era         string `json:"era"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// toCostumeResponse converts a domain Costume to its JSON response representation.
func toCostumeResponse(c model.Costume) CostumeResponse {
	return CostumeResponse{
		ID:          c.ID,
		Name:        c.Name,
		Category:    c.Category,
		Size:        c.Size,
		Color:       c.Color,
		Era:         c.Era,
		Quantity:    c.Quantity,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
