package costumeapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

type loginResponse struct {
	Token string `json:"token"`
}

// flexibleID decodes a JSON number or string into its string form.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// costumeJSON is the wire shape of a costume returned by the backend.
type costumeJSON struct {
	ID          flexibleID `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Size        string     `json:"size"`
	Color       string     `json:"color"`
	Era         string     `json:"era"`
	Quantity    int        `json:"quantity"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

// costumeBody is the wire shape sent on create and update.
type costumeBody struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Era         string `json:"era"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

func newCostumeBody(in model.CostumeInput) costumeBody {
	return costumeBody{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Size:        strings.TrimSpace(in.Size),
		Color:       strings.TrimSpace(in.Color),
		Era:         strings.TrimSpace(in.Era),
		Quantity:    in.Quantity,
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
}

// mapCostume converts the wire shape to the domain model. Unparseable
// timestamps are left zero.
func mapCostume(d costumeJSON) model.Costume {
	return model.Costume{
		ID:          string(d.ID),
		Name:        d.Name,
		Category:    d.Category,
		Size:        d.Size,
		Color:       d.Color,
		Era:         d.Era,
		Quantity:    d.Quantity,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		CreatedAt:   parseTimestamp(d.CreatedAt),
		UpdatedAt:   parseTimestamp(d.UpdatedAt),
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	// Epoch milliseconds.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
