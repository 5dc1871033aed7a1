// Package costumeapi implements the CostumeAPI port as thin wrappers over the
// shared Transport Client, one per backend resource action.
package costumeapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ericfisherdev/costumedesk/internal/adapter/driven/transport"
	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CostumeAPI = (*Client)(nil)

// Backend path templates.
const (
	pathLogin    = "/login"
	pathCostumes = "/costumes"
	pathCostume  = "/costumes/{id}"
	pathCreate   = "/costume"
)

// Client maps CostumeAPI calls to request descriptors. Reads go through
// RetryableRequest; writes are issued once.
type Client struct {
	tc         *transport.Client
	maxRetries int
}

// New creates a Client dispatching through tc. maxRetries bounds read attempts.
func New(tc *transport.Client, maxRetries int) *Client {
	return &Client{tc: tc, maxRetries: maxRetries}
}

// Authenticate posts the basic-auth handshake. The returned token is the
// "token" field of the response when present; otherwise it is the encoded
// username:password pair, which the Basic scheme accepts as-is.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	var raw json.RawMessage
	err := c.tc.Issue(ctx, transport.Request{
		Method:    http.MethodPost,
		Path:      pathLogin,
		BasicAuth: &transport.BasicAuth{Username: username, Password: password},
	}, &raw)
	if err != nil {
		return "", fmt.Errorf("authenticate %s: %w", username, err)
	}

	var lr loginResponse
	if len(raw) > 0 && json.Unmarshal(raw, &lr) == nil && lr.Token != "" {
		return lr.Token, nil
	}
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password)), nil
}

// ListCostumes retrieves the whole catalog.
func (c *Client) ListCostumes(ctx context.Context) ([]model.Costume, error) {
	var dtos []costumeJSON
	err := c.tc.RetryableRequest(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   pathCostumes,
	}, &dtos, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("listing costumes: %w", err)
	}

	costumes := make([]model.Costume, 0, len(dtos))
	for _, d := range dtos {
		costumes = append(costumes, mapCostume(d))
	}
	return costumes, nil
}

// GetCostume retrieves one costume by id.
func (c *Client) GetCostume(ctx context.Context, id string) (*model.Costume, error) {
	var dto costumeJSON
	err := c.tc.RetryableRequest(ctx, transport.Request{
		Method:     http.MethodGet,
		Path:       pathCostume,
		PathParams: map[string]string{"id": id},
	}, &dto, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("getting costume %s: %w", id, err)
	}

	costume := mapCostume(dto)
	if costume.ID == "" {
		costume.ID = id
	}
	return &costume, nil
}

// CreateCostume posts a new costume. The backend's singular create path is
// kept as the backend defines it.
func (c *Client) CreateCostume(ctx context.Context, in model.CostumeInput) (*model.Costume, error) {
	var dto costumeJSON
	err := c.tc.Issue(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   pathCreate,
		Body:   newCostumeBody(in),
	}, &dto)
	if err != nil {
		return nil, fmt.Errorf("creating costume %q: %w", in.Name, err)
	}

	costume := mapCostume(dto)
	return &costume, nil
}

// UpdateCostume replaces the writable fields of costume id.
func (c *Client) UpdateCostume(ctx context.Context, id string, in model.CostumeInput) (*model.Costume, error) {
	var dto costumeJSON
	err := c.tc.Issue(ctx, transport.Request{
		Method:     http.MethodPut,
		Path:       pathCostume,
		PathParams: map[string]string{"id": id},
		Body:       newCostumeBody(in),
	}, &dto)
	if err != nil {
		return nil, fmt.Errorf("updating costume %s: %w", id, err)
	}

	costume := mapCostume(dto)
	if costume.ID == "" {
		costume.ID = id
	}
	return &costume, nil
}

// DeleteCostume removes costume id.
func (c *Client) DeleteCostume(ctx context.Context, id string) error {
	err := c.tc.Issue(ctx, transport.Request{
		Method:     http.MethodDelete,
		Path:       pathCostume,
		PathParams: map[string]string{"id": id},
	}, nil)
	if err != nil {
		return fmt.Errorf("deleting costume %s: %w", id, err)
	}
	return nil
}

// ExportCostume downloads the costume document for id into filename,
// defaulting to costume-<id>.json.
func (c *Client) ExportCostume(ctx context.Context, id, filename string) (string, error) {
	if filename == "" {
		filename = ExportFilename(id)
	}

	path, err := c.tc.Download(ctx, pathCostumes+"/"+url.PathEscape(id), filename)
	if err != nil {
		return "", fmt.Errorf("exporting costume %s: %w", id, err)
	}
	return path, nil
}

// StreamCostume copies the costume document for id to w.
func (c *Client) StreamCostume(ctx context.Context, id string, w io.Writer) error {
	if _, err := c.tc.DownloadTo(ctx, pathCostumes+"/"+url.PathEscape(id), w); err != nil {
		return fmt.Errorf("streaming costume %s: %w", id, err)
	}
	return nil
}

// ExportFilename is the default file name for an exported costume.
func ExportFilename(id string) string {
	return "costume-" + id + ".json"
}
