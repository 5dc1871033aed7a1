package driven

import (
	"context"
	"errors"
	"io"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

// CostumeAPI defines the driven port for the remote costume catalog.
// Implementations are thin passthroughs: errors are returned exactly as the
// transport produced them, so callers can branch on HTTPStatus.
type CostumeAPI interface {
	// Authenticate performs the basic-auth login handshake and returns the
	// session token to store in the auth gate.
	Authenticate(ctx context.Context, username, password string) (string, error)

	ListCostumes(ctx context.Context) ([]model.Costume, error)
	GetCostume(ctx context.Context, id string) (*model.Costume, error)
	CreateCostume(ctx context.Context, in model.CostumeInput) (*model.Costume, error)
	UpdateCostume(ctx context.Context, id string, in model.CostumeInput) (*model.Costume, error)
	DeleteCostume(ctx context.Context, id string) error

	// ExportCostume downloads the raw costume document to filename and
	// returns the path of the written file.
	ExportCostume(ctx context.Context, id, filename string) (string, error)

	// StreamCostume copies the raw costume document to w. Nothing is written
	// to w when the backend rejects the request.
	StreamCostume(ctx context.Context, id string, w io.Writer) error
}

// HTTPStatus returns the HTTP status code carried by err, or 0 when err did
// not come from a received HTTP response.
func HTTPStatus(err error) int {
	var sc interface{ HTTPStatus() int }
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}
