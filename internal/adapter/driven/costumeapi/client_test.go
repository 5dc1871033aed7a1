package costumeapi_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/costumedesk/internal/adapter/driven/costumeapi"
	"github.com/ericfisherdev/costumedesk/internal/adapter/driven/transport"
	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *costumeapi.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tc, err := transport.New(server.URL+"/api", staticToken("tok"),
		transport.WithCache(false),
		transport.WithDownloadDir(t.TempDir()),
		transport.WithSleepFunc(func(context.Context, time.Duration) error { return nil }),
	)
	require.NoError(t, err)

	return costumeapi.New(tc, transport.DefaultMaxRetries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthenticate_UsesBasicAuthAndReturnsServerToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "pw", pass)
		writeJSON(w, http.StatusOK, map[string]string{"token": "server-issued"})
	}))

	token, err := client.Authenticate(context.Background(), "alice", "pw")

	require.NoError(t, err)
	assert.Equal(t, "server-issued", token)
}

func TestAuthenticate_FallsBackToEncodedCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}))

	token, err := client.Authenticate(context.Background(), "alice", "pw")

	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("alice:pw")), token)
}

func TestAuthenticate_RejectedLoginKeepsStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
	}))

	_, err := client.Authenticate(context.Background(), "alice", "wrong")

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, driven.HTTPStatus(err))
	assert.Equal(t, "bad credentials", transport.UserMessage(err))
}

func TestListCostumes_MapsNumericAndStringIDs(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/costumes", r.URL.Path)
		assert.Equal(t, "Basic tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id": 12, "name": "Pirate", "size": "M", "quantity": 3, "created_at": "2025-03-01T10:00:00Z"},
			{"id": "c-7", "name": "Witch", "era": "Medieval", "updated_at": "2025-03-02 08:30:00"}
		]`)
	}))

	costumes, err := client.ListCostumes(context.Background())

	require.NoError(t, err)
	require.Len(t, costumes, 2)
	assert.Equal(t, "12", costumes[0].ID)
	assert.Equal(t, "Pirate", costumes[0].Name)
	assert.Equal(t, 3, costumes[0].Quantity)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), costumes[0].CreatedAt)
	assert.Equal(t, "c-7", costumes[1].ID)
	assert.Equal(t, "Medieval", costumes[1].Era)
	assert.Equal(t, time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC), costumes[1].UpdatedAt)
}

func TestListCostumes_NullBodyIsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `null`)
	}))

	costumes, err := client.ListCostumes(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, costumes)
	assert.Empty(t, costumes)
}

func TestGetCostume_EscapesID(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeJSON(w, http.StatusOK, map[string]any{"name": "Knight"})
	}))

	costume, err := client.GetCostume(context.Background(), "a b")

	require.NoError(t, err)
	assert.Equal(t, "/api/costumes/a%20b", gotPath)
	assert.Equal(t, "a b", costume.ID, "id falls back to the requested one")
	assert.Equal(t, "Knight", costume.Name)
}

func TestGetCostume_NotFoundIsNotRetried(t *testing.T) {
	hits := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "costume not found"})
	}))

	_, err := client.GetCostume(context.Background(), "99")

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, driven.HTTPStatus(err))
	assert.Equal(t, 1, hits)
}

func TestCreateCostume_PostsToSingularPath(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/costume", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, map[string]any{"id": 5, "name": body["name"]})
	}))

	created, err := client.CreateCostume(context.Background(), model.CostumeInput{
		Name:     "  Vampire ",
		Size:     "L",
		Quantity: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, "5", created.ID)
	assert.Equal(t, "Vampire", body["name"])
	assert.Equal(t, "L", body["size"])
	assert.EqualValues(t, 2, body["quantity"])
	assert.NotContains(t, body, "image_url")
}

func TestUpdateCostume_PutsFullDocument(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/costumes/8", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	}))

	updated, err := client.UpdateCostume(context.Background(), "8", model.CostumeInput{Name: "Ghost", Color: "white"})

	require.NoError(t, err)
	assert.Equal(t, "8", updated.ID)
	assert.Equal(t, "white", body["color"])
}

func TestDeleteCostume(t *testing.T) {
	var method, path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteCostume(context.Background(), "3"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/api/costumes/3", path)
}

func TestDeleteCostume_ServerErrorPropagates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "costume is rented"})
	}))

	err := client.DeleteCostume(context.Background(), "3")

	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, driven.HTTPStatus(err))
}

func TestExportCostume_WritesDefaultFilename(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/costumes/4", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "name": "Clown"})
	}))

	path, err := client.ExportCostume(context.Background(), "4", "")

	require.NoError(t, err)
	assert.Equal(t, costumeapi.ExportFilename("4"), filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Clown"`)
}

func TestStreamCostume_CopiesDocument(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/costumes/4", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "name": "Clown"})
	}))

	var buf bytes.Buffer
	err := client.StreamCostume(context.Background(), "4", &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"Clown"`)
}

func TestStreamCostume_ServerErrorPropagates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	}))

	var buf bytes.Buffer
	err := client.StreamCostume(context.Background(), "4", &buf)

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, driven.HTTPStatus(err))
	assert.Zero(t, buf.Len())
}
