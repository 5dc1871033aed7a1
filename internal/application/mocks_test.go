package application_test

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

// --- Mock implementations ---

type mockCredentialStore struct {
	mu      sync.Mutex
	values  map[string]string
	setErr  error
	getErr  error
	delErr  error
	deleted []string
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{values: map[string]string{}}
}

func (m *mockCredentialStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockCredentialStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *mockCredentialStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, keys...)
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *mockCredentialStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

type mockCostumeAPI struct {
	authenticate func(ctx context.Context, username, password string) (string, error)
}

func (m *mockCostumeAPI) Authenticate(ctx context.Context, username, password string) (string, error) {
	return m.authenticate(ctx, username, password)
}

func (m *mockCostumeAPI) ListCostumes(context.Context) ([]model.Costume, error) {
	return nil, nil
}

func (m *mockCostumeAPI) GetCostume(context.Context, string) (*model.Costume, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCostumeAPI) CreateCostume(context.Context, model.CostumeInput) (*model.Costume, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCostumeAPI) UpdateCostume(context.Context, string, model.CostumeInput) (*model.Costume, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCostumeAPI) DeleteCostume(context.Context, string) error {
	return nil
}

func (m *mockCostumeAPI) ExportCostume(context.Context, string, string) (string, error) {
	return "", nil
}

func (m *mockCostumeAPI) StreamCostume(context.Context, string, io.Writer) error {
	return nil
}
