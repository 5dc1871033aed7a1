package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// ErrEmptyToken is returned by SetToken when asked to store an empty credential.
var ErrEmptyToken = errors.New("token must not be empty")

// AuthGate holds the process-wide credential. It is the single value handed
// to the transport client (as its credential source) and to the navigation
// guard; all reads and writes go through its accessors.
type AuthGate struct {
	mu     sync.RWMutex
	token  string
	store  driven.CredentialStore
	logger *slog.Logger

	subMu       sync.Mutex
	subscribers []func()
}

// NewAuthGate creates a gate initialized from the durable credential slot.
func NewAuthGate(ctx context.Context, store driven.CredentialStore, logger *slog.Logger) (*AuthGate, error) {
	token, err := store.Get(ctx, model.CredentialKeyAuth)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("auth gate initialized", "authenticated", token != "")
	return &AuthGate{token: token, store: store, logger: logger}, nil
}

// Token returns the current credential, or "" when signed out.
func (g *AuthGate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// IsAuthenticated reports whether a non-empty credential is held.
func (g *AuthGate) IsAuthenticated() bool {
	return g.Token() != ""
}

// SetToken stores token durably and then in memory. Readers observe either
// the previous or the new token; if the durable write fails, memory is left
// unchanged.
func (g *AuthGate) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.store.Set(ctx, model.CredentialKeyAuth, token); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	g.token = token
	return nil
}

// Logout clears the credential from memory and from durable storage,
// including the legacy key, then fires the reset event. The in-memory state
// and the reset event happen even when the durable delete fails.
func (g *AuthGate) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.token = ""
	err := g.store.Delete(ctx, model.CredentialKeyAuth, model.CredentialKeyLegacy)
	g.mu.Unlock()

	if err != nil {
		g.logger.Error("failed to clear stored credential", "error", err)
		err = fmt.Errorf("clear credential: %w", err)
	}

	g.fireReset()
	return err
}

// OnReset subscribes fn to the application-state reset event fired on logout.
// Subscribers run synchronously in registration order.
func (g *AuthGate) OnReset(fn func()) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

func (g *AuthGate) fireReset() {
	g.subMu.Lock()
	subs := make([]func(), len(g.subscribers))
	copy(subs, g.subscribers)
	g.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
	g.logger.Info("application state reset")
}
