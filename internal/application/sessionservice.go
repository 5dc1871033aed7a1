package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// ErrMissingCredentials is returned by Login when username or password is blank.
var ErrMissingCredentials = errors.New("username and password are required")

// SessionService runs the login handshake against the costume API and
// records the outcome in the auth gate.
type SessionService struct {
	api    driven.CostumeAPI
	gate   *AuthGate
	logger *slog.Logger
}

// NewSessionService creates a new SessionService with the required dependencies.
func NewSessionService(api driven.CostumeAPI, gate *AuthGate, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{api: api, gate: gate, logger: logger}
}

// Login authenticates username and stores the resulting token. A failed
// handshake leaves any existing credential untouched.
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	token, err := s.api.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.gate.SetToken(ctx, token); err != nil {
		return fmt.Errorf("login %s: %w", username, err)
	}

	s.logger.Info("signed in", "username", username)
	return nil
}

// Logout signs out and resets application state.
func (s *SessionService) Logout(ctx context.Context) error {
	return s.gate.Logout(ctx)
}

// IsAuthenticated reports whether a credential is currently held.
func (s *SessionService) IsAuthenticated() bool {
	return s.gate.IsAuthenticated()
}
