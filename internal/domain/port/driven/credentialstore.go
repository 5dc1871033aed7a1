package driven

import (
	"context"
	"errors"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when the
// adapter requires an encryption key and COSTUMEDESK_SECRET_KEY was malformed.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set COSTUMEDESK_SECRET_KEY")

// CredentialStore defines the driven port for the durable credential slot.
// Values cross this boundary in plaintext; encryption at rest is the adapter's concern.
type CredentialStore interface {
	// Set stores or replaces the value under key.
	Set(ctx context.Context, key, value string) error

	// Get returns the value under key, or ("", nil) when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes every given key in a single transaction. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
