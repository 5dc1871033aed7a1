package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// Stored values carry a scheme prefix so rows written with and without an
// encryption key can coexist in one file.
const (
	prefixSealed = "gcm:"
	prefixPlain  = "plain:"
)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// When constructed with a 32-byte key, values are sealed with AES-256-GCM
// before write; with a nil key they are stored as plaintext.
type CredentialRepo struct {
	db  *DB
	key []byte
}

// NewCredentialRepo creates a new CredentialRepo. key must be nil or 32 bytes.
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	return &CredentialRepo{db: db, key: key}
}

// Set stores or replaces the value under key in a single statement, so a
// concurrent reader sees either the old or the new value, never a mix.
func (r *CredentialRepo) Set(ctx context.Context, key, value string) error {
	stored, err := r.seal(value)
	if err != nil {
		return err
	}

	const query = `INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err = r.db.Writer.ExecContext(ctx, query, key, stored, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set credential %q: %w", key, err)
	}
	return nil
}

// Get returns the plaintext value under key, or ("", nil) when absent.
func (r *CredentialRepo) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM credentials WHERE key = ?`
	var stored string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get credential %q: %w", key, err)
	}

	value, err := r.open(stored)
	if err != nil {
		return "", fmt.Errorf("open credential %q: %w", key, err)
	}
	return value, nil
}

// Delete removes all given keys inside one transaction.
func (r *CredentialRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete credentials: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `DELETE FROM credentials WHERE key = ?`
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, query, key); err != nil {
			return fmt.Errorf("delete credential %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete credentials: %w", err)
	}
	return nil
}

// List returns every stored credential with opened values, ordered by key.
func (r *CredentialRepo) List(ctx context.Context) ([]model.Credential, error) {
	const query = `SELECT key, value, updated_at FROM credentials ORDER BY key`
	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var creds []model.Credential
	for rows.Next() {
		var cred model.Credential
		var stored, updatedAt string
		if err := rows.Scan(&cred.Key, &stored, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}

		if cred.Value, err = r.open(stored); err != nil {
			return nil, fmt.Errorf("open credential %q: %w", cred.Key, err)
		}
		if cred.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parse updated_at for credential %q: %w", cred.Key, err)
		}

		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return creds, nil
}

// seal encodes value for storage, encrypting it when a key is configured.
func (r *CredentialRepo) seal(value string) (string, error) {
	if r.key == nil {
		return prefixPlain + value, nil
	}

	gcm, err := newGCM(r.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// nonce || ciphertext || tag
	sealed := gcm.Seal(nonce, nonce, []byte(value), nil)
	return prefixSealed + base64.StdEncoding.EncodeToString(sealed), nil
}

// open reverses seal.
func (r *CredentialRepo) open(stored string) (string, error) {
	switch {
	case strings.HasPrefix(stored, prefixPlain):
		return strings.TrimPrefix(stored, prefixPlain), nil
	case strings.HasPrefix(stored, prefixSealed):
		if r.key == nil {
			return "", driven.ErrEncryptionKeyNotSet
		}
	default:
		return "", errors.New("unknown credential encoding")
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, prefixSealed))
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := newGCM(r.key)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}

// parseTime accepts both RFC 3339 and the SQLite CURRENT_TIMESTAMP layout.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
