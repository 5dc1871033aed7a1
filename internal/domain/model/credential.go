package model

import "time"

// Well-known keys of the durable credential slot.
const (
	// CredentialKeyAuth holds the session token written on login.
	CredentialKeyAuth = "auth"
	// CredentialKeyLegacy is an older slot name. It is never written, only
	// removed on logout so stale installs do not keep a dangling secret.
	CredentialKeyLegacy = "token"
)

// Credential is one key-value row of the durable credential store.
type Credential struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
