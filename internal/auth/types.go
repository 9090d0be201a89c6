package auth

import "time"

// Account is a persistent user identity.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	// RefreshTokenHash holds the adaptive hash of the most recently issued
	// refresh token, or "" before the first issuance. Presenting any older
	// refresh token fails because the hash has already moved on.
	RefreshTokenHash string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Client is a service-level credential record. Only the digest of the
// provisioned key is stored; the plaintext is shown once at provisioning
// time and is not recoverable afterwards.
type Client struct {
	ID         string
	Name       string
	APIKeyHash string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TokenPair carries freshly minted access and refresh tokens along with
// their expirations. It is never persisted as an object; the refresh
// token's hash is the only server-side trace.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
