package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"filmgate.io/internal/config"
)

// IdentityKind tags the resolver's verdict.
type IdentityKind int

const (
	// IdentityInternal is a trusted first-party caller holding the shared key.
	IdentityInternal IdentityKind = iota + 1
	// IdentityClient is an external service authenticated by API-key hash.
	IdentityClient
	// IdentityUser is a person authenticated by access token.
	IdentityUser
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityInternal:
		return "internal"
	case IdentityClient:
		return "client"
	case IdentityUser:
		return "user"
	default:
		return "unknown"
	}
}

// Identity is the resolver's verdict: exactly one variant is populated per
// authenticated request. Client and Account are set only for their
// respective kinds.
type Identity struct {
	Kind    IdentityKind
	Client  *Client
	Account *Account
}

// Resolver classifies an inbound request into exactly one authenticated
// identity, or rejects it. Header presence commits the request to a single
// credential scheme; no trial-and-error across schemes.
type Resolver struct {
	cfg          *config.Config
	store        Store
	internalOnly bool
}

// NewResolver builds the full resolver: internal key, client keys and
// bearer tokens.
func NewResolver(cfg *config.Config, store Store) *Resolver {
	return &Resolver{cfg: cfg, store: store}
}

// NewInternalOnlyResolver restricts the resolver to the internal shared
// key. It is the same decision machine with the fallback rules disabled,
// not a separate implementation.
func NewInternalOnlyResolver(cfg *config.Config) *Resolver {
	return &Resolver{cfg: cfg, internalOnly: true}
}

// Resolve inspects the two credential headers in priority order. An
// x-api-key header fully commits the request to the API-key branch even if
// an Authorization header is also present.
func (r *Resolver) Resolve(ctx context.Context, apiKey, authorization string) (Identity, error) {
	if apiKey != "" {
		return r.resolveAPIKey(ctx, apiKey)
	}
	if r.internalOnly {
		return Identity{}, ErrMissingCredentials
	}
	if token, ok := bearerToken(authorization); ok {
		return r.resolveBearer(ctx, token)
	}
	return Identity{}, ErrMissingCredentials
}

func (r *Resolver) resolveAPIKey(ctx context.Context, apiKey string) (Identity, error) {
	// The internal key authenticates trusted infrastructure and is checked
	// first, by exact comparison of the configured value, so no client
	// record can shadow it.
	if r.cfg.InternalAPIKey != "" &&
		subtle.ConstantTimeCompare([]byte(apiKey), []byte(r.cfg.InternalAPIKey)) == 1 {
		return Identity{Kind: IdentityInternal}, nil
	}
	if r.internalOnly {
		return Identity{}, ErrInvalidAPIKey
	}

	client, err := r.store.Clients(ctx).FindByAPIKeyHash(ctx, HashAPIKey(apiKey))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Identity{}, ErrInvalidAPIKey
		}
		return Identity{}, err
	}
	if !client.IsActive {
		return Identity{}, ErrInvalidAPIKey
	}
	return Identity{Kind: IdentityClient, Client: client}, nil
}

func (r *Resolver) resolveBearer(ctx context.Context, token string) (Identity, error) {
	claims, err := verifyToken(r.cfg.AccessSecret, token)
	if err != nil {
		return Identity{}, ErrInvalidJWT
	}
	account, err := r.store.Accounts(ctx).Find(ctx, claims.Subject)
	if err != nil {
		// A valid token whose subject no longer exists is indistinguishable
		// from an invalid token in the response.
		if errors.Is(err, ErrNotFound) {
			return Identity{}, ErrInvalidJWT
		}
		return Identity{}, err
	}
	return Identity{Kind: IdentityUser, Account: account}, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
