package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
)

const apiKeyBytes = 32

// ProvisionClient generates a high-entropy API key for a new client, stores
// only its digest and returns the plaintext. This is the only moment the
// plaintext is ever visible; it cannot be recovered from the stored hash.
func ProvisionClient(ctx context.Context, store Store, name string) (string, *Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, errors.New("client name is required")
	}
	raw := make([]byte, apiKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, err
	}
	key := base64.RawURLEncoding.EncodeToString(raw)

	client := &Client{
		Name:       name,
		APIKeyHash: HashAPIKey(key),
		IsActive:   true,
	}
	if err := store.Clients(ctx).Upsert(ctx, client); err != nil {
		return "", nil, err
	}
	return key, client, nil
}

// DeactivateClient flips the active gate without deleting history. Keys of
// inactive clients stop resolving but remain on record.
func DeactivateClient(ctx context.Context, store Store, client *Client) error {
	client.IsActive = false
	return store.Clients(ctx).Upsert(ctx, client)
}
