package auth

import "context"

// Store describes the persistence operations the auth subsystem requires.
type Store interface {
	Accounts(ctx context.Context) AccountStore
	Clients(ctx context.Context) ClientStore
}

// AccountStore manages user accounts.
type AccountStore interface {
	Create(ctx context.Context, a *Account) error
	Find(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	UpdateRefreshHash(ctx context.Context, id, hash string) error
}

// ClientStore manages API-key clients.
type ClientStore interface {
	FindByAPIKeyHash(ctx context.Context, hash string) (*Client, error)
	Upsert(ctx context.Context, c *Client) error
}
