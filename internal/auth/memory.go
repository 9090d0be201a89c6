package auth

import (
	"context"
	"sync"
	"time"

	"filmgate.io/internal/ids"
)

var _ Store = (*InMemory)(nil)

// InMemory implements Store with in-process concurrency safety. Used in
// tests and local development; production runs on PGStore.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[string]*Account // id -> account
	byEmail  map[string]string   // email -> id
	clients  map[string]*Client  // api key hash -> client
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		accounts: make(map[string]*Account),
		byEmail:  make(map[string]string),
		clients:  make(map[string]*Client),
	}
}

func (s *InMemory) Accounts(context.Context) AccountStore { return (*memAccounts)(s) }
func (s *InMemory) Clients(context.Context) ClientStore   { return (*memClients)(s) }

type memAccounts InMemory

func (s *memAccounts) Create(ctx context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[a.Email]; ok {
		return ErrAccountExists
	}
	if a.ID == "" {
		a.ID = ids.New()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	copied := *a
	s.accounts[a.ID] = &copied
	s.byEmail[a.Email] = a.ID
	return nil
}

func (s *memAccounts) Find(ctx context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *memAccounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *s.accounts[id]
	return &copied, nil
}

func (s *memAccounts) UpdateRefreshHash(ctx context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.RefreshTokenHash = hash
	a.UpdatedAt = time.Now().UTC()
	return nil
}

type memClients InMemory

func (s *memClients) FindByAPIKeyHash(ctx context.Context, hash string) (*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[hash]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *memClients) Upsert(ctx context.Context, c *Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := s.clients[c.APIKeyHash]; ok {
		existing.Name = c.Name
		existing.IsActive = c.IsActive
		existing.UpdatedAt = now
		c.ID = existing.ID
		return nil
	}
	if c.ID == "" {
		c.ID = ids.New()
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	copied := *c
	s.clients[c.APIKeyHash] = &copied
	return nil
}
