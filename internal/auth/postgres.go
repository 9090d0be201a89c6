package auth

import (
	"context"
	"database/sql"

	"filmgate.io/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Accounts(context.Context) AccountStore { return &accountStore{db: s.db} }
func (s *PGStore) Clients(context.Context) ClientStore   { return &clientStore{db: s.db} }

// Account store ------------------------------------------------------------
type accountStore struct{ db *sql.DB }

func (s *accountStore) Create(ctx context.Context, a *Account) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into accounts(id, email, name, password_hash) values($1,$2,$3,$4)`,
		a.ID, a.Email, a.Name, a.PasswordHash,
	)
	return err
}

func (s *accountStore) Find(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, name, password_hash, refresh_token_hash, created_at, updated_at
		   from accounts where id=$1`, id)
	return scanAccount(row)
}

func (s *accountStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, name, password_hash, refresh_token_hash, created_at, updated_at
		   from accounts where email=$1`, email)
	return scanAccount(row)
}

func (s *accountStore) UpdateRefreshHash(ctx context.Context, id, hash string) error {
	res, err := s.db.ExecContext(ctx,
		`update accounts set refresh_token_hash=$2, updated_at=now() where id=$1`,
		id, hash,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (*Account, error) {
	var (
		a           Account
		refreshHash sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &refreshHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.RefreshTokenHash = refreshHash.String
	return &a, nil
}

// Client store -------------------------------------------------------------
type clientStore struct{ db *sql.DB }

func (s *clientStore) FindByAPIKeyHash(ctx context.Context, hash string) (*Client, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, api_key_hash, is_active, created_at, updated_at
		   from clients where api_key_hash=$1`, hash)
	var c Client
	if err := row.Scan(&c.ID, &c.Name, &c.APIKeyHash, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *clientStore) Upsert(ctx context.Context, c *Client) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into clients(id, name, api_key_hash, is_active) values($1,$2,$3,$4)
		 on conflict (api_key_hash)
		 do update set name=excluded.name, is_active=excluded.is_active, updated_at=now()`,
		c.ID, c.Name, c.APIKeyHash, c.IsActive,
	)
	return err
}
