package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"filmgate.io/internal/config"
)

// Service owns the token lifecycle: account creation, password
// verification, dual-expiry token minting and refresh rotation.
type Service struct {
	store Store
	cfg   *config.Config
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the token service.
func NewService(store Store, cfg *config.Config, opts ...ServiceOption) *Service {
	svc := &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Signup creates an account and issues its first token pair. Email matching
// is case-sensitive exact, the same way the account is stored.
func (s *Service) Signup(ctx context.Context, email, password, name string) (TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return TokenPair{}, ErrInvalidInput
	}

	accounts := s.store.Accounts(ctx)
	if _, err := accounts.FindByEmail(ctx, email); err == nil {
		return TokenPair{}, ErrAccountExists
	} else if !errors.Is(err, ErrNotFound) {
		return TokenPair{}, err
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return TokenPair{}, err
	}
	account := &Account{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
	}
	if err := accounts.Create(ctx, account); err != nil {
		return TokenPair{}, err
	}

	return s.issue(ctx, account.ID, account.Email)
}

// Signin verifies credentials and issues a fresh token pair. Unknown email
// and wrong password produce the identical error so callers cannot
// enumerate accounts.
func (s *Service) Signin(ctx context.Context, email, password string) (TokenPair, error) {
	account, err := s.store.Accounts(ctx).FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if !VerifyPassword(account.PasswordHash, password) {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issue(ctx, account.ID, account.Email)
}

// Refresh exchanges a valid refresh token for a new pair and rotates the
// stored hash, making each refresh token single-use. Concurrent refreshes
// on one account are not coordinated: the last write wins and the losing
// caller's token fails on its next presentation.
func (s *Service) Refresh(ctx context.Context, accountID, refreshToken string) (TokenPair, error) {
	account, err := s.store.Accounts(ctx).Find(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrAccessDenied
		}
		return TokenPair{}, err
	}
	if account.RefreshTokenHash == "" {
		return TokenPair{}, ErrAccessDenied
	}
	if !VerifyRefreshToken(account.RefreshTokenHash, refreshToken) {
		return TokenPair{}, ErrAccessDenied
	}
	return s.issue(ctx, account.ID, account.Email)
}

// VerifyAccess validates an access token against the access secret.
func (s *Service) VerifyAccess(token string) (*Claims, error) {
	return verifyToken(s.cfg.AccessSecret, token)
}

// VerifyRefresh validates a refresh token against the refresh secret.
func (s *Service) VerifyRefresh(token string) (*Claims, error) {
	return verifyToken(s.cfg.RefreshSecret, token)
}

func (s *Service) issue(ctx context.Context, accountID, email string) (TokenPair, error) {
	pair, err := s.generatePair(accountID, email)
	if err != nil {
		return TokenPair{}, err
	}
	refreshHash, err := HashRefreshToken(pair.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.store.Accounts(ctx).UpdateRefreshHash(ctx, accountID, refreshHash); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// generatePair signs both tokens from the same claim payload. The two
// signings have no ordering dependency, so the access token is signed on a
// separate goroutine while the refresh token is signed inline.
func (s *Service) generatePair(accountID, email string) (TokenPair, error) {
	now := s.now().UTC()

	type signed struct {
		token string
		exp   time.Time
		err   error
	}
	accessCh := make(chan signed, 1)
	go func() {
		token, exp, err := signToken(s.cfg.AccessSecret, accountID, email, now, s.cfg.AccessTTL)
		accessCh <- signed{token: token, exp: exp, err: err}
	}()

	refreshToken, refreshExp, refreshErr := signToken(s.cfg.RefreshSecret, accountID, email, now, s.cfg.RefreshTTL)
	access := <-accessCh
	if access.err != nil {
		return TokenPair{}, access.err
	}
	if refreshErr != nil {
		return TokenPair{}, refreshErr
	}
	return TokenPair{
		AccessToken:      access.token,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  access.exp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
