package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func accountColumns() []string {
	return []string{"id", "email", "name", "password_hash", "refresh_token_hash", "created_at", "updated_at"}
}

func TestPGAccountFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("(?s)select id, email.*from accounts where email").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow("01J0AccountID", "a@x.com", "A", "bcrypt-hash", nil, now, now))

	store := NewPGStore(db)
	account, err := store.Accounts(context.Background()).FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if account.Email != "a@x.com" || account.RefreshTokenHash != "" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGAccountFindMissingMapsToNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("(?s)select id, email.*from accounts where id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(accountColumns()))

	store := NewPGStore(db)
	if _, err := store.Accounts(context.Background()).Find(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGAccountCreateAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into accounts").
		WithArgs(sqlmock.AnyArg(), "a@x.com", "A", "bcrypt-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPGStore(db)
	account := &Account{Email: "a@x.com", Name: "A", PasswordHash: "bcrypt-hash"}
	if err := store.Accounts(context.Background()).Create(context.Background(), account); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if account.ID == "" {
		t.Fatal("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGUpdateRefreshHashMissingAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update accounts set refresh_token_hash").
		WithArgs("missing", "hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGStore(db)
	if err := store.Accounts(context.Background()).UpdateRefreshHash(context.Background(), "missing", "hash"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGClientFindByAPIKeyHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	hash := HashAPIKey("service-a-key-123")
	mock.ExpectQuery("(?s)select id, name, api_key_hash.*from clients where api_key_hash").
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "api_key_hash", "is_active", "created_at", "updated_at"}).
			AddRow("01J0ClientID", "service-a", hash, true, now, now))

	store := NewPGStore(db)
	client, err := store.Clients(context.Background()).FindByAPIKeyHash(context.Background(), hash)
	if err != nil {
		t.Fatalf("FindByAPIKeyHash: %v", err)
	}
	if client.Name != "service-a" || !client.IsActive {
		t.Fatalf("unexpected client: %+v", client)
	}
}

func TestPGClientUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("(?s)insert into clients.*on conflict").
		WithArgs(sqlmock.AnyArg(), "service-a", sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPGStore(db)
	client := &Client{Name: "service-a", APIKeyHash: HashAPIKey("k"), IsActive: true}
	if err := store.Clients(context.Background()).Upsert(context.Background(), client); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
