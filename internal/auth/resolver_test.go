package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedClient(t *testing.T, store Store, name, key string, active bool) *Client {
	t.Helper()
	client := &Client{Name: name, APIKeyHash: HashAPIKey(key), IsActive: active}
	if err := store.Clients(context.Background()).Upsert(context.Background(), client); err != nil {
		t.Fatalf("Upsert client: %v", err)
	}
	return client
}

func TestResolveInternalKey(t *testing.T) {
	cfg := testConfig()
	resolver := NewResolver(cfg, NewInMemory())

	identity, err := resolver.Resolve(context.Background(), cfg.InternalAPIKey, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.Kind != IdentityInternal {
		t.Fatalf("expected internal verdict, got %v", identity.Kind)
	}
	if identity.Client != nil || identity.Account != nil {
		t.Fatal("internal verdict must carry no record payload")
	}
}

func TestResolveInternalKeyPrecedesClientLookup(t *testing.T) {
	cfg := testConfig()
	store := NewInMemory()
	// A client provisioned with the same string must not shadow the
	// internal key: the exact-match check runs first.
	seedClient(t, store, "coincidence", cfg.InternalAPIKey, true)
	resolver := NewResolver(cfg, store)

	identity, err := resolver.Resolve(context.Background(), cfg.InternalAPIKey, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.Kind != IdentityInternal {
		t.Fatalf("expected internal verdict, got %v", identity.Kind)
	}
}

func TestResolveClientKey(t *testing.T) {
	cfg := testConfig()
	store := NewInMemory()
	seedClient(t, store, "service-a", "service-a-key-123", true)
	resolver := NewResolver(cfg, store)

	identity, err := resolver.Resolve(context.Background(), "service-a-key-123", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.Kind != IdentityClient {
		t.Fatalf("expected client verdict, got %v", identity.Kind)
	}
	if identity.Client == nil || identity.Client.Name != "service-a" {
		t.Fatalf("missing client payload: %+v", identity.Client)
	}
}

func TestResolveInactiveClientRejected(t *testing.T) {
	cfg := testConfig()
	store := NewInMemory()
	seedClient(t, store, "service-b", "service-b-key-456", false)
	resolver := NewResolver(cfg, store)

	if _, err := resolver.Resolve(context.Background(), "service-b-key-456", ""); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey for inactive client, got %v", err)
	}
}

func TestResolveUnknownAPIKey(t *testing.T) {
	resolver := NewResolver(testConfig(), NewInMemory())
	if _, err := resolver.Resolve(context.Background(), "unregistered-random-string", ""); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
}

func TestResolveAPIKeyHeaderCommitsBranch(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	store := NewInMemory()
	svc := NewService(store, cfg)
	resolver := NewResolver(cfg, store)

	pair, err := svc.Signup(ctx, "a@x.com", "secret1", "A")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// A bogus api key must reject even though a perfectly valid bearer
	// token rides along in the same request.
	_, err = resolver.Resolve(ctx, "bogus-key", "Bearer "+pair.AccessToken)
	if !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey without JWT fallthrough, got %v", err)
	}
}

func TestResolveBearerToken(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	store := NewInMemory()
	svc := NewService(store, cfg)
	resolver := NewResolver(cfg, store)

	pair, err := svc.Signup(ctx, "a@x.com", "secret1", "A")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	identity, err := resolver.Resolve(ctx, "", "Bearer "+pair.AccessToken)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.Kind != IdentityUser {
		t.Fatalf("expected user verdict, got %v", identity.Kind)
	}
	if identity.Account == nil || identity.Account.Email != "a@x.com" {
		t.Fatalf("missing account payload: %+v", identity.Account)
	}
}

func TestResolveBearerFailures(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	store := NewInMemory()
	svc := NewService(store, cfg)
	resolver := NewResolver(cfg, store)

	pair, err := svc.Signup(ctx, "a@x.com", "secret1", "A")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	cases := map[string]string{
		"malformed":              "Bearer not.a.jwt",
		"wrong scheme":           "Basic dXNlcjpwYXNz",
		"refresh used as access": "Bearer " + pair.RefreshToken,
	}
	for name, header := range cases {
		_, err := resolver.Resolve(ctx, "", header)
		switch name {
		case "wrong scheme":
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("%s: expected ErrMissingCredentials, got %v", name, err)
			}
		default:
			if !errors.Is(err, ErrInvalidJWT) {
				t.Fatalf("%s: expected ErrInvalidJWT, got %v", name, err)
			}
		}
	}
}

func TestResolveValidTokenUnknownSubject(t *testing.T) {
	cfg := testConfig()
	resolver := NewResolver(cfg, NewInMemory())

	token, _, err := signToken(cfg.AccessSecret, "01JDELETEDACCOUNT000000000", "gone@x.com", time.Now().UTC(), time.Minute)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if _, err := resolver.Resolve(context.Background(), "", "Bearer "+token); !errors.Is(err, ErrInvalidJWT) {
		t.Fatalf("deleted subject must look like an invalid token, got %v", err)
	}
}

func TestResolveNoCredentials(t *testing.T) {
	resolver := NewResolver(testConfig(), NewInMemory())
	if _, err := resolver.Resolve(context.Background(), "", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestInternalOnlyResolver(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	resolver := NewInternalOnlyResolver(cfg)

	identity, err := resolver.Resolve(ctx, cfg.InternalAPIKey, "")
	if err != nil || identity.Kind != IdentityInternal {
		t.Fatalf("expected internal verdict, got %v / %v", identity.Kind, err)
	}
	if _, err := resolver.Resolve(ctx, "service-a-key-123", ""); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("client keys must not resolve in internal-only mode, got %v", err)
	}
	if _, err := resolver.Resolve(ctx, "", "Bearer whatever"); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("bearer tokens are not a credential in internal-only mode, got %v", err)
	}
}

func TestEmptyInternalKeyNeverMatches(t *testing.T) {
	cfg := testConfig()
	cfg.InternalAPIKey = ""
	resolver := NewResolver(cfg, NewInMemory())
	if _, err := resolver.Resolve(context.Background(), "anything", ""); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatal("empty context should carry no identity")
	}
	ctx = ContextWithIdentity(ctx, Identity{Kind: IdentityInternal})
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity.Kind != IdentityInternal {
		t.Fatalf("round trip failed: %+v ok=%v", identity, ok)
	}
}
