package httpapi

import (
	"net/http"
	"strings"
	"time"

	"filmgate.io/internal/audit"
	"filmgate.io/internal/auth"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func toTokenResponse(pair auth.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := a.tokens.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		a.writeAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.signup", map[string]any{"email": req.Email})
	writeJSON(w, r, http.StatusCreated, toTokenResponse(pair))
}

func (a *API) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := a.tokens.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.signin", map[string]any{"email": req.Email})
	writeJSON(w, r, http.StatusOK, toTokenResponse(pair))
}

// handleRefresh exchanges a refresh token, presented as a bearer credential,
// for a fresh pair. The presented token is retired in the process.
func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	token, ok := bearerCredential(r)
	if !ok {
		a.writeAuthError(w, r, auth.ErrMissingCredentials)
		return
	}
	claims, err := a.tokens.VerifyRefresh(token)
	if err != nil {
		a.writeAuthError(w, r, err)
		return
	}
	pair, err := a.tokens.Refresh(r.Context(), claims.Subject, token)
	if err != nil {
		a.writeAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.refresh", map[string]any{"account_id": claims.Subject})
	writeJSON(w, r, http.StatusOK, toTokenResponse(pair))
}

func bearerCredential(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return h[len(prefix):], true
}
