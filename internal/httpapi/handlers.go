package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"filmgate.io/api/spec"
	"filmgate.io/internal/auth"
	"filmgate.io/internal/film"
	"filmgate.io/internal/obs"
)

// ReadyProbe reports whether downstream dependencies are reachable.
type ReadyProbe func() error

// API owns the HTTP surface of the service.
type API struct {
	mux          *http.ServeMux
	ready        ReadyProbe
	version      string
	tokens       *auth.Service
	resolver     *auth.Resolver
	internalOnly *auth.Resolver
	films        film.Service

	maxBodyBytes  int64
	rateBurst     int
	ratePerSecond int
}

// New wires routes onto a fresh mux.
func New(ready ReadyProbe, version string, tokens *auth.Service, resolver, internalOnly *auth.Resolver, films film.Service) *API {
	a := &API{
		mux:          http.NewServeMux(),
		ready:        ready,
		version:      version,
		tokens:       tokens,
		resolver:     resolver,
		internalOnly: internalOnly,
		films:        films,

		maxBodyBytes:  1 << 20,
		rateBurst:     20,
		ratePerSecond: 10,
	}

	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReadyz)
	a.mux.Handle("/metrics", obs.Handler())
	a.mux.HandleFunc("/openapi.yaml", a.handleOpenAPI)
	a.mux.HandleFunc("/v1/info", a.handleInfo)
	a.mux.HandleFunc("/v1/internal/info", a.withIdentity(a.internalOnly, a.handleInternalInfo))

	a.mux.HandleFunc("/v1/auth/signup", a.handleSignup)
	a.mux.HandleFunc("/v1/auth/signin", a.handleSignin)
	a.mux.HandleFunc("/v1/auth/refresh", a.handleRefresh)

	a.mux.HandleFunc("/v1/films", a.withIdentity(a.resolver, a.handleFilms))
	a.mux.HandleFunc("/v1/films/", a.withIdentity(a.resolver, a.handleFilmByID))

	return a
}

// Handler returns the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = RateLimit(h, a.rateBurst, a.ratePerSecond)
	h = LoggingJSON(h)
	h = RequestID(h)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = obs.Instrument(h)
	return h
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.ready != nil {
		if err := a.ready(); err != nil {
			writeError(w, r, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (a *API) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{
		"name":    "filmgate",
		"version": a.version,
	})
}

// handleInternalInfo is only reachable with the shared infrastructure key.
func (a *API) handleInternalInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{
		"name":    "filmgate",
		"version": a.version,
		"caller":  "internal",
	})
}

func (a *API) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}

func writeJSON(w http.ResponseWriter, _ *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]any{
		"error": map[string]any{
			"status":     status,
			"message":    msg,
			"request_id": RequestIDFromContext(r.Context()),
		},
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

func (a *API) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, auth.ErrInvalidAPIKey),
		errors.Is(err, auth.ErrInvalidJWT),
		errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrAccountExists),
		errors.Is(err, auth.ErrAccessDenied):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		obs.Logger().Printf(`{"level":"error","component":"httpapi","msg":%q}`, err.Error())
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
