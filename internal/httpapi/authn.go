package httpapi

import (
	"errors"
	"net/http"

	"filmgate.io/internal/auth"
	"filmgate.io/internal/obs"
)

// withIdentity resolves the caller's credentials before the handler runs.
// The resolved identity is attached to the request context.
func (a *API) withIdentity(resolver *auth.Resolver, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := resolver.Resolve(r.Context(), r.Header.Get("x-api-key"), r.Header.Get("Authorization"))
		if err != nil {
			obs.ObserveAuthVerdict(rejectionVerdict(err))
			a.writeAuthError(w, r, err)
			return
		}
		obs.ObserveAuthVerdict(identity.Kind.String())
		next(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
	}
}

func rejectionVerdict(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "rejected_missing_credentials"
	case errors.Is(err, auth.ErrInvalidAPIKey):
		return "rejected_invalid_api_key"
	case errors.Is(err, auth.ErrInvalidJWT):
		return "rejected_invalid_jwt"
	default:
		return "rejected"
	}
}
