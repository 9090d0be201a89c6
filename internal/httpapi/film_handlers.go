package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"filmgate.io/internal/audit"
	"filmgate.io/internal/film"
	"filmgate.io/internal/obs"
)

type createFilmRequest struct {
	Title    string `json:"title"`
	Director string `json:"director"`
	Year     int    `json:"year"`
}

type updateFilmRequest struct {
	Title    *string `json:"title"`
	Director *string `json:"director"`
	Year     *int    `json:"year"`
}

func (a *API) handleFilms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		films, err := a.films.List(r.Context())
		if err != nil {
			a.writeFilmError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"films": films})
	case http.MethodPost:
		var req createFilmRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		f, err := a.films.Create(r.Context(), req.Title, req.Director, req.Year)
		if err != nil {
			a.writeFilmError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "film.create", map[string]any{"film_id": f.ID})
		writeJSON(w, r, http.StatusCreated, f)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleFilmByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/films/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		f, err := a.films.Get(r.Context(), id)
		if err != nil {
			a.writeFilmError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, f)
	case http.MethodPatch:
		var req updateFilmRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		f, err := a.films.Update(r.Context(), id, film.Update{
			Title:    req.Title,
			Director: req.Director,
			Year:     req.Year,
		})
		if err != nil {
			a.writeFilmError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "film.update", map[string]any{"film_id": id})
		writeJSON(w, r, http.StatusOK, f)
	case http.MethodDelete:
		if err := a.films.Delete(r.Context(), id); err != nil {
			a.writeFilmError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "film.delete", map[string]any{"film_id": id})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) writeFilmError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, film.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "film not found")
	case errors.Is(err, film.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		obs.Logger().Printf(`{"level":"error","component":"httpapi","msg":%q}`, err.Error())
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
