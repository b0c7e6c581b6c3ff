package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/views"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "stockcircle",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// requireSession sends visitors without a session to the login page.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.container.Session.Current().LoggedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", "Not found", "", r.URL.Path)
}

// statusFor maps a failed intent to the status of the re-rendered page.
func statusFor(err error) int {
	if domain.IsValidation(err) {
		return http.StatusUnprocessableEntity
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

// handleViewError deals with the two errors every controller can return instead of a state.
// page is the GET path of the page the request belongs to. It reports whether it wrote a response.
func (s *Server) handleViewError(w http.ResponseWriter, r *http.Request, err error, page string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, views.ErrNotLoggedIn):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, views.ErrStale):
		// A newer load or a session change overtook this one; the reload shows the current state.
		s.log.Debug().Str("path", r.URL.Path).Msg("Discarded stale page load")
		http.Redirect(w, r, page, http.StatusSeeOther)
	default:
		s.log.Error().
			Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Page load failed")
		s.render(w, r, http.StatusInternalServerError, "error", "Error", "", domain.UserMessage(err, "Something went wrong"))
	}
	return true
}

// int64Param reads a numeric URL parameter. A malformed one renders the not-found page.
func (s *Server) int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		s.handleNotFound(w, r)
		return 0, false
	}
	return id, true
}

// seeOther finishes a successful form post.
func seeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
