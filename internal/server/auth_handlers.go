package server

import (
	"net/http"

	"github.com/aristath/stockcircle/internal/domain"
)

// authForm is what the login and register pages render.
type authForm struct {
	Username string
	Error    string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.container.Session.Current().LoggedIn() {
		seeOther(w, r, "/dashboard")
		return
	}
	s.render(w, r, http.StatusOK, "login", "Login", "", authForm{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	if _, err := s.container.Auth.Login(r.Context(), username, r.FormValue("password")); err != nil {
		s.render(w, r, statusFor(err), "login", "Login", "", authForm{
			Username: username,
			Error:    domain.UserMessage(err, "Login failed"),
		})
		return
	}
	seeOther(w, r, "/dashboard")
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if s.container.Session.Current().LoggedIn() {
		seeOther(w, r, "/dashboard")
		return
	}
	s.render(w, r, http.StatusOK, "register", "Register", "", authForm{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	if _, err := s.container.Auth.Register(r.Context(), username, r.FormValue("password")); err != nil {
		s.render(w, r, statusFor(err), "register", "Register", "", authForm{
			Username: username,
			Error:    domain.UserMessage(err, "Registration failed"),
		})
		return
	}
	seeOther(w, r, "/dashboard")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.container.Auth.Logout(); err != nil {
		s.log.Error().Err(err).Msg("Failed to clear session")
		s.render(w, r, http.StatusInternalServerError, "error", "Error", "", "Failed to log out")
		return
	}
	seeOther(w, r, "/login")
}
