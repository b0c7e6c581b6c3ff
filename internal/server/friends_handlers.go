package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/stockcircle/internal/domain"
)

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	st, err := s.container.Friends.Load(r.Context())
	if s.handleViewError(w, r, err, "/friends") {
		return
	}
	s.render(w, r, http.StatusOK, "friends", "Friends", "friends", st)
}

// friendsAction runs one mutation of the friends page and either redirects back to it or
// re-renders it with the error.
func (s *Server) friendsAction(w http.ResponseWriter, r *http.Request, fallback string, act func() error) {
	if err := act(); err != nil {
		st, loadErr := s.container.Friends.ShowError(r.Context(), err, fallback)
		if s.handleViewError(w, r, loadErr, "/friends") {
			return
		}
		s.render(w, r, statusFor(err), "friends", "Friends", "friends", st)
		return
	}
	seeOther(w, r, "/friends")
}

func (s *Server) handleSendFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.friendsAction(w, r, "Failed to send friend request", func() error {
		return s.container.Friends.SendRequest(r.Context(), r.FormValue("username"))
	})
}

func (s *Server) handleAcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	sender := domain.UserID(chi.URLParam(r, "senderId"))
	s.friendsAction(w, r, "Failed to accept friend request", func() error {
		return s.container.Friends.Accept(r.Context(), sender)
	})
}

func (s *Server) handleRejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	sender := domain.UserID(chi.URLParam(r, "senderId"))
	s.friendsAction(w, r, "Failed to reject friend request", func() error {
		return s.container.Friends.Reject(r.Context(), sender)
	})
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	friend := domain.UserID(chi.URLParam(r, "friendId"))
	s.friendsAction(w, r, "Failed to remove friend", func() error {
		return s.container.Friends.Remove(r.Context(), friend)
	})
}
