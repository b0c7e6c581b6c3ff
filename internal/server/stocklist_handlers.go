package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aristath/stockcircle/internal/permissions"
	"github.com/aristath/stockcircle/internal/views"
)

// stockListDetailPage is the detail state plus the flags derived for the current session.
type stockListDetailPage struct {
	views.StockListDetailState
	Perms permissions.ListPermissions
}

// deleteConfirmPage is the confirmation step before a list is deleted.
type deleteConfirmPage struct {
	ID     int64
	Prompt string
}

func stockListPath(id int64) string {
	return fmt.Sprintf("/stock-lists/%d", id)
}

func (s *Server) renderStockLists(w http.ResponseWriter, r *http.Request, status int, st views.StockListsState) {
	s.render(w, r, status, "stocklists", "Stock Lists", "stock-lists", st)
}

func (s *Server) handleStockLists(w http.ResponseWriter, r *http.Request) {
	st, err := s.container.StockLists.Load(r.Context())
	if s.handleViewError(w, r, err, "/stock-lists") {
		return
	}
	s.renderStockLists(w, r, http.StatusOK, st)
}

func (s *Server) stockListsFailed(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	st, loadErr := s.container.StockLists.ShowError(r.Context(), err, fallback)
	if s.handleViewError(w, r, loadErr, "/stock-lists") {
		return
	}
	s.renderStockLists(w, r, statusFor(err), st)
}

func (s *Server) handleCreateStockList(w http.ResponseWriter, r *http.Request) {
	isPublic := r.FormValue("is_public") == "true"
	if _, err := s.container.StockLists.Create(r.Context(), r.FormValue("name"), isPublic); err != nil {
		s.stockListsFailed(w, r, err, "Failed to create stock list")
		return
	}
	seeOther(w, r, "/stock-lists")
}

// handleDeleteStockListConfirm asks for confirmation. The controller is given a confirmer
// that declines, so nothing is deleted here; it only supplies the prompt.
func (s *Server) handleDeleteStockListConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.int64Param(w, r, "id")
	if !ok {
		return
	}
	var prompt string
	_, err := s.container.StockLists.Delete(r.Context(), id, views.ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return false
	}))
	if s.handleViewError(w, r, err, r.URL.Path) {
		return
	}
	s.render(w, r, http.StatusOK, "stocklist_delete", "Delete stock list", "stock-lists", deleteConfirmPage{ID: id, Prompt: prompt})
}

func (s *Server) handleDeleteStockList(w http.ResponseWriter, r *http.Request) {
	id, ok := s.int64Param(w, r, "id")
	if !ok {
		return
	}
	confirmed := r.FormValue("confirm") == "yes"
	_, err := s.container.StockLists.Delete(r.Context(), id, views.ConfirmFunc(func(context.Context, string) bool {
		return confirmed
	}))
	if err != nil {
		s.stockListsFailed(w, r, err, "Failed to delete stock list")
		return
	}
	seeOther(w, r, "/stock-lists")
}

func (s *Server) renderStockListDetail(w http.ResponseWriter, r *http.Request, status int, st views.StockListDetailState) {
	title := st.List.Name
	if !st.Found {
		title = "Stock list"
	}
	page := stockListDetailPage{
		StockListDetailState: st,
		Perms:                st.Permissions(s.container.Session.Current()),
	}
	s.render(w, r, status, "stocklist_detail", title, "stock-lists", page)
}

func (s *Server) handleStockListDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := s.int64Param(w, r, "id")
	if !ok {
		return
	}
	st, err := s.container.StockListDetail.Load(r.Context(), id)
	if s.handleViewError(w, r, err, stockListPath(id)) {
		return
	}
	s.renderStockListDetail(w, r, http.StatusOK, st)
}

// stockListAction runs one mutation of the detail page and either redirects back to it or
// re-renders it with the error.
func (s *Server) stockListAction(w http.ResponseWriter, r *http.Request, fallback string, act func(id int64) error) {
	id, ok := s.int64Param(w, r, "id")
	if !ok {
		return
	}
	if err := act(id); err != nil {
		st, loadErr := s.container.StockListDetail.ShowError(r.Context(), id, err, fallback)
		if s.handleViewError(w, r, loadErr, stockListPath(id)) {
			return
		}
		s.renderStockListDetail(w, r, statusFor(err), st)
		return
	}
	seeOther(w, r, stockListPath(id))
}

func (s *Server) handleAddStock(w http.ResponseWriter, r *http.Request) {
	s.stockListAction(w, r, "Failed to add stock", func(id int64) error {
		return s.container.StockListDetail.AddStock(r.Context(), id, r.FormValue("symbol"), r.FormValue("shares"))
	})
}

func (s *Server) handleRemoveStock(w http.ResponseWriter, r *http.Request) {
	s.stockListAction(w, r, "Failed to remove stock", func(id int64) error {
		return s.container.StockListDetail.RemoveStock(r.Context(), id, r.FormValue("symbol"))
	})
}

func (s *Server) handleShareStockList(w http.ResponseWriter, r *http.Request) {
	s.stockListAction(w, r, "Failed to share stock list", func(id int64) error {
		return s.container.StockListDetail.Share(r.Context(), id, r.FormValue("username"))
	})
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	s.stockListAction(w, r, "Failed to add review", func(id int64) error {
		return s.container.StockListDetail.CreateReview(r.Context(), id, r.FormValue("content"))
	})
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := s.int64Param(w, r, "reviewId")
	if !ok {
		return
	}
	s.stockListAction(w, r, "Failed to delete review", func(int64) error {
		return s.container.StockListDetail.DeleteReview(r.Context(), reviewID)
	})
}
