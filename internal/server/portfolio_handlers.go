package server

import (
	"fmt"
	"net/http"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/views"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	st, err := s.container.Dashboard.Load(r.Context())
	if s.handleViewError(w, r, err, "/dashboard") {
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", "Dashboard", "dashboard", st)
}

func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	dash := s.container.Dashboard
	if err := dash.CreatePortfolio(r.Context(), r.FormValue("name"), r.FormValue("cash")); err != nil {
		st, loadErr := dash.ShowError(r.Context(), err)
		if s.handleViewError(w, r, loadErr, "/dashboard") {
			return
		}
		s.render(w, r, statusFor(err), "dashboard", "Dashboard", "dashboard", st)
		return
	}
	seeOther(w, r, "/dashboard")
}

func portfolioPath(id int64) string {
	return fmt.Sprintf("/portfolio/%d", id)
}

func portfolioTitle(st views.PortfolioState) string {
	if st.Name != "" {
		return st.Name
	}
	return "Portfolio"
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := s.int64Param(w, r, "portfolioId")
	if !ok {
		return
	}
	st, err := s.container.Portfolio.Load(r.Context(), id)
	if s.handleViewError(w, r, err, portfolioPath(id)) {
		return
	}
	s.render(w, r, http.StatusOK, "portfolio", portfolioTitle(st), "dashboard", st)
}

// portfolioAction runs one mutation of the portfolio page and either redirects back to it
// or re-renders it with the error.
func (s *Server) portfolioAction(w http.ResponseWriter, r *http.Request, fallback string, act func(id int64) error) {
	id, ok := s.int64Param(w, r, "portfolioId")
	if !ok {
		return
	}
	if err := act(id); err != nil {
		st, loadErr := s.container.Portfolio.ShowError(r.Context(), id, err, fallback)
		if s.handleViewError(w, r, loadErr, portfolioPath(id)) {
			return
		}
		s.render(w, r, statusFor(err), "portfolio", portfolioTitle(st), "dashboard", st)
		return
	}
	seeOther(w, r, portfolioPath(id))
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	s.portfolioAction(w, r, "Transaction failed", func(id int64) error {
		_, err := s.container.Portfolio.Trade(r.Context(), id, views.Side(r.FormValue("side")), domain.TradeInput{
			Symbol: r.FormValue("symbol"),
			Shares: r.FormValue("shares"),
			Price:  r.FormValue("price"),
		})
		return err
	})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.portfolioAction(w, r, "Deposit failed", func(id int64) error {
		return s.container.Portfolio.Deposit(r.Context(), id, r.FormValue("amount"))
	})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.portfolioAction(w, r, "Withdrawal failed", func(id int64) error {
		return s.container.Portfolio.Withdraw(r.Context(), id, r.FormValue("amount"))
	})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	s.portfolioAction(w, r, "Transfer failed", func(id int64) error {
		return s.container.Portfolio.Transfer(r.Context(), id, r.FormValue("target"), r.FormValue("amount"))
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	st, err := s.container.Transactions.Load(r.Context())
	if s.handleViewError(w, r, err, "/transactions") {
		return
	}
	s.render(w, r, http.StatusOK, "transactions", "Transactions", "transactions", st)
}
