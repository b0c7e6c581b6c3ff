package views

import (
	"context"
	"fmt"

	"github.com/aristath/stockcircle/internal/clients/backend"
	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/fetch"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/shopspring/decimal"
)

// PortfolioCard is a portfolio with its separately fetched market value.
type PortfolioCard struct {
	domain.Portfolio
	ValueUnavailable bool
}

// Total returns cash plus market value.
func (c PortfolioCard) Total() decimal.Decimal {
	return c.CashBalance.Add(c.MarketValue)
}

// DashboardState is what the dashboard renders.
type DashboardState struct {
	Username    string
	Portfolios  []PortfolioCard
	LoadError   string
	TotalValue  decimal.Decimal
	Flash       string
	ActionError string
}

// Dashboard lists the user's portfolios with their market values.
type Dashboard struct {
	*page[DashboardState]
	backend PortfolioBackend
}

// NewDashboard creates the dashboard controller.
func NewDashboard(b PortfolioBackend, store *session.Store, opts Options) *Dashboard {
	return &Dashboard{
		page:    newPage[DashboardState]("dashboard", store, opts),
		backend: b,
	}
}

// Load fetches the portfolio list, then every portfolio's market value concurrently. A value
// that cannot be fetched shows as zero; the rest of the list is unaffected.
func (d *Dashboard) Load(ctx context.Context) (DashboardState, error) {
	s, err := d.identity()
	if err != nil {
		return DashboardState{}, err
	}
	h := d.tracker.Start(stateKeyFor(s, "dashboard"))

	st := DashboardState{Username: s.Username, TotalValue: decimal.Zero}
	portfolios, err := d.backend.Portfolios(ctx, s.UserID)
	if err != nil {
		d.log.Warn().Err(err).Msg("Failed to fetch portfolios")
		st.LoadError = domain.UserMessage(err, "Failed to fetch portfolios")
	} else {
		joined := fetch.FanOut(ctx, portfolios, 0, func(ctx context.Context, p domain.Portfolio) (decimal.Decimal, error) {
			return d.backend.PortfolioValue(ctx, p.ID)
		})
		if n := joined.Failed(); n > 0 {
			d.log.Warn().Int("failed", n).Int("total", len(portfolios)).Msg("Some portfolio values unavailable")
		}
		st.Portfolios = make([]PortfolioCard, len(portfolios))
		for i, p := range portfolios {
			p.MarketValue = joined.Values[i]
			st.Portfolios[i] = PortfolioCard{Portfolio: p, ValueUnavailable: joined.Errs[i] != nil}
			st.TotalValue = st.TotalValue.Add(st.Portfolios[i].Total())
		}
	}

	if err := d.commit(h, st); err != nil {
		return DashboardState{}, err
	}
	st.Flash = d.flash.Message()
	return st, nil
}

// CreatePortfolio validates and creates a portfolio.
func (d *Dashboard) CreatePortfolio(ctx context.Context, name, cash string) error {
	s, err := d.identity()
	if err != nil {
		return err
	}
	name, amount, err := domain.ValidateNewPortfolio(name, cash)
	if err != nil {
		return d.failed("create_portfolio", err)
	}
	err = d.backend.CreatePortfolio(ctx, backend.NewPortfolio{UserID: s.UserID, Name: name, CashBalance: amount})
	if err != nil {
		return d.failed("create_portfolio", fmt.Errorf("create portfolio: %w", err))
	}
	d.succeeded("create_portfolio", fmt.Sprintf("Portfolio %q created", name))
	return nil
}

// ShowError returns the last rendered dashboard with err in its error slot, loading it only
// when nothing was rendered yet.
func (d *Dashboard) ShowError(ctx context.Context, err error) (DashboardState, error) {
	s, idErr := d.identity()
	if idErr != nil {
		return DashboardState{}, idErr
	}
	st, ok := d.snapshot(stateKeyFor(s, "dashboard"))
	if !ok {
		var loadErr error
		if st, loadErr = d.Load(ctx); loadErr != nil {
			return DashboardState{}, loadErr
		}
	}
	st.Flash = ""
	st.ActionError = domain.UserMessage(err, "Failed to create portfolio")
	return st, nil
}
