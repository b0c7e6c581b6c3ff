package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aristath/stockcircle/internal/clients/backend"
	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/fetch"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide accepts "buy" or "sell".
func ParseSide(raw string) (Side, error) {
	switch Side(raw) {
	case Buy, Sell:
		return Side(raw), nil
	}
	return "", domain.NewValidationError("side", "Choose buy or sell")
}

// PortfolioState is what the portfolio detail page renders.
type PortfolioState struct {
	PortfolioID int64
	Name        string
	Holdings    fetch.Slot[[]domain.PortfolioHolding]
	Cash        fetch.Slot[decimal.Decimal]
	// other portfolios of the user, the transfer targets
	Targets     fetch.Slot[[]domain.Portfolio]
	Flash       string
	ActionError string
}

// HoldingsValue sums the market value of the loaded holdings.
func (s PortfolioState) HoldingsValue() decimal.Decimal {
	total := decimal.Zero
	for _, h := range s.Holdings.Value {
		total = total.Add(h.Value())
	}
	return total
}

// PortfolioDetail shows one portfolio and runs its trades and cash movements.
type PortfolioDetail struct {
	*page[PortfolioState]
	backend PortfolioBackend
}

// NewPortfolioDetail creates the portfolio detail controller.
func NewPortfolioDetail(b PortfolioBackend, store *session.Store, opts Options) *PortfolioDetail {
	return &PortfolioDetail{
		page:    newPage[PortfolioState]("portfolio", store, opts),
		backend: b,
	}
}

func portfolioKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Load fetches holdings, cash and the user's portfolios in parallel; each fails independently.
// A load superseded by a load of another portfolio, or by a session change, returns ErrStale.
func (c *PortfolioDetail) Load(ctx context.Context, portfolioID int64) (PortfolioState, error) {
	s, err := c.identity()
	if err != nil {
		return PortfolioState{}, err
	}
	h := c.tracker.Start(stateKeyFor(s, portfolioKey(portfolioID)))

	st := PortfolioState{PortfolioID: portfolioID}
	var all fetch.Slot[[]domain.Portfolio]

	g := fetch.NewGroup(ctx)
	fetch.Into(g, &st.Holdings, func(ctx context.Context) ([]domain.PortfolioHolding, error) {
		return c.backend.PortfolioHoldings(ctx, portfolioID)
	})
	fetch.Into(g, &st.Cash, func(ctx context.Context) (decimal.Decimal, error) {
		return c.backend.PortfolioCash(ctx, portfolioID)
	})
	fetch.Into(g, &all, func(ctx context.Context) ([]domain.Portfolio, error) {
		return c.backend.Portfolios(ctx, s.UserID)
	})
	g.Wait()

	st.Targets.Err = all.Err
	for _, p := range all.Value {
		if p.ID == portfolioID {
			st.Name = p.Name
			continue
		}
		st.Targets.Value = append(st.Targets.Value, p)
	}
	if st.Name == "" && len(st.Holdings.Value) > 0 {
		st.Name = st.Holdings.Value[0].PortfolioName
	}
	for _, slot := range []error{st.Holdings.Err, st.Cash.Err, st.Targets.Err} {
		if slot != nil {
			c.log.Warn().Err(slot).Int64("portfolio_id", portfolioID).Msg("Partial portfolio load")
		}
	}

	if err := c.commit(h, st); err != nil {
		return PortfolioState{}, err
	}
	st.Flash = c.flash.Message()
	return st, nil
}

// Trade validates and submits a buy or sell. Without a price the latest price is looked up
// first. Sells are sent as negative share counts. The executed price is returned.
func (c *PortfolioDetail) Trade(ctx context.Context, portfolioID int64, side Side, in domain.TradeInput) (decimal.Decimal, error) {
	if _, err := c.identity(); err != nil {
		return decimal.Zero, err
	}
	if _, err := ParseSide(string(side)); err != nil {
		return decimal.Zero, c.failed("trade", err)
	}
	trade, err := domain.ValidateTrade(in)
	if err != nil {
		return decimal.Zero, c.failed("trade", err)
	}

	price := trade.Price
	if !trade.HasPrice {
		latest, err := c.backend.LatestPrice(ctx, trade.Symbol)
		if err != nil {
			var apiErr *domain.APIError
			if errors.As(err, &apiErr) {
				err = &domain.APIError{Status: apiErr.Status, Message: "Stock not found or invalid"}
			}
			return decimal.Zero, c.failed("trade", fmt.Errorf("latest price %s: %w", trade.Symbol, err))
		}
		price = latest.LatestPrice
	}

	shares := trade.Shares
	if side == Sell {
		shares = -shares
	}
	_, err = c.backend.Transact(ctx, backend.TransactionRequest{
		PortfolioID:   portfolioID,
		StockSymbol:   trade.Symbol,
		Shares:        shares,
		PricePerShare: price,
	})
	if err != nil {
		return decimal.Zero, c.failed("trade", fmt.Errorf("transaction: %w", err))
	}

	c.succeeded("trade", fmt.Sprintf("Transaction successful at $%s per share!", price.StringFixed(2)))
	return price, nil
}

// Deposit adds cash.
func (c *PortfolioDetail) Deposit(ctx context.Context, portfolioID int64, amount string) error {
	return c.moveCash(ctx, "deposit", amount, func(ctx context.Context, d decimal.Decimal) error {
		return c.backend.Deposit(ctx, portfolioID, d)
	}, "Deposited $%s")
}

// Withdraw removes cash.
func (c *PortfolioDetail) Withdraw(ctx context.Context, portfolioID int64, amount string) error {
	return c.moveCash(ctx, "withdraw", amount, func(ctx context.Context, d decimal.Decimal) error {
		return c.backend.Withdraw(ctx, portfolioID, d)
	}, "Withdrew $%s")
}

func (c *PortfolioDetail) moveCash(ctx context.Context, action, amount string, call func(context.Context, decimal.Decimal) error, okFormat string) error {
	if _, err := c.identity(); err != nil {
		return err
	}
	d, err := domain.ParseAmount(amount)
	if err != nil {
		return c.failed(action, err)
	}
	if err := call(ctx, d); err != nil {
		return c.failed(action, fmt.Errorf("%s: %w", action, err))
	}
	c.succeeded(action, fmt.Sprintf(okFormat, d.StringFixed(2)))
	return nil
}

// Transfer moves cash to the portfolio named target.
func (c *PortfolioDetail) Transfer(ctx context.Context, portfolioID int64, target, amount string) error {
	if _, err := c.identity(); err != nil {
		return err
	}
	target, d, err := domain.ValidateTransfer(target, amount)
	if err != nil {
		return c.failed("transfer", err)
	}
	if err := c.backend.Transfer(ctx, portfolioID, target, d); err != nil {
		return c.failed("transfer", fmt.Errorf("transfer: %w", err))
	}
	c.succeeded("transfer", fmt.Sprintf("Transferred $%s to %s", d.StringFixed(2), target))
	return nil
}

// ShowError returns the last rendered state of the portfolio with err in its error slot.
// Collections are not re-fetched unless nothing was rendered yet.
func (c *PortfolioDetail) ShowError(ctx context.Context, portfolioID int64, err error, fallback string) (PortfolioState, error) {
	s, idErr := c.identity()
	if idErr != nil {
		return PortfolioState{}, idErr
	}
	st, ok := c.snapshot(stateKeyFor(s, portfolioKey(portfolioID)))
	if !ok {
		var loadErr error
		if st, loadErr = c.Load(ctx, portfolioID); loadErr != nil {
			return PortfolioState{}, loadErr
		}
	}
	st.Flash = ""
	st.ActionError = domain.UserMessage(err, fallback)
	return st, nil
}
