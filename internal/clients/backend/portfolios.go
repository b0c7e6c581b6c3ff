package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/shopspring/decimal"
)

// Portfolios lists the user's portfolios. MarketValue is left zero.
func (c *Client) Portfolios(ctx context.Context, userID domain.UserID) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	err := c.do(ctx, request{
		op:       "portfolios",
		method:   http.MethodGet,
		path:     "/portfolios",
		query:    userQuery(userID),
		fallback: "Failed to fetch portfolios",
	}, &out)
	return out, err
}

// NewPortfolio is the create-portfolio payload.
type NewPortfolio struct {
	UserID      domain.UserID   `json:"user_id"`
	Name        string          `json:"name"`
	CashBalance decimal.Decimal `json:"cash_balance"`
}

func (p NewPortfolio) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UserID      domain.UserID `json:"user_id"`
		Name        string        `json:"name"`
		CashBalance number        `json:"cash_balance"`
	}{p.UserID, p.Name, number(p.CashBalance)})
}

// CreatePortfolio creates a portfolio with an initial cash balance.
func (c *Client) CreatePortfolio(ctx context.Context, p NewPortfolio) error {
	return c.do(ctx, request{
		op:       "create_portfolio",
		method:   http.MethodPost,
		path:     "/create-portfolio",
		body:     p,
		fallback: "Failed to create portfolio",
	}, nil)
}

// PortfolioValue returns the market value of a portfolio's holdings.
func (c *Client) PortfolioValue(ctx context.Context, portfolioID int64) (decimal.Decimal, error) {
	var out struct {
		MarketValue decimal.Decimal `json:"market_value"`
	}
	err := c.do(ctx, request{
		op:       "portfolio_value",
		method:   http.MethodGet,
		path:     idPath("/portfolio/%d/value", portfolioID),
		fallback: "Failed to fetch portfolio value",
	}, &out)
	return out.MarketValue, err
}

// PortfolioHoldings lists the positions in a portfolio.
func (c *Client) PortfolioHoldings(ctx context.Context, portfolioID int64) ([]domain.PortfolioHolding, error) {
	var out []domain.PortfolioHolding
	err := c.do(ctx, request{
		op:       "portfolio_holdings",
		method:   http.MethodGet,
		path:     idPath("/portfolio/%d/holdings", portfolioID),
		fallback: "Failed to fetch holdings",
	}, &out)
	return out, err
}

// PortfolioCash returns a portfolio's cash balance.
func (c *Client) PortfolioCash(ctx context.Context, portfolioID int64) (decimal.Decimal, error) {
	var out struct {
		CashBalance decimal.Decimal `json:"cash_balance"`
	}
	err := c.do(ctx, request{
		op:       "portfolio_cash",
		method:   http.MethodGet,
		path:     idPath("/portfolio/%d/cash", portfolioID),
		fallback: "Failed to fetch cash balance",
	}, &out)
	return out.CashBalance, err
}

// TransactionRequest is a buy (positive shares) or sell (negative shares).
type TransactionRequest struct {
	PortfolioID   int64           `json:"portfolio_id"`
	StockSymbol   string          `json:"stock_symbol"`
	Shares        int64           `json:"shares"`
	PricePerShare decimal.Decimal `json:"price_per_share"`
}

func (tx TransactionRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PortfolioID   int64  `json:"portfolio_id"`
		StockSymbol   string `json:"stock_symbol"`
		Shares        int64  `json:"shares"`
		PricePerShare number `json:"price_per_share"`
	}{tx.PortfolioID, tx.StockSymbol, tx.Shares, number(tx.PricePerShare)})
}

// TransactionResult is the backend's acknowledgement of a trade.
type TransactionResult struct {
	Status         string          `json:"status"`
	NewCashBalance decimal.Decimal `json:"new_cash_balance"`
}

// Transact submits a trade.
func (c *Client) Transact(ctx context.Context, tx TransactionRequest) (TransactionResult, error) {
	var out TransactionResult
	err := c.do(ctx, request{
		op:       "transaction",
		method:   http.MethodPost,
		path:     "/portfolio/transaction",
		body:     tx,
		fallback: "Transaction failed",
	}, &out)
	return out, err
}

type amountBody struct {
	Amount number `json:"amount"`
}

// Deposit adds cash to a portfolio.
func (c *Client) Deposit(ctx context.Context, portfolioID int64, amount decimal.Decimal) error {
	return c.do(ctx, request{
		op:       "deposit",
		method:   http.MethodPost,
		path:     idPath("/portfolio/%d/deposit", portfolioID),
		body:     amountBody{Amount: number(amount)},
		fallback: "Deposit failed",
	}, nil)
}

// Withdraw removes cash from a portfolio.
func (c *Client) Withdraw(ctx context.Context, portfolioID int64, amount decimal.Decimal) error {
	return c.do(ctx, request{
		op:       "withdraw",
		method:   http.MethodPost,
		path:     idPath("/portfolio/%d/withdraw", portfolioID),
		body:     amountBody{Amount: number(amount)},
		fallback: "Withdrawal failed",
	}, nil)
}

// Transfer moves cash to another of the user's portfolios, addressed by name.
func (c *Client) Transfer(ctx context.Context, portfolioID int64, targetName string, amount decimal.Decimal) error {
	return c.do(ctx, request{
		op:     "transfer",
		method: http.MethodPost,
		path:   idPath("/portfolio/%d/transfer", portfolioID),
		body: struct {
			Amount              number `json:"amount"`
			TargetPortfolioName string `json:"target_portfolio_name"`
		}{number(amount), targetName},
		fallback: "Transfer failed",
	}, nil)
}

// UserTransactions lists every trade across the user's portfolios.
func (c *Client) UserTransactions(ctx context.Context, userID domain.UserID) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := c.do(ctx, request{
		op:       "user_transactions",
		method:   http.MethodGet,
		path:     "/portfolio/user-transactions",
		query:    userQuery(userID),
		fallback: "Failed to fetch transactions",
	}, &out)
	return out, err
}
