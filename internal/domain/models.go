// Package domain holds the entity types shared by the backend client, the permission
// rules and the view controllers, plus the error taxonomy and local validation rules.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UserID is an opaque user identifier. The backend sends it as a JSON number; it is kept
// as its decimal string so that it round-trips through durable storage unchanged.
type UserID string

// UnmarshalJSON accepts both numbers and strings.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as JSON numbers, which is what the backend expects.
func (id UserID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := json.Number(id).Int64(); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id UserID) String() string { return string(id) }

// Timestamp decodes the backend's datetime strings, which may omit the zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Portfolio is a named cash + holdings container owned by a user.
// MarketValue is not part of the list response; it is fetched per portfolio.
type Portfolio struct {
	ID          int64           `json:"portfolio_id"`
	Name        string          `json:"name"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	MarketValue decimal.Decimal `json:"-"`
}

// PortfolioHolding is a position inside a portfolio.
type PortfolioHolding struct {
	StockSymbol   string          `json:"stock_symbol"`
	CompanyName   string          `json:"company_name"`
	Shares        int64           `json:"shares"`
	LatestPrice   decimal.Decimal `json:"latest_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	PortfolioName string          `json:"portfolio_name"`
}

// ListHolding is a position inside a stock list.
type ListHolding struct {
	StockSymbol string          `json:"stock_symbol"`
	Shares      int64           `json:"shares"`
	LatestPrice decimal.Decimal `json:"latest_price"`
	MarketValue decimal.Decimal `json:"market_value"`
}

// Value returns shares x latest price.
func (h ListHolding) Value() decimal.Decimal {
	return h.LatestPrice.Mul(decimal.NewFromInt(h.Shares))
}

// Value returns shares x latest price.
func (h PortfolioHolding) Value() decimal.Decimal {
	return h.LatestPrice.Mul(decimal.NewFromInt(h.Shares))
}

// StockListValue is the valuation of a stock list with its items.
type StockListValue struct {
	StocklistID int64           `json:"stocklist_id"`
	Value       decimal.Decimal `json:"value"`
	Items       []ListHolding   `json:"items"`
}

// StockList is a named collection of stock positions.
// CreatorID is empty when the backend response did not carry it.
type StockList struct {
	ID            int64  `json:"stocklist_id"`
	Name          string `json:"name"`
	IsPublic      bool   `json:"is_public"`
	CreatorID     UserID `json:"creator_id,omitempty"`
	OwnerUsername string `json:"owner_username,omitempty"`
}

// Review is a user's text review of a stock list.
type Review struct {
	ID          int64     `json:"review_id"`
	StocklistID int64     `json:"stocklist_id,omitempty"`
	ReviewerID  UserID    `json:"reviewer_id"`
	Username    string    `json:"username"`
	Content     string    `json:"content"`
	Timestamp   Timestamp `json:"timestamp"`
}

// Friend is an accepted friendship.
type Friend struct {
	UserID   UserID `json:"user_id"`
	Username string `json:"username"`
}

// SharedUser is a user a private stock list is shared with.
type SharedUser struct {
	UserID   UserID `json:"user_id"`
	Username string `json:"username"`
}

// IncomingRequest is a pending friend request sent to the session user.
type IncomingRequest struct {
	FromID       UserID    `json:"from_id"`
	FromUsername string    `json:"from_username"`
	Timestamp    Timestamp `json:"timestamp"`
}

// OutgoingRequest is a pending friend request sent by the session user.
type OutgoingRequest struct {
	ToID       UserID    `json:"to_id"`
	ToUsername string    `json:"to_username"`
	Timestamp  Timestamp `json:"timestamp"`
}

// TransactionType is the direction of a trade.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Transaction is an immutable historical trade.
type Transaction struct {
	Timestamp     Timestamp       `json:"the_timestamp"`
	PortfolioName string          `json:"portfolio_name"`
	Type          TransactionType `json:"trans_type"`
	StockSymbol   string          `json:"stock_symbol"`
	Shares        int64           `json:"shares"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// DisplayShares returns the unsigned share count.
func (t Transaction) DisplayShares() int64 {
	if t.Shares < 0 {
		return -t.Shares
	}
	return t.Shares
}

// Direction returns the trade type, falling back to the sign of Shares when the backend
// omitted the type column.
func (t Transaction) Direction() TransactionType {
	if t.Type != "" {
		return TransactionType(strings.ToLower(string(t.Type)))
	}
	if t.Shares < 0 {
		return TransactionSell
	}
	return TransactionBuy
}

// Stock is a tradable symbol.
type Stock struct {
	StockSymbol string `json:"stock_symbol"`
}

// LatestPrice is the most recent close of a symbol.
type LatestPrice struct {
	Symbol      string          `json:"symbol"`
	LatestPrice decimal.Decimal `json:"latest_price"`
}
