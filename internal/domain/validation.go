package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation messages shown verbatim to the user.
const (
	MsgTransferIncomplete = "Please select a portfolio and enter amount"
	MsgSymbolRequired     = "Stock symbol is required"
	MsgSharesInvalid      = "Shares must be a positive whole number"
	MsgPriceInvalid       = "Price must be a positive number"
	MsgAmountInvalid      = "Amount must be a positive number"
	MsgListNameRequired   = "Stock list name is required"
	MsgPortfolioName      = "Portfolio name is required"
	MsgInitialCash        = "Initial cash must be zero or more"
	MsgCredentials        = "Username and password are required"
	MsgReviewRequired     = "Review content is required"
	MsgFriendRequired     = "Username is required"
)

// NormalizeSymbol trims and upper-cases a symbol, rejecting empty input.
func NormalizeSymbol(raw string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return "", NewValidationError("stock_symbol", MsgSymbolRequired)
	}
	return sym, nil
}

// ParseShares parses a strictly positive integer share count.
func ParseShares(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, NewValidationError("shares", MsgSharesInvalid)
	}
	return n, nil
}

// ParsePrice parses a strictly positive price.
func ParsePrice(raw string) (decimal.Decimal, error) {
	return parsePositive(raw, "price", MsgPriceInvalid)
}

// ParseAmount parses a strictly positive cash amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	return parsePositive(raw, "amount", MsgAmountInvalid)
}

func parsePositive(raw, field, msg string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, NewValidationError(field, msg)
	}
	return d, nil
}

// TradeInput is a buy or sell request as entered by the user. Price may be empty, in which
// case the latest price is looked up before submitting.
type TradeInput struct {
	Symbol string
	Shares string
	Price  string
}

// Trade is a validated trade.
type Trade struct {
	Symbol   string
	Shares   int64
	Price    decimal.Decimal
	HasPrice bool
}

// ValidateTrade checks symbol, shares and an optional price.
func ValidateTrade(in TradeInput) (Trade, error) {
	sym, err := NormalizeSymbol(in.Symbol)
	if err != nil {
		return Trade{}, err
	}
	shares, err := ParseShares(in.Shares)
	if err != nil {
		return Trade{}, err
	}
	t := Trade{Symbol: sym, Shares: shares}
	if strings.TrimSpace(in.Price) != "" {
		price, err := ParsePrice(in.Price)
		if err != nil {
			return Trade{}, err
		}
		t.Price = price
		t.HasPrice = true
	}
	return t, nil
}

// ValidateListHolding checks an add-stock form.
func ValidateListHolding(symbol, shares string) (string, int64, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return "", 0, err
	}
	n, err := ParseShares(shares)
	if err != nil {
		return "", 0, err
	}
	return sym, n, nil
}

// ValidateTransfer requires both a target portfolio and a positive amount.
func ValidateTransfer(target, amount string) (string, decimal.Decimal, error) {
	target = strings.TrimSpace(target)
	if target == "" || strings.TrimSpace(amount) == "" {
		return "", decimal.Zero, NewValidationError("transfer", MsgTransferIncomplete)
	}
	d, err := ParseAmount(amount)
	if err != nil {
		return "", decimal.Zero, err
	}
	return target, d, nil
}

// ValidateCredentials requires a non-empty username and password.
func ValidateCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", NewValidationError("credentials", MsgCredentials)
	}
	return username, nil
}

// ValidateName trims name and rejects empty input with msg.
func ValidateName(field, name, msg string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError(field, msg)
	}
	return name, nil
}

// ValidateNewPortfolio checks a create-portfolio form. An empty cash field means zero.
func ValidateNewPortfolio(name, cash string) (string, decimal.Decimal, error) {
	name, err := ValidateName("name", name, MsgPortfolioName)
	if err != nil {
		return "", decimal.Zero, err
	}
	cash = strings.TrimSpace(cash)
	if cash == "" {
		return name, decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cash)
	if err != nil || d.IsNegative() {
		return "", decimal.Zero, NewValidationError("cash_balance", MsgInitialCash)
	}
	return name, d, nil
}
