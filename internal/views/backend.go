package views

import (
	"context"

	"github.com/aristath/stockcircle/internal/clients/backend"
	"github.com/aristath/stockcircle/internal/domain"
	"github.com/shopspring/decimal"
)

// AuthBackend is what the login and register pages need.
type AuthBackend interface {
	Login(ctx context.Context, creds backend.Credentials) (backend.AuthResult, error)
	Register(ctx context.Context, creds backend.Credentials) (backend.AuthResult, error)
}

// PortfolioBackend is what the dashboard and portfolio pages need.
type PortfolioBackend interface {
	Portfolios(ctx context.Context, userID domain.UserID) ([]domain.Portfolio, error)
	CreatePortfolio(ctx context.Context, p backend.NewPortfolio) error
	PortfolioValue(ctx context.Context, portfolioID int64) (decimal.Decimal, error)
	PortfolioHoldings(ctx context.Context, portfolioID int64) ([]domain.PortfolioHolding, error)
	PortfolioCash(ctx context.Context, portfolioID int64) (decimal.Decimal, error)
	Transact(ctx context.Context, tx backend.TransactionRequest) (backend.TransactionResult, error)
	Deposit(ctx context.Context, portfolioID int64, amount decimal.Decimal) error
	Withdraw(ctx context.Context, portfolioID int64, amount decimal.Decimal) error
	Transfer(ctx context.Context, portfolioID int64, targetName string, amount decimal.Decimal) error
	LatestPrice(ctx context.Context, symbol string) (domain.LatestPrice, error)
}

// TransactionsBackend is what the transactions page needs.
type TransactionsBackend interface {
	UserTransactions(ctx context.Context, userID domain.UserID) ([]domain.Transaction, error)
}

// StockListBackend is what the stock list pages need.
type StockListBackend interface {
	StockLists(ctx context.Context, userID domain.UserID) ([]domain.StockList, error)
	SharedStockLists(ctx context.Context, userID domain.UserID) ([]domain.StockList, error)
	PublicStockLists(ctx context.Context) ([]domain.StockList, error)
	CreateStockList(ctx context.Context, l backend.NewStockList) (int64, error)
	DeleteStockList(ctx context.Context, stocklistID int64, userID domain.UserID) error
	AddStockToList(ctx context.Context, stocklistID int64, symbol string, shares int64) error
	RemoveStockFromList(ctx context.Context, stocklistID int64, symbol string) error
	StockListValue(ctx context.Context, stocklistID int64) (domain.StockListValue, error)
	ShareStockList(ctx context.Context, stocklistID int64, userID domain.UserID) error
	SharedUsers(ctx context.Context, stocklistID int64) ([]domain.SharedUser, error)
	Reviews(ctx context.Context, stocklistID int64) ([]domain.Review, error)
	CreateReview(ctx context.Context, stocklistID int64, reviewerID domain.UserID, content string) error
	DeleteReview(ctx context.Context, reviewID int64) error
	AllStocks(ctx context.Context) ([]domain.Stock, error)
	UserID(ctx context.Context, username string) (domain.UserID, error)
}

// FriendsBackend is what the friends page needs.
type FriendsBackend interface {
	Friends(ctx context.Context, userID domain.UserID) ([]domain.Friend, error)
	IncomingRequests(ctx context.Context, userID domain.UserID) ([]domain.IncomingRequest, error)
	OutgoingRequests(ctx context.Context, userID domain.UserID) ([]domain.OutgoingRequest, error)
	UserID(ctx context.Context, username string) (domain.UserID, error)
	SendFriendRequest(ctx context.Context, sender, receiver domain.UserID) error
	AcceptFriendRequest(ctx context.Context, sender, receiver domain.UserID) error
	RejectFriendRequest(ctx context.Context, sender, receiver domain.UserID) error
	DeleteFriend(ctx context.Context, userID, friendID domain.UserID) error
}

// Backend is the full backend surface; *backend.Client implements it.
type Backend interface {
	AuthBackend
	PortfolioBackend
	TransactionsBackend
	StockListBackend
	FriendsBackend
}

var _ Backend = (*backend.Client)(nil)
