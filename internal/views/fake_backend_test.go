package views

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aristath/stockcircle/internal/clients/backend"
	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/events"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeBackend records every call; responses come from its fields.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	authResult backend.AuthResult
	authErr    error

	portfolios    []domain.Portfolio
	portfoliosErr error
	values        map[int64]decimal.Decimal
	valueErrs     map[int64]error
	holdings      []domain.PortfolioHolding
	cash          decimal.Decimal
	latestPrice   decimal.Decimal
	latestErr     error
	transactErr   error
	lastTx        backend.TransactionRequest
	transferArgs  []interface{}

	transactions []domain.Transaction

	myLists     []domain.StockList
	sharedLists []domain.StockList
	publicLists []domain.StockList
	listsErr    error
	listValue   domain.StockListValue
	reviews     []domain.Review
	sharedUsers []domain.SharedUser
	stocks      []domain.Stock
	createdList backend.NewStockList
	deleteErr   error

	friends  []domain.Friend
	incoming []domain.IncomingRequest
	outgoing []domain.OutgoingRequest
	userIDs  map[string]domain.UserID
	lastPair [2]domain.UserID

	// hook runs at the start of every call
	hook func(op string)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:     make(map[string]int),
		values:    make(map[int64]decimal.Decimal),
		valueErrs: make(map[int64]error),
		userIDs:   make(map[string]domain.UserID),
	}
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) Login(_ context.Context, creds backend.Credentials) (backend.AuthResult, error) {
	f.record("login")
	if f.authErr != nil {
		return backend.AuthResult{}, f.authErr
	}
	res := f.authResult
	if res.Username == "" {
		res.Username = creds.Username
	}
	return res, nil
}

func (f *fakeBackend) Register(ctx context.Context, creds backend.Credentials) (backend.AuthResult, error) {
	f.record("register")
	if f.authErr != nil {
		return backend.AuthResult{}, f.authErr
	}
	res := f.authResult
	res.Username = creds.Username
	return res, nil
}

func (f *fakeBackend) Portfolios(context.Context, domain.UserID) ([]domain.Portfolio, error) {
	f.record("portfolios")
	return f.portfolios, f.portfoliosErr
}

func (f *fakeBackend) CreatePortfolio(context.Context, backend.NewPortfolio) error {
	f.record("create_portfolio")
	return nil
}

func (f *fakeBackend) PortfolioValue(_ context.Context, id int64) (decimal.Decimal, error) {
	f.record("portfolio_value")
	if err := f.valueErrs[id]; err != nil {
		return decimal.Zero, err
	}
	return f.values[id], nil
}

func (f *fakeBackend) PortfolioHoldings(context.Context, int64) ([]domain.PortfolioHolding, error) {
	f.record("portfolio_holdings")
	return f.holdings, nil
}

func (f *fakeBackend) PortfolioCash(context.Context, int64) (decimal.Decimal, error) {
	f.record("portfolio_cash")
	return f.cash, nil
}

func (f *fakeBackend) Transact(_ context.Context, tx backend.TransactionRequest) (backend.TransactionResult, error) {
	f.record("transaction")
	f.mu.Lock()
	f.lastTx = tx
	f.mu.Unlock()
	return backend.TransactionResult{Status: "success"}, f.transactErr
}

func (f *fakeBackend) Deposit(context.Context, int64, decimal.Decimal) error {
	f.record("deposit")
	return nil
}

func (f *fakeBackend) Withdraw(context.Context, int64, decimal.Decimal) error {
	f.record("withdraw")
	return nil
}

func (f *fakeBackend) Transfer(_ context.Context, id int64, target string, amount decimal.Decimal) error {
	f.record("transfer")
	f.transferArgs = []interface{}{id, target, amount.String()}
	return nil
}

func (f *fakeBackend) LatestPrice(_ context.Context, symbol string) (domain.LatestPrice, error) {
	f.record("latest_price")
	if f.latestErr != nil {
		return domain.LatestPrice{}, f.latestErr
	}
	return domain.LatestPrice{Symbol: symbol, LatestPrice: f.latestPrice}, nil
}

func (f *fakeBackend) UserTransactions(context.Context, domain.UserID) ([]domain.Transaction, error) {
	f.record("user_transactions")
	return f.transactions, nil
}

func (f *fakeBackend) StockLists(context.Context, domain.UserID) ([]domain.StockList, error) {
	f.record("stocklists")
	return f.myLists, f.listsErr
}

func (f *fakeBackend) SharedStockLists(context.Context, domain.UserID) ([]domain.StockList, error) {
	f.record("shared_stocklists")
	return f.sharedLists, nil
}

func (f *fakeBackend) PublicStockLists(context.Context) ([]domain.StockList, error) {
	f.record("public_stocklists")
	return f.publicLists, nil
}

func (f *fakeBackend) CreateStockList(_ context.Context, l backend.NewStockList) (int64, error) {
	f.record("create_stocklist")
	f.createdList = l
	return 42, nil
}

func (f *fakeBackend) DeleteStockList(context.Context, int64, domain.UserID) error {
	f.record("delete_stocklist")
	return f.deleteErr
}

func (f *fakeBackend) AddStockToList(context.Context, int64, string, int64) error {
	f.record("add_stock")
	return nil
}

func (f *fakeBackend) RemoveStockFromList(context.Context, int64, string) error {
	f.record("remove_stock")
	return nil
}

func (f *fakeBackend) StockListValue(context.Context, int64) (domain.StockListValue, error) {
	f.record("stocklist_value")
	return f.listValue, nil
}

func (f *fakeBackend) ShareStockList(context.Context, int64, domain.UserID) error {
	f.record("share_stocklist")
	return nil
}

func (f *fakeBackend) SharedUsers(context.Context, int64) ([]domain.SharedUser, error) {
	f.record("shared_users")
	return f.sharedUsers, nil
}

func (f *fakeBackend) Reviews(context.Context, int64) ([]domain.Review, error) {
	f.record("reviews")
	return f.reviews, nil
}

func (f *fakeBackend) CreateReview(context.Context, int64, domain.UserID, string) error {
	f.record("create_review")
	return nil
}

func (f *fakeBackend) DeleteReview(context.Context, int64) error {
	f.record("delete_review")
	return nil
}

func (f *fakeBackend) AllStocks(context.Context) ([]domain.Stock, error) {
	f.record("all_stocks")
	return f.stocks, nil
}

func (f *fakeBackend) UserID(_ context.Context, username string) (domain.UserID, error) {
	f.record("user_id")
	id, ok := f.userIDs[username]
	if !ok {
		return "", &domain.APIError{Status: 404, Message: "User not found"}
	}
	return id, nil
}

func (f *fakeBackend) Friends(context.Context, domain.UserID) ([]domain.Friend, error) {
	f.record("friends")
	return f.friends, nil
}

func (f *fakeBackend) IncomingRequests(context.Context, domain.UserID) ([]domain.IncomingRequest, error) {
	f.record("friend_requests")
	return f.incoming, nil
}

func (f *fakeBackend) OutgoingRequests(context.Context, domain.UserID) ([]domain.OutgoingRequest, error) {
	f.record("friend_outgoings")
	return nil, errors.New("outgoing unavailable")
}

func (f *fakeBackend) SendFriendRequest(_ context.Context, sender, receiver domain.UserID) error {
	f.record("send_friend_request")
	f.lastPair = [2]domain.UserID{sender, receiver}
	return nil
}

func (f *fakeBackend) AcceptFriendRequest(_ context.Context, sender, receiver domain.UserID) error {
	f.record("accept_friend_request")
	f.lastPair = [2]domain.UserID{sender, receiver}
	return nil
}

func (f *fakeBackend) RejectFriendRequest(_ context.Context, sender, receiver domain.UserID) error {
	f.record("reject_friend_request")
	f.lastPair = [2]domain.UserID{sender, receiver}
	return nil
}

func (f *fakeBackend) DeleteFriend(_ context.Context, userID, friendID domain.UserID) error {
	f.record("delete_friend")
	f.lastPair = [2]domain.UserID{userID, friendID}
	return nil
}

var _ Backend = (*fakeBackend)(nil)

type fixture struct {
	backend *fakeBackend
	storage *session.MemoryStorage
	store   *session.Store
	bus     *events.Bus
	opts    Options
}

// newFixture returns a logged-in session for alice (user 1) unless loggedIn is false.
func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()
	bus := events.NewBus(zerolog.Nop())
	storage := session.NewMemoryStorage()
	store, err := session.NewStore(storage, bus, zerolog.Nop())
	require.NoError(t, err)
	if loggedIn {
		require.NoError(t, store.Login("1", "alice"))
	}
	return &fixture{
		backend: newFakeBackend(),
		storage: storage,
		store:   store,
		bus:     bus,
		opts:    Options{Bus: bus, Log: zerolog.Nop()},
	}
}
