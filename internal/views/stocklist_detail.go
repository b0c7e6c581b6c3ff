package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/fetch"
	"github.com/aristath/stockcircle/internal/permissions"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/shopspring/decimal"
)

// StockListDetailState is what the stock list detail page renders. Permission flags are not
// stored; they are derived from the live session on every render.
type StockListDetailState struct {
	StocklistID int64
	List        domain.StockList
	Found       bool
	Holdings    fetch.Slot[domain.StockListValue]
	Reviews     fetch.Slot[[]domain.Review]
	SharedUsers fetch.Slot[[]domain.SharedUser]
	Symbols     []string
	InfoError   string
	Flash       string
	ActionError string
}

// Permissions derives the page's flags for s. A list the backend did not return to this user
// grants nothing.
func (st StockListDetailState) Permissions(s session.Session) permissions.ListPermissions {
	if !st.Found {
		return permissions.ListPermissions{}
	}
	return permissions.Derive(s, st.List, st.Reviews.Value)
}

// TotalValue is the list's value as reported by the backend, or the sum of its items.
func (st StockListDetailState) TotalValue() decimal.Decimal {
	if !st.Holdings.Value.Value.IsZero() {
		return st.Holdings.Value.Value
	}
	total := decimal.Zero
	for _, item := range st.Holdings.Value.Items {
		total = total.Add(item.Value())
	}
	return total
}

// StockListDetail shows one list with its holdings and reviews.
type StockListDetail struct {
	*page[StockListDetailState]
	backend StockListBackend
}

// NewStockListDetail creates the stock list detail controller.
func NewStockListDetail(b StockListBackend, store *session.Store, opts Options) *StockListDetail {
	return &StockListDetail{
		page:    newPage[StockListDetailState]("stock_list", store, opts),
		backend: b,
	}
}

func listKey(id int64) string {
	return "list/" + strconv.FormatInt(id, 10)
}

// Load resolves the list's metadata from the user's own, shared and public lists while the
// holdings, reviews and symbol suggestions load alongside. Users a private list is shared with
// are fetched afterwards, only for the owner.
func (c *StockListDetail) Load(ctx context.Context, stocklistID int64) (StockListDetailState, error) {
	s, err := c.identity()
	if err != nil {
		return StockListDetailState{}, err
	}
	h := c.tracker.Start(stateKeyFor(s, listKey(stocklistID)))

	st := StockListDetailState{StocklistID: stocklistID}
	var (
		mine, shared, public fetch.Slot[[]domain.StockList]
		stocks               fetch.Slot[[]domain.Stock]
	)
	g := fetch.NewGroup(ctx)
	fetch.Into(g, &mine, func(ctx context.Context) ([]domain.StockList, error) {
		return c.backend.StockLists(ctx, s.UserID)
	})
	fetch.Into(g, &shared, func(ctx context.Context) ([]domain.StockList, error) {
		return c.backend.SharedStockLists(ctx, s.UserID)
	})
	fetch.Into(g, &public, func(ctx context.Context) ([]domain.StockList, error) {
		return c.backend.PublicStockLists(ctx)
	})
	fetch.Into(g, &st.Holdings, func(ctx context.Context) (domain.StockListValue, error) {
		return c.backend.StockListValue(ctx, stocklistID)
	})
	fetch.Into(g, &st.Reviews, func(ctx context.Context) ([]domain.Review, error) {
		return c.backend.Reviews(ctx, stocklistID)
	})
	fetch.Into(g, &stocks, func(ctx context.Context) ([]domain.Stock, error) {
		return c.backend.AllStocks(ctx)
	})
	g.Wait()

	st.List, st.Found = resolveList(stocklistID, mine.Value, shared.Value, public.Value)
	if !st.Found {
		for _, err := range []error{mine.Err, shared.Err, public.Err} {
			if err != nil {
				st.InfoError = domain.UserMessage(err, "Failed to fetch stock list")
				break
			}
		}
	}
	for _, stock := range stocks.Value {
		st.Symbols = append(st.Symbols, stock.StockSymbol)
	}

	if st.Found && permissions.CanShare(s, st.List) {
		users, err := c.backend.SharedUsers(ctx, stocklistID)
		st.SharedUsers = fetch.Slot[[]domain.SharedUser]{Value: users, Err: err}
	}

	if err := c.commit(h, st); err != nil {
		return StockListDetailState{}, err
	}
	st.Flash = c.flash.Message()
	return st, nil
}

// resolveList finds the list by id. Own lists win over shared ones, shared over public.
func resolveList(id int64, mine, shared, public []domain.StockList) (domain.StockList, bool) {
	for _, l := range mine {
		if l.ID == id {
			return l, true
		}
	}
	for _, l := range shared {
		if l.ID == id {
			l.IsPublic = false
			return l, true
		}
	}
	for _, l := range public {
		if l.ID == id {
			l.IsPublic = true
			return l, true
		}
	}
	return domain.StockList{ID: id}, false
}

// AddStock validates and adds shares of a symbol to the list.
func (c *StockListDetail) AddStock(ctx context.Context, stocklistID int64, symbol, shares string) error {
	if _, err := c.identity(); err != nil {
		return err
	}
	sym, n, err := domain.ValidateListHolding(symbol, shares)
	if err != nil {
		return c.failed("add_stock", err)
	}
	if err := c.backend.AddStockToList(ctx, stocklistID, sym, n); err != nil {
		return c.failed("add_stock", fmt.Errorf("add stock: %w", err))
	}
	c.succeeded("add_stock", fmt.Sprintf("Added %d %s", n, sym))
	return nil
}

// RemoveStock removes a symbol from the list.
func (c *StockListDetail) RemoveStock(ctx context.Context, stocklistID int64, symbol string) error {
	if _, err := c.identity(); err != nil {
		return err
	}
	sym, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return c.failed("remove_stock", err)
	}
	if err := c.backend.RemoveStockFromList(ctx, stocklistID, sym); err != nil {
		return c.failed("remove_stock", fmt.Errorf("remove stock: %w", err))
	}
	c.succeeded("remove_stock", fmt.Sprintf("Removed %s", sym))
	return nil
}

// Share resolves username and shares the list with that user.
func (c *StockListDetail) Share(ctx context.Context, stocklistID int64, username string) error {
	if _, err := c.identity(); err != nil {
		return err
	}
	username, err := domain.ValidateName("username", username, domain.MsgFriendRequired)
	if err != nil {
		return c.failed("share", err)
	}
	userID, err := c.backend.UserID(ctx, username)
	if err != nil {
		return c.failed("share", fmt.Errorf("share: %w", err))
	}
	if err := c.backend.ShareStockList(ctx, stocklistID, userID); err != nil {
		return c.failed("share", fmt.Errorf("share: %w", err))
	}
	c.succeeded("share", fmt.Sprintf("Shared with %s", username))
	return nil
}

// CreateReview posts the session user's review.
func (c *StockListDetail) CreateReview(ctx context.Context, stocklistID int64, content string) error {
	s, err := c.identity()
	if err != nil {
		return err
	}
	content, err = domain.ValidateName("content", content, domain.MsgReviewRequired)
	if err != nil {
		return c.failed("create_review", err)
	}
	if err := c.backend.CreateReview(ctx, stocklistID, s.UserID, content); err != nil {
		return c.failed("create_review", fmt.Errorf("create review: %w", err))
	}
	c.succeeded("create_review", "Review added!")
	return nil
}

// DeleteReview deletes a review.
func (c *StockListDetail) DeleteReview(ctx context.Context, reviewID int64) error {
	if _, err := c.identity(); err != nil {
		return err
	}
	if err := c.backend.DeleteReview(ctx, reviewID); err != nil {
		return c.failed("delete_review", fmt.Errorf("delete review: %w", err))
	}
	c.succeeded("delete_review", "Review deleted")
	return nil
}

// ShowError returns the last rendered state of the list with err in its error slot.
func (c *StockListDetail) ShowError(ctx context.Context, stocklistID int64, err error, fallback string) (StockListDetailState, error) {
	s, idErr := c.identity()
	if idErr != nil {
		return StockListDetailState{}, idErr
	}
	st, ok := c.snapshot(stateKeyFor(s, listKey(stocklistID)))
	if !ok {
		var loadErr error
		if st, loadErr = c.Load(ctx, stocklistID); loadErr != nil {
			return StockListDetailState{}, loadErr
		}
	}
	st.Flash = ""
	st.ActionError = domain.UserMessage(err, fallback)
	return st, nil
}
