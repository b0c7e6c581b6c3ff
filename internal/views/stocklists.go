package views

import (
	"context"
	"fmt"

	"github.com/aristath/stockcircle/internal/clients/backend"
	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/fetch"
	"github.com/aristath/stockcircle/internal/permissions"
	"github.com/aristath/stockcircle/internal/session"
)

// StockListsState is what the stock lists overview renders.
type StockListsState struct {
	Private     []permissions.Card
	Public      []permissions.Card
	Shared      []permissions.Card
	Browse      []permissions.Card
	MineError   string
	SharedError string
	BrowseError string
	Flash       string
	ActionError string
}

// StockLists is the overview of the user's lists, lists shared with them and public lists.
type StockLists struct {
	*page[StockListsState]
	backend StockListBackend
}

// NewStockLists creates the stock lists controller.
func NewStockLists(b StockListBackend, store *session.Store, opts Options) *StockLists {
	return &StockLists{
		page:    newPage[StockListsState]("stock_lists", store, opts),
		backend: b,
	}
}

// Load fetches the three collections in parallel.
func (c *StockLists) Load(ctx context.Context) (StockListsState, error) {
	s, err := c.identity()
	if err != nil {
		return StockListsState{}, err
	}
	h := c.tracker.Start(stateKeyFor(s, "stock-lists"))

	var mine, shared, public fetch.Slot[[]domain.StockList]
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
	g.Wait()

	var st StockListsState
	st.Private, st.Public = permissions.PartitionOwn(mine.Value)
	st.Shared = permissions.SharedCards(shared.Value)
	st.Browse = permissions.PublicCards(s, public.Value)
	st.MineError = domain.UserMessage(mine.Err, "Failed to fetch my stock lists")
	st.SharedError = domain.UserMessage(shared.Err, "Failed to fetch shared stock lists")
	st.BrowseError = domain.UserMessage(public.Err, "Failed to fetch public stock lists")

	if err := c.commit(h, st); err != nil {
		return StockListsState{}, err
	}
	st.Flash = c.flash.Message()
	return st, nil
}

// Create validates and creates a list owned by the session user.
func (c *StockLists) Create(ctx context.Context, name string, isPublic bool) (int64, error) {
	s, err := c.identity()
	if err != nil {
		return 0, err
	}
	name, err = domain.ValidateName("name", name, domain.MsgListNameRequired)
	if err != nil {
		return 0, c.failed("create_stocklist", err)
	}
	id, err := c.backend.CreateStockList(ctx, backend.NewStockList{Name: name, IsPublic: isPublic, CreatorID: s.UserID})
	if err != nil {
		return 0, c.failed("create_stocklist", fmt.Errorf("create stocklist: %w", err))
	}
	c.succeeded("create_stocklist", fmt.Sprintf("Stock list %q created", name))
	return id, nil
}

// Delete asks confirm first; a declined confirmation issues no backend call and returns
// deleted=false.
func (c *StockLists) Delete(ctx context.Context, stocklistID int64, confirm Confirmer) (bool, error) {
	s, err := c.identity()
	if err != nil {
		return false, err
	}
	if confirm == nil || !confirm.Confirm(ctx, "Are you sure you want to delete this stock list?") {
		c.log.Debug().Int64("stocklist_id", stocklistID).Msg("Delete declined")
		return false, nil
	}
	if err := c.backend.DeleteStockList(ctx, stocklistID, s.UserID); err != nil {
		return false, c.failed("delete_stocklist", fmt.Errorf("delete stocklist: %w", err))
	}
	c.succeeded("delete_stocklist", "Stock list deleted")
	return true, nil
}

// ShowError returns the last rendered overview with err in its error slot.
func (c *StockLists) ShowError(ctx context.Context, err error, fallback string) (StockListsState, error) {
	s, idErr := c.identity()
	if idErr != nil {
		return StockListsState{}, idErr
	}
	st, ok := c.snapshot(stateKeyFor(s, "stock-lists"))
	if !ok {
		var loadErr error
		if st, loadErr = c.Load(ctx); loadErr != nil {
			return StockListsState{}, loadErr
		}
	}
	st.Flash = ""
	st.ActionError = domain.UserMessage(err, fallback)
	return st, nil
}
