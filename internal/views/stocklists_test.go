package views

import (
	"context"
	"testing"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockLists_CreateWithEmptyName(t *testing.T) {
	fx := newFixture(t, true)
	c := NewStockLists(fx.backend, fx.store, fx.opts)

	_, err := c.Create(context.Background(), "   ", false)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, fx.backend.total())
}

func TestStockLists_Create(t *testing.T) {
	fx := newFixture(t, true)
	c := NewStockLists(fx.backend, fx.store, fx.opts)

	id, err := c.Create(context.Background(), "Tech", true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, domain.UserID("1"), fx.backend.createdList.CreatorID)
	assert.True(t, fx.backend.createdList.IsPublic)
}

func TestStockLists_DeclinedDeleteIssuesNoCall(t *testing.T) {
	fx := newFixture(t, true)
	c := NewStockLists(fx.backend, fx.store, fx.opts)

	var prompted string
	deleted, err := c.Delete(context.Background(), 4, ConfirmFunc(func(_ context.Context, prompt string) bool {
		prompted = prompt
		return false
	}))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NotEmpty(t, prompted)
	assert.Equal(t, 0, fx.backend.count("delete_stocklist"))

	deleted, err = c.Delete(context.Background(), 4, nil)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 0, fx.backend.count("delete_stocklist"))
}

func TestStockLists_ConfirmedDelete(t *testing.T) {
	fx := newFixture(t, true)
	c := NewStockLists(fx.backend, fx.store, fx.opts)

	deleted, err := c.Delete(context.Background(), 4, ConfirmFunc(func(context.Context, string) bool { return true }))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 1, fx.backend.count("delete_stocklist"))
}

func TestStockLists_DeleteForbidden(t *testing.T) {
	fx := newFixture(t, true)
	fx.backend.deleteErr = &domain.APIError{Status: 403, Message: "You do not own this stocklist"}
	c := NewStockLists(fx.backend, fx.store, fx.opts)

	_, err := c.Delete(context.Background(), 4, ConfirmFunc(func(context.Context, string) bool { return true }))
	assert.Equal(t, "You do not own this stocklist", domain.UserMessage(err, "Failed to delete stocklist"))
}

func TestStockLists_LoadPartitions(t *testing.T) {
	fx := newFixture(t, true)
	fx.backend.myLists = []domain.StockList{
		{ID: 1, Name: "Private", CreatorID: "1"},
		{ID: 2, Name: "Public", CreatorID: "1", IsPublic: true},
	}
	fx.backend.sharedLists = []domain.StockList{{ID: 3, Name: "From bob", OwnerUsername: "bob"}}
	fx.backend.publicLists = []domain.StockList{
		{ID: 2, Name: "Public", IsPublic: true, OwnerUsername: "alice"},
		{ID: 4, Name: "Bob public", IsPublic: true, OwnerUsername: "bob"},
	}
	c := NewStockLists(fx.backend, fx.store, fx.opts)

	st, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, st.Private, 1)
	require.Len(t, st.Public, 1)
	require.Len(t, st.Shared, 1)
	require.Len(t, st.Browse, 2)
	assert.Equal(t, permissions.CardShared, st.Shared[0].Kind)
	assert.False(t, st.Shared[0].CanDelete)
	assert.True(t, st.Browse[0].CanDelete)
	assert.False(t, st.Browse[1].CanDelete)
	assert.Empty(t, st.MineError)
}

func TestStockLists_OneFailingCollection(t *testing.T) {
	fx := newFixture(t, true)
	fx.backend.listsErr = &domain.APIError{Status: 500, Message: "db down"}
	fx.backend.publicLists = []domain.StockList{{ID: 4, Name: "Bob public", IsPublic: true}}
	c := NewStockLists(fx.backend, fx.store, fx.opts)

	st, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "db down", st.MineError)
	assert.Len(t, st.Browse, 1)
	assert.Empty(t, st.BrowseError)
}
