package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aristath/stockcircle/internal/domain"
)

// StockLists returns the lists created by userID. The backend omits creator_id on this
// endpoint since it filters by creator, so it is filled in here.
func (c *Client) StockLists(ctx context.Context, userID domain.UserID) ([]domain.StockList, error) {
	var out []domain.StockList
	err := c.do(ctx, request{
		op:       "stocklists",
		method:   http.MethodGet,
		path:     "/get-stocklists",
		query:    userQuery(userID),
		fallback: "Failed to fetch stock lists",
	}, &out)
	for i := range out {
		if out[i].CreatorID == "" {
			out[i].CreatorID = userID
		}
	}
	return out, err
}

// SharedStockLists returns private lists other users shared with userID.
func (c *Client) SharedStockLists(ctx context.Context, userID domain.UserID) ([]domain.StockList, error) {
	var out []domain.StockList
	err := c.do(ctx, request{
		op:       "shared_stocklists",
		method:   http.MethodGet,
		path:     "/stocklists/stocklists-shared-with-me",
		query:    userQuery(userID),
		fallback: "Failed to fetch shared stock lists",
	}, &out)
	return out, err
}

// PublicStockLists returns every public list.
func (c *Client) PublicStockLists(ctx context.Context) ([]domain.StockList, error) {
	var out []domain.StockList
	err := c.do(ctx, request{
		op:       "public_stocklists",
		method:   http.MethodGet,
		path:     "/stocklists/get-public-stocklists",
		fallback: "Failed to fetch public stock lists",
	}, &out)
	for i := range out {
		out[i].IsPublic = true
	}
	return out, err
}

// NewStockList is the create-stocklist payload.
type NewStockList struct {
	Name      string        `json:"name"`
	IsPublic  bool          `json:"is_public"`
	CreatorID domain.UserID `json:"creator_id"`
}

// CreateStockList creates a list and returns its id.
func (c *Client) CreateStockList(ctx context.Context, l NewStockList) (int64, error) {
	var out struct {
		StocklistID int64 `json:"stocklist_id"`
	}
	err := c.do(ctx, request{
		op:       "create_stocklist",
		method:   http.MethodPost,
		path:     "/create-stocklist",
		body:     l,
		fallback: "Failed to create stocklist",
	}, &out)
	return out.StocklistID, err
}

// DeleteStockList deletes a list owned by userID.
func (c *Client) DeleteStockList(ctx context.Context, stocklistID int64, userID domain.UserID) error {
	return c.do(ctx, request{
		op:     "delete_stocklist",
		method: http.MethodDelete,
		path:   "/delete-stocklist",
		body: struct {
			StocklistID int64         `json:"stocklist_id"`
			UserID      domain.UserID `json:"user_id"`
		}{stocklistID, userID},
		fallback: "Failed to delete stocklist",
	}, nil)
}

// AddStockToList adds shares of symbol to a list.
func (c *Client) AddStockToList(ctx context.Context, stocklistID int64, symbol string, shares int64) error {
	return c.do(ctx, request{
		op:     "add_stock",
		method: http.MethodPost,
		path:   idPath("/stocklists/%d/add-stock", stocklistID),
		body: struct {
			StockSymbol string `json:"stock_symbol"`
			Shares      int64  `json:"shares"`
		}{symbol, shares},
		fallback: "Failed to add stock",
	}, nil)
}

// RemoveStockFromList removes symbol from a list.
func (c *Client) RemoveStockFromList(ctx context.Context, stocklistID int64, symbol string) error {
	return c.do(ctx, request{
		op:       "remove_stock",
		method:   http.MethodDelete,
		path:     idPath("/stocklists/%d/remove-stock/", stocklistID) + url.PathEscape(symbol),
		fallback: "Failed to remove stock",
	}, nil)
}

// StockListValue returns the list's holdings and total value.
func (c *Client) StockListValue(ctx context.Context, stocklistID int64) (domain.StockListValue, error) {
	var out domain.StockListValue
	err := c.do(ctx, request{
		op:       "stocklist_value",
		method:   http.MethodGet,
		path:     idPath("/stocklists/%d/value", stocklistID),
		fallback: "Failed to fetch stock list holdings",
	}, &out)
	return out, err
}

// ShareStockList shares a private list with another user.
func (c *Client) ShareStockList(ctx context.Context, stocklistID int64, userID domain.UserID) error {
	return c.do(ctx, request{
		op:     "share_stocklist",
		method: http.MethodPost,
		path:   idPath("/stocklists/%d/share", stocklistID),
		body: struct {
			UserID domain.UserID `json:"user_id"`
		}{userID},
		fallback: "Failed to share stocklist",
	}, nil)
}

// SharedUsers lists the users a list is shared with.
func (c *Client) SharedUsers(ctx context.Context, stocklistID int64) ([]domain.SharedUser, error) {
	var out []domain.SharedUser
	err := c.do(ctx, request{
		op:       "shared_users",
		method:   http.MethodGet,
		path:     idPath("/stocklists/%d/shared-users", stocklistID),
		fallback: "Failed to fetch shared users",
	}, &out)
	return out, err
}

// Reviews lists every review of a list.
func (c *Client) Reviews(ctx context.Context, stocklistID int64) ([]domain.Review, error) {
	var out []domain.Review
	err := c.do(ctx, request{
		op:       "reviews",
		method:   http.MethodGet,
		path:     idPath("/stocklists/%d/my-reviews", stocklistID),
		fallback: "Failed to fetch reviews",
	}, &out)
	for i := range out {
		out[i].StocklistID = stocklistID
	}
	return out, err
}

// CreateReview posts the reviewer's review of a list.
func (c *Client) CreateReview(ctx context.Context, stocklistID int64, reviewerID domain.UserID, content string) error {
	return c.do(ctx, request{
		op:     "create_review",
		method: http.MethodPost,
		path:   "/create-review",
		body: struct {
			ReviewerID  domain.UserID `json:"reviewer_id"`
			StocklistID int64         `json:"stocklist_id"`
			Content     string        `json:"content"`
		}{reviewerID, stocklistID, content},
		fallback: "Failed to submit review",
	}, nil)
}

// DeleteReview deletes a review by id.
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	return c.do(ctx, request{
		op:       "delete_review",
		method:   http.MethodDelete,
		path:     idPath("/reviews/%d", reviewID),
		fallback: "Failed to delete review",
	}, nil)
}
