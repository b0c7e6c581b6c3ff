package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aristath/stockcircle/internal/domain"
)

// LatestPrice returns the most recent close for symbol.
func (c *Client) LatestPrice(ctx context.Context, symbol string) (domain.LatestPrice, error) {
	var out domain.LatestPrice
	err := c.do(ctx, request{
		op:       "latest_price",
		method:   http.MethodGet,
		path:     "/stock/" + url.PathEscape(symbol) + "/latest-price",
		fallback: "Failed to fetch latest price",
	}, &out)
	return out, err
}

// AllStocks lists every known symbol.
func (c *Client) AllStocks(ctx context.Context) ([]domain.Stock, error) {
	var out []domain.Stock
	err := c.do(ctx, request{
		op:       "all_stocks",
		method:   http.MethodGet,
		path:     "/all-stocks",
		fallback: "Failed to fetch stocks",
	}, &out)
	return out, err
}
