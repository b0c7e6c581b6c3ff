package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("http://unused", time.Second, zerolog.Nop())
	client.baseURL = server.URL
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8000/", 0, zerolog.Nop())
	assert.Equal(t, "http://localhost:8000", client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, Credentials{Username: "alice", Password: "pw"}, creds)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user_id": 1}`))
	})

	res, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, AuthResult{UserID: "1", Username: "alice"}, res)
}

func TestLogin_DetailMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid username or password"}`))
	})

	_, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "bad"})
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid username or password", apiErr.Message)
}

func TestRegister_FallbackMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	})

	_, err := client.Register(context.Background(), Credentials{Username: "bob", Password: "pw"})
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Registration failed", apiErr.Message)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Insufficient cash"}`, "Insufficient cash"},
		{"structured detail", `{"detail":[{"loc":["body","shares"],"msg":"field required"}]}`, `[{"loc":["body","shares"],"msg":"field required"}]`},
		{"null detail", `{"detail":null}`, "fallback"},
		{"empty detail", `{"detail":""}`, "fallback"},
		{"no detail", `{"error":"x"}`, "fallback"},
		{"not json", `<html>`, "fallback"},
		{"empty", ``, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body), "fallback"))
		})
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second, zerolog.Nop())
	_, err := client.Portfolios(context.Background(), "1")

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "portfolios", netErr.Op)

	var apiErr *domain.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestPortfolios(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("user_id"))
		w.Write([]byte(`[{"portfolio_id": 10, "name": "Main", "cash_balance": 1500.25}]`))
	})

	got, err := client.Portfolios(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
	assert.Equal(t, "Main", got[0].Name)
	assert.True(t, got[0].CashBalance.Equal(decimal.RequireFromString("1500.25")))
}

func TestPortfolioValueAndCash(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/portfolio/10/value":
			w.Write([]byte(`{"market_value": 320.5}`))
		case "/portfolio/10/cash":
			w.Write([]byte(`{"cash_balance": 99}`))
		default:
			http.NotFound(w, r)
		}
	})

	value, err := client.PortfolioValue(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.RequireFromString("320.5")))

	cash, err := client.PortfolioCash(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(99)))
}

func TestTransact_SignedSharesAndNumericPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolio/transaction", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"portfolio_id":10,"stock_symbol":"AAPL","shares":-2,"price_per_share":150.5}`, string(raw))
		w.Write([]byte(`{"status":"success","new_cash_balance":1301}`))
	})

	res, err := client.Transact(context.Background(), TransactionRequest{
		PortfolioID:   10,
		StockSymbol:   "AAPL",
		Shares:        -2,
		PricePerShare: decimal.RequireFromString("150.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
}

func TestTransact_InsufficientCash(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Insufficient cash"}`))
	})

	_, err := client.Transact(context.Background(), TransactionRequest{PortfolioID: 1, StockSymbol: "X", Shares: 1})
	assert.Equal(t, "Insufficient cash", domain.UserMessage(err, "Transaction failed"))
}

func TestTransfer_Body(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolio/3/transfer", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"amount":25,"target_portfolio_name":"Savings"}`, string(raw))
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.Transfer(context.Background(), 3, "Savings", decimal.NewFromInt(25)))
}

func TestMoneyPayloadsAreBareNumbers(t *testing.T) {
	var mu sync.Mutex
	bodies := make(map[string]string)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies[r.URL.Path] = string(raw)
		mu.Unlock()
		w.Write([]byte(`{}`))
	})
	ctx := context.Background()

	require.NoError(t, client.CreatePortfolio(ctx, NewPortfolio{UserID: "1", Name: "Main", CashBalance: decimal.RequireFromString("1000.50")}))
	require.NoError(t, client.Deposit(ctx, 3, decimal.RequireFromString("12.5")))

	mu.Lock()
	defer mu.Unlock()
	assert.JSONEq(t, `{"user_id":1,"name":"Main","cash_balance":1000.5}`, bodies["/create-portfolio"])
	assert.JSONEq(t, `{"amount":12.5}`, bodies["/portfolio/3/deposit"])
	assert.False(t, decimal.MarshalJSONWithoutQuotes, "importing the client leaves decimal's JSON encoding alone")
}

func TestStockLists_FillsCreator(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-stocklists", r.URL.Path)
		w.Write([]byte(`[{"stocklist_id":4,"name":"Tech","is_public":false}]`))
	})

	lists, err := client.StockLists(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, domain.UserID("7"), lists[0].CreatorID)
}

func TestPublicStockLists_MarksPublic(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"stocklist_id":5,"name":"Dividends","owner_username":"bob"}]`))
	})

	lists, err := client.PublicStockLists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.True(t, lists[0].IsPublic)
	assert.Equal(t, "bob", lists[0].OwnerUsername)
}

func TestDeleteStockList(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/delete-stocklist", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"stocklist_id":4,"user_id":7}`, string(raw))
		w.Write([]byte(`{"message":"Stocklist deleted"}`))
	})

	require.NoError(t, client.DeleteStockList(context.Background(), 4, "7"))
	assert.Equal(t, 1, calls)
}

func TestRemoveStockFromList_EscapesSymbol(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/stocklists/4/remove-stock/BRK.B", r.URL.Path)
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.RemoveStockFromList(context.Background(), 4, "BRK.B"))
}

func TestReviews_FillsStocklistID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocklists/4/my-reviews", r.URL.Path)
		w.Write([]byte(`[{"review_id":1,"reviewer_id":2,"username":"bob","content":"ok","timestamp":"2024-05-01T10:00:00"}]`))
	})

	reviews, err := client.Reviews(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, int64(4), reviews[0].StocklistID)
	assert.Equal(t, domain.UserID("2"), reviews[0].ReviewerID)
}

func TestUserID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("username") {
		case "bob":
			w.Write([]byte(`{"user_id": 2}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"User not found"}`))
		}
	})

	id, err := client.UserID(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("2"), id)

	_, err = client.UserID(context.Background(), "nobody")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestFriendRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/friend-requests":
			w.Write([]byte(`[{"from_id":3,"from_username":"carol","timestamp":"2024-01-01T00:00:00"}]`))
		case "/accept-friend-request":
			raw, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"sender_id":3,"receiver_id":1}`, string(raw))
			w.Write([]byte(`{"message":"Friend request accepted"}`))
		default:
			http.NotFound(w, r)
		}
	})

	incoming, err := client.IncomingRequests(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "carol", incoming[0].FromUsername)

	require.NoError(t, client.AcceptFriendRequest(context.Background(), "3", "1"))
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	assert.NoError(t, client.Ping(context.Background()))
}
