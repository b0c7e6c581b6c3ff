package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want UserID
	}{
		{"number", `1`, "1"},
		{"string", `"42"`, "42"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id UserID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id UserID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestUserID_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		ID UserID `json:"id"`
	}{ID: "7"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(out))
}

func TestTimestamp_Layouts(t *testing.T) {
	for _, in := range []string{
		`"2024-03-01T10:20:30Z"`,
		`"2024-03-01T10:20:30.123456"`,
		`"2024-03-01 10:20:30"`,
	} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, time.March, ts.Month())
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestReviewDecoding(t *testing.T) {
	body := `[{"review_id":3,"reviewer_id":2,"username":"bob","content":"nice","timestamp":"2024-01-02T03:04:05"}]`

	var reviews []Review
	require.NoError(t, json.Unmarshal([]byte(body), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, UserID("2"), reviews[0].ReviewerID)
	assert.Equal(t, "bob", reviews[0].Username)
}

func TestTransaction_Direction(t *testing.T) {
	assert.Equal(t, TransactionSell, Transaction{Shares: -3}.Direction())
	assert.Equal(t, TransactionBuy, Transaction{Shares: 3}.Direction())
	assert.Equal(t, TransactionSell, Transaction{Type: "SELL", Shares: 3}.Direction())
	assert.Equal(t, int64(3), Transaction{Shares: -3}.DisplayShares())
}

func TestHoldingValue(t *testing.T) {
	h := ListHolding{Shares: 4, LatestPrice: decimal.RequireFromString("12.5")}
	assert.True(t, h.Value().Equal(decimal.NewFromInt(50)))
}
