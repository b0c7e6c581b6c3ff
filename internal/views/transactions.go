package views

import (
	"context"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/session"
)

// TransactionsState is what the transactions page renders.
type TransactionsState struct {
	Transactions []domain.Transaction
	LoadError    string
}

// Transactions lists every trade of the user.
type Transactions struct {
	*page[TransactionsState]
	backend TransactionsBackend
}

// NewTransactions creates the transactions controller.
func NewTransactions(b TransactionsBackend, store *session.Store, opts Options) *Transactions {
	return &Transactions{
		page:    newPage[TransactionsState]("transactions", store, opts),
		backend: b,
	}
}

// Load fetches the transaction history.
func (c *Transactions) Load(ctx context.Context) (TransactionsState, error) {
	s, err := c.identity()
	if err != nil {
		return TransactionsState{}, err
	}
	h := c.tracker.Start(stateKeyFor(s, "transactions"))

	var st TransactionsState
	txs, err := c.backend.UserTransactions(ctx, s.UserID)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to fetch transactions")
		st.LoadError = domain.UserMessage(err, "Failed to fetch transactions")
	}
	st.Transactions = txs

	if err := c.commit(h, st); err != nil {
		return TransactionsState{}, err
	}
	return st, nil
}
