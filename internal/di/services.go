// Package di provides dependency injection for services.
package di

import (
	"fmt"

	"github.com/aristath/stockcircle/internal/clients/backend"
	"github.com/aristath/stockcircle/internal/config"
	"github.com/aristath/stockcircle/internal/events"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/aristath/stockcircle/internal/views"
	"github.com/rs/zerolog"
)

// InitializeServices creates the session store, the backend client and every view controller.
// The session store is created once here; controllers receive it explicitly.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.DB == nil {
		return fmt.Errorf("container database must be initialized first")
	}

	container.Bus = events.NewBus(log)
	container.Storage = session.NewSQLiteStorage(container.DB.Conn())

	store, err := session.NewStore(container.Storage, container.Bus, log)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	container.Session = store

	container.Backend = backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, log)

	opts := views.Options{
		Bus:      container.Bus,
		FlashTTL: cfg.FlashTTL,
		Log:      log,
	}
	container.Auth = views.NewAuth(container.Backend, store, log)
	container.Dashboard = views.NewDashboard(container.Backend, store, opts)
	container.Portfolio = views.NewPortfolioDetail(container.Backend, store, opts)
	container.StockLists = views.NewStockLists(container.Backend, store, opts)
	container.StockListDetail = views.NewStockListDetail(container.Backend, store, opts)
	container.Friends = views.NewFriends(container.Backend, store, opts)
	container.Transactions = views.NewTransactions(container.Backend, store, opts)

	log.Info().
		Str("backend_url", container.Backend.BaseURL()).
		Bool("restored_session", store.Current().LoggedIn()).
		Msg("Services initialized")
	return nil
}
