/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to handlers for access to services.
 */
package di

import (
	"github.com/aristath/stockcircle/internal/clients/backend"
	"github.com/aristath/stockcircle/internal/config"
	"github.com/aristath/stockcircle/internal/database"
	"github.com/aristath/stockcircle/internal/events"
	"github.com/aristath/stockcircle/internal/scheduler"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/aristath/stockcircle/internal/views"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Durable client storage
	DB      *database.DB
	Storage session.Storage

	// Cross-cutting
	Bus     *events.Bus
	Session *session.Store
	Backend *backend.Client

	// View controllers, one per page
	Auth            *views.Auth
	Dashboard       *views.Dashboard
	Portfolio       *views.PortfolioDetail
	StockLists      *views.StockLists
	StockListDetail *views.StockListDetail
	Friends         *views.Friends
	Transactions    *views.Transactions

	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to registered jobs for manual triggering
type JobInstances struct {
	BackendHealthProbe  *scheduler.BackendHealthProbeJob
	CheckWALCheckpoints *scheduler.CheckWALCheckpointsJob
	CheckClientDatabase *scheduler.CheckClientDatabaseJob
}

// Close stops background work and closes the database.
func (c *Container) Close() error {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
