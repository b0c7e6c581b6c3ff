package di

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/stockcircle/internal/config"
	"github.com/aristath/stockcircle/internal/events"
	"github.com/aristath/stockcircle/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backendURL string) *config.Config {
	t.Helper()
	return &config.Config{
		BackendURL:            backendURL,
		BackendTimeout:        time.Second,
		DataDir:               t.TempDir(),
		Port:                  3000,
		FlashTTL:              time.Second,
		HealthProbeSchedule:   "@every 1m",
		WALCheckpointSchedule: "@hourly",
	}
}

func TestWire(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8000")

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, container)
	require.NotNil(t, jobs)
	t.Cleanup(func() { _ = container.Close() })

	// Verify container is fully populated
	assert.NotNil(t, container.DB)
	assert.NotNil(t, container.Storage)
	assert.NotNil(t, container.Bus)
	assert.NotNil(t, container.Session)
	assert.Equal(t, "http://localhost:8000", container.Backend.BaseURL())
	assert.NotNil(t, container.Auth)
	assert.NotNil(t, container.Dashboard)
	assert.NotNil(t, container.Portfolio)
	assert.NotNil(t, container.StockLists)
	assert.NotNil(t, container.StockListDetail)
	assert.NotNil(t, container.Friends)
	assert.NotNil(t, container.Transactions)

	// Integrity check schedule is empty in this config, so only two jobs are scheduled
	assert.Equal(t, 2, container.Scheduler.JobCount())
	assert.NotNil(t, jobs.BackendHealthProbe)
	assert.NotNil(t, jobs.CheckWALCheckpoints)
	assert.NotNil(t, jobs.CheckClientDatabase)

	assert.False(t, container.Session.Current().LoggedIn())
	// every page controller drops its state on session change
	assert.GreaterOrEqual(t, container.Bus.SubscriberCount(events.SessionChanged), 6)
}

func TestWire_RestoresSessionAcrossRestarts(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8000")

	first, _, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Session.Login("7", "alice"))
	require.NoError(t, first.Close())

	second, _, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	assert.Equal(t, session.Session{UserID: "7", Username: "alice"}, second.Session.Current())
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8000")
	cfg.WALCheckpointSchedule = "whenever"

	_, _, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestWire_HealthProbeReachesBackend(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	container, jobs, err := Wire(testConfig(t, srv.URL), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	var reachable *bool
	container.Bus.Subscribe(events.BackendStatusChanged, func(e events.Event) {
		r := e.Data.(*events.BackendStatusChangedData).Reachable
		reachable = &r
	})

	require.NoError(t, container.Scheduler.RunNow(jobs.BackendHealthProbe))
	assert.Equal(t, 1, hits)
	require.NotNil(t, reachable)
	assert.True(t, *reachable)
}
