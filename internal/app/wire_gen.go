//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject

package app

import (
	"context"

	"livedesk/internal/audit"
	"livedesk/internal/config"
	"livedesk/internal/ingest"
	"livedesk/internal/logger"
	"livedesk/internal/store/sqlite"
	"livedesk/internal/telemetry"
	livehttp "livedesk/internal/transport/http/live"
)

func buildAppWithWire(_ context.Context, cfg *config.Config) (*App, error) {
	equity := provideEquityCell()
	account := provideAccountCell()
	history := provideHistoryStore()
	auditStore := provideAuditStore(cfg)
	trail := provideTrail(auditStore)
	coordinator := provideCoordinator(equity, account, history, trail)
	server, err := provideServer(cfg, coordinator, equity, account, history, trail)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, server: server, auditStore: auditStore}, nil
}

func provideEquityCell() *telemetry.EquityCell { return telemetry.NewEquityCell() }

func provideAccountCell() *telemetry.AccountCell { return telemetry.NewAccountCell() }

func provideHistoryStore() *telemetry.HistoryStore { return telemetry.NewHistoryStore() }

// provideAuditStore opens the durable sink when configured. Failure to open
// degrades to memory-only auditing rather than refusing to start.
func provideAuditStore(cfg *config.Config) *sqlite.Store {
	if cfg.Audit.DBPath == "" {
		return nil
	}
	store, err := sqlite.NewStore(cfg.Audit.DBPath)
	if err != nil {
		logger.Warnf("audit store unavailable (%s): %v", cfg.Audit.DBPath, err)
		return nil
	}
	return store
}

func provideTrail(store *sqlite.Store) *audit.Trail {
	var sink audit.Sink
	if store != nil {
		sink = store
	}
	return audit.NewTrail(audit.DefaultCapacity, sink)
}

func provideCoordinator(equity *telemetry.EquityCell, account *telemetry.AccountCell, history *telemetry.HistoryStore, trail *audit.Trail) *ingest.Coordinator {
	return ingest.NewCoordinator(equity, account, history, trail)
}

func provideServer(cfg *config.Config, coordinator *ingest.Coordinator, equity *telemetry.EquityCell, account *telemetry.AccountCell, history *telemetry.HistoryStore, trail *audit.Trail) (*livehttp.Server, error) {
	views := &livehttp.Router{
		Coordinator: coordinator,
		Equity:      equity,
		Account:     account,
		History:     history,
		Trail:       trail,
		AccountTTL:  cfg.Telemetry.AccountTTL(),
		HistoryTTL:  cfg.Telemetry.HistoryTTL(),
		RecentMax:   cfg.Audit.RecentMax,
	}
	return livehttp.NewServer(livehttp.ServerConfig{
		Addr:   cfg.App.HTTPAddr,
		APIKey: cfg.App.APIKey,
		Views:  views,
	})
}
