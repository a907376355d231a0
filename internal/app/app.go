package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"livedesk/internal/config"
	"livedesk/internal/logger"
	"livedesk/internal/store/sqlite"
	livehttp "livedesk/internal/transport/http/live"
)

// App wires configuration into the state aggregate and the HTTP surface.
// All mutable state lives inside the aggregate built here; nothing is a
// module-level variable.
type App struct {
	cfg        *config.Config
	server     *livehttp.Server
	auditStore *sqlite.Store
}

// NewApp builds the application object without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run serves until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.server == nil {
		return fmt.Errorf("http server not initialized")
	}
	defer a.close()

	logger.Infof("livedesk listening on %s (env=%s)", a.server.Addr(), a.cfg.App.Env)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil && err != context.Canceled {
			return fmt.Errorf("live http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

func (a *App) close() {
	if a.auditStore != nil {
		if err := a.auditStore.Close(); err != nil {
			logger.Warnf("closing audit store: %v", err)
		}
	}
}
