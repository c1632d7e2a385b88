package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/dailyenglish/internal/app"
	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/config"
	"github.com/abhisek/dailyenglish/internal/logging"
	"github.com/abhisek/dailyenglish/internal/state"
	"github.com/abhisek/dailyenglish/internal/store"
)

// runtime bundles what a command needs to drive the controller.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	ctrl   *app.Controller

	// catalogDone reports the background catalog fetch, nil without one.
	catalogDone <-chan bool
	cancel      context.CancelFunc
}

// openRuntime loads config, opens the store and builds the controller.
// When a remote catalog is configured it is fetched in the background.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))

	ctrl, err := app.New(ctx, app.Options{
		States:   state.NewRepo(st.KV(), logger),
		Events:   st.EventRepo(),
		Schedule: cfg.Schedule,
		Logger:   logger,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("start controller: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger, store: st, ctrl: ctrl, cancel: func() {}}
	if cfg.Catalog.RemoteURL != "" {
		fetchCtx, cancel := context.WithCancel(ctx)
		rt.cancel = cancel
		rt.catalogDone = ctrl.LoadCatalog(fetchCtx, newFetcher(cfg, logger))
	}
	return rt, nil
}

func newFetcher(cfg *config.Config, logger *zap.Logger) *catalog.Fetcher {
	return catalog.NewFetcher(cfg.Catalog.RemoteURL,
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.Catalog.Timeout}),
		catalog.WithLogger(logger))
}

// waitCatalog blocks until the background catalog fetch, if any, is done
// and refreshes the session against the result. It reports whether the
// remote catalog replaced the built-in one.
func (rt *runtime) waitCatalog(ctx context.Context) (bool, error) {
	if rt.catalogDone == nil {
		return false, nil
	}
	if replaced := <-rt.catalogDone; replaced {
		return true, rt.ctrl.Refresh(ctx)
	}
	return false, nil
}

func (rt *runtime) Close() {
	rt.cancel()
	rt.ctrl.Close()
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("close store failed", zap.Error(err))
	}
	_ = rt.logger.Sync()
}
