// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"sync"
	"time"

	// Registers the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"

	"github.com/assetwatch-io/assetwatch/internal/api"
	"github.com/assetwatch-io/assetwatch/internal/api/health"
	"github.com/assetwatch-io/assetwatch/internal/archive"
	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/cli"
	"github.com/assetwatch-io/assetwatch/internal/notify"
	"github.com/assetwatch-io/assetwatch/internal/response"
	"github.com/assetwatch-io/assetwatch/internal/rule"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// compositeLifecycle manages multiple Lifecycle components, starting them
// sequentially and stopping them concurrently.
type compositeLifecycle struct {
	components []cli.Lifecycle
}

func (c *compositeLifecycle) Start() {
	for _, comp := range c.components {
		comp.Start()
	}
}

func (c *compositeLifecycle) Stop(ctx context.Context) {
	var wg sync.WaitGroup
	for _, comp := range c.components {
		wg.Add(1)
		go func(lc cli.Lifecycle) {
			defer wg.Done()
			lc.Stop(ctx)
		}(comp)
	}
	wg.Wait()
}

// runnerLifecycle adapts a blocking run function to the Lifecycle contract.
// Start launches the function on its own goroutine; Stop cancels it and
// waits for it to return, bounded by the shutdown context.
type runnerLifecycle struct {
	run func(ctx context.Context)

	cancel context.CancelFunc
	done   chan struct{}
}

func (r *runnerLifecycle) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		r.run(ctx)
	}()
}

func (r *runnerLifecycle) Stop(ctx context.Context) {
	r.cancel()

	select {
	case <-r.done:
	case <-ctx.Done():
	}
}

// archiveLifecycle adapts the retention archiver to the Lifecycle contract.
type archiveLifecycle struct {
	archiver *archive.Archiver
	logger   *slog.Logger
}

func (a *archiveLifecycle) Start() {
	if err := a.archiver.Start(context.Background()); err != nil {
		cli.LogFatal(a.logger, "failed to start retention archiver", err)
	}
}

func (a *archiveLifecycle) Stop(
	_ context.Context,
) {
	a.archiver.Stop()
}

// storeBundle holds the opened persistence layer shared by the API server
// and the monitor.
type storeBundle struct {
	logs  auditlog.Store
	rules rule.Store

	// dbCheck verifies store connectivity for health reporting. Nil for the
	// memory backend.
	dbCheck func() error
	// close releases the underlying connection pool.
	close func()
}

// openStores opens the configured store backend, ensures the schema, and
// seeds the default detection rules.
func openStores(
	ctx context.Context,
	log *slog.Logger,
) *storeBundle {
	if appConfig.Database.Driver != "postgres" {
		log.Info("using in-memory stores", slog.String("driver", "memory"))

		rules := rule.NewMemoryStore()
		if err := rules.Seed(ctx, rule.DefaultRules()); err != nil {
			cli.LogFatal(log, "failed to seed detection rules", err)
		}

		return &storeBundle{
			logs:  auditlog.NewMemoryStore(),
			rules: rules,
			close: func() {},
		}
	}

	db, err := sql.Open("pgx", appConfig.Database.DSN)
	if err != nil {
		cli.LogFatal(log, "failed to open database", err)
	}
	if appConfig.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(appConfig.Database.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		cli.LogFatal(log, "failed to reach database", err)
	}

	logs := auditlog.NewPGStore(log, db)
	if err := logs.EnsureSchema(ctx); err != nil {
		cli.LogFatal(log, "failed to ensure audit schema", err)
	}

	rules := rule.NewPGStore(log, db)
	if err := rules.EnsureSchema(ctx); err != nil {
		cli.LogFatal(log, "failed to ensure rule schema", err)
	}
	if err := rules.Seed(ctx, rule.DefaultRules()); err != nil {
		cli.LogFatal(log, "failed to seed detection rules", err)
	}

	return &storeBundle{
		logs:    logs,
		rules:   rules,
		dbCheck: db.Ping,
		close:   func() { _ = db.Close() },
	}
}

// setupAPIServer creates the API server with all handlers registered. It is
// used by the standalone server start and combined start commands.
func setupAPIServer(
	log *slog.Logger,
	stores *storeBundle,
	center *notify.Center,
	natsCheck func() error,
	metricsHandler http.Handler,
	metricsPath string,
) *api.Server {
	sm := api.New(appConfig, log, api.WithAuditStore(stores.logs))

	responder := response.NewService(log, stores.logs)
	checker := &health.DependencyChecker{
		DBCheck:   stores.dbCheck,
		NATSCheck: natsCheck,
	}

	var handlers []func(e *echo.Echo)
	handlers = append(handlers, sm.GetAuditHandler(stores.logs, responder)...)
	handlers = append(handlers, sm.GetRulesHandler(stores.rules)...)
	handlers = append(handlers, sm.GetAlertsHandler(center)...)
	handlers = append(handlers, sm.GetHealthHandler(checker, time.Now(), version)...)
	if metricsHandler != nil {
		handlers = append(handlers, sm.GetMetricsHandler(metricsHandler, metricsPath)...)
	}
	sm.RegisterHandlers(handlers)

	return sm
}
