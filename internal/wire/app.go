package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/llm-roles/internal/adapter/memory"
	pgdb "github.com/alanyang/llm-roles/internal/adapter/postgres"
	pgeventbus "github.com/alanyang/llm-roles/internal/adapter/postgres/eventbus"
	pgrole "github.com/alanyang/llm-roles/internal/adapter/postgres/role"
	pgtemplate "github.com/alanyang/llm-roles/internal/adapter/postgres/template"
	"github.com/alanyang/llm-roles/internal/config"
	porteventbus "github.com/alanyang/llm-roles/internal/port/eventbus"
	portrole "github.com/alanyang/llm-roles/internal/port/role"
	porttemplate "github.com/alanyang/llm-roles/internal/port/template"

	promptsvc "github.com/alanyang/llm-roles/internal/service/prompt"
	rolesvc "github.com/alanyang/llm-roles/internal/service/role"
	templatesvc "github.com/alanyang/llm-roles/internal/service/template"

	"github.com/alanyang/llm-roles/internal/transport"
	mcptransport "github.com/alanyang/llm-roles/internal/transport/mcp"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Pool   *pgxpool.Pool
	Server *http.Server

	closers []func()
}

// Close releases the database resources. Safe on the in-memory setup.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	// ── Adapters ─────────────────────────────────────────────────────────────
	var (
		roleRepo     portrole.Repository
		templateRepo porttemplate.Repository
		eventBus     porteventbus.EventBus
	)
	if cfg.Server.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, using in-memory storage")
		roleRepo = memory.NewRoleRepository()
		templateRepo = memory.NewTemplateRepository()
		eventBus = memory.NewEventBus()
	} else {
		pool, err := pgdb.Connect(ctx, cfg.Server.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pgdb.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		bus := pgeventbus.New(pool)

		app.Pool = pool
		app.closers = append(app.closers, pool.Close, bus.Close)
		roleRepo = pgrole.New(pool)
		templateRepo = pgtemplate.New(pool)
		eventBus = bus
	}

	// ── Services ─────────────────────────────────────────────────────────────
	roleSvc := rolesvc.NewService(roleRepo, eventBus)
	templateSvc := templatesvc.NewService(templateRepo, eventBus)
	promptSvc := promptsvc.NewService(roleRepo, templateSvc, eventBus)

	mcpServer := mcptransport.New(promptSvc)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(
		ctx,
		transport.Options{JWTSecret: cfg.Server.JWTSecret},
		roleSvc,
		templateSvc,
		promptSvc,
		mcpServer,
		eventBus,
	)

	app.Server = &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	slog.Info("application wired", "addr", app.Server.Addr, "postgres", app.Pool != nil, "auth", cfg.Server.JWTSecret != "")
	return app, nil
}
