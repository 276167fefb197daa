package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os/user"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alexanderramin/timebox/internal/cli"
	"github.com/alexanderramin/timebox/internal/db"
	"github.com/alexanderramin/timebox/internal/gcal"
	"github.com/alexanderramin/timebox/internal/intelligence"
	"github.com/alexanderramin/timebox/internal/keyring"
	"github.com/alexanderramin/timebox/internal/llm"
	"github.com/alexanderramin/timebox/internal/ratelimit"
	"github.com/alexanderramin/timebox/internal/repository"
	"github.com/alexanderramin/timebox/internal/service"
)

// Build opens storage and wires every service into a cli.App. The returned
// cleanup closes the databases.
func Build(cfg Config, logger *log.Logger) (*cli.App, func(), error) {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closers := []*sql.DB{database}
	cleanup := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	settingsDeps := service.SettingsDeps{DB: database}
	if cfg.SettingsDSN != "" {
		pg, err := db.OpenPostgres(cfg.SettingsDSN)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, pg)
		settingsDeps = service.SettingsDeps{
			DB: pg,
			Repo: func(conn db.DBTX) repository.SettingsRepo {
				return repository.NewPostgresSettingsRepo(conn)
			},
		}
		logger.Debug("using postgres settings store")
	}

	observer := service.NewLogUseCaseObserver(logger)
	settings := service.NewSettingsService(settingsDeps, observer)

	deps := service.PlannerDeps{
		DB:       database,
		Settings: settings,
		Gate: ratelimit.NewSQLiteLimiter(database,
			ratelimit.WithPolicy(cfg.RateLimit, cfg.RateWindow),
			ratelimit.WithLogger(logger),
		),
	}
	if cfg.LLM.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			llmObserver = llm.NewLogObserver(logger)
		}
		client := llm.NewClient(cfg.LLM, llmObserver)
		deps.Goals = intelligence.NewGoalService(client)
		deps.Schedule = intelligence.NewScheduleService(client)
		deps.Classify = intelligence.NewClassifyService(client)
	}

	app := &cli.App{
		Settings: settings,
		Planner:  service.NewPlannerService(deps, observer),
		Secrets:  keyring.Store{},
		Identity: identity(),
		Location: time.Local,
		Logger:   logger,
		Calendar: func(ctx context.Context) (cli.CalendarExporter, error) {
			srv, err := gcal.NewService(ctx, cfg.ConfigDir)
			if err != nil {
				return nil, err
			}
			return gcal.NewExporter(srv, cfg.CalendarID), nil
		},
		Authorize: func(ctx context.Context, out io.Writer) error {
			return authorizeGoogle(ctx, cfg.ConfigDir, out)
		},
	}
	return app, cleanup, nil
}

func authorizeGoogle(ctx context.Context, configDir string, out io.Writer) error {
	oauthCfg, err := gcal.LoadConfig(configDir)
	if err != nil {
		return err
	}
	a := &gcal.Authorizer{
		Config: oauthCfg,
		OnURL: func(url string) {
			fmt.Fprintf(out, "Open this URL in your browser to authorize timebox:\n\n  %s\n\n", url)
		},
	}
	tok, err := a.Authorize(ctx)
	if err != nil {
		return err
	}
	return gcal.SaveToken(configDir, tok)
}

// identity keys the generation rate limit to the local OS user.
func identity() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
