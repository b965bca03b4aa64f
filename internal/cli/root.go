package cli

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/questbot/internal/config"
	"github.com/alexanderramin/questbot/internal/db"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/alexanderramin/questbot/internal/repository"
	"github.com/alexanderramin/questbot/internal/service"
	"github.com/alexanderramin/questbot/internal/snapshot"
	"github.com/spf13/cobra"
)

// App holds everything CLI commands operate on.
type App struct {
	Engine    *engine.Engine
	Snapshots *snapshot.Store
	FocusLog  service.FocusLogService
	Autosave  *snapshot.Autosaver
	Config    config.Config
	Logger    *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means false.
	IsInteractive func() bool
}

// NewApp loads saved state from database and wires the engine to the
// debounced autosaver. Extra engine options are applied last.
func NewApp(database *sql.DB, cfg config.Config, catalog []string, logger *slog.Logger, opts ...engine.Option) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	uow := db.NewSQLiteUnitOfWork(database)
	store := snapshot.NewStore(database, uow,
		snapshot.WithDefaults(cfg.Settings(catalog)),
		snapshot.WithLogger(logger),
	)

	app := &App{
		Snapshots: store,
		FocusLog:  service.NewFocusLogService(repository.NewSQLiteFocusSessionRepo(database), uow),
		Config:    cfg,
		Logger:    logger,
	}

	observer := engine.UseCaseObserver(engine.NoopUseCaseObserver{})
	if cfg.LogCalls {
		observer = engine.NewLogUseCaseObserver(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	}
	engineOpts := append([]engine.Option{
		engine.WithLogger(logger),
		engine.WithObserver(observer),
		engine.WithOnChange(func() { app.Autosave.Notify() }),
	}, opts...)

	app.Engine = engine.New(store.Load(context.Background()), engineOpts...)
	app.Autosave = snapshot.NewAutosaver(cfg.SaveDebounce, func(ctx context.Context) error {
		return store.Save(ctx, app.Engine.Export())
	}, logger)
	if app.Engine.SeededOnStart() {
		app.Autosave.Notify()
	}
	return app
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// restoreSession re-applies the date and focus target saved by the previous
// command.
func (a *App) restoreSession(ctx context.Context) {
	sess := a.Snapshots.LoadSession(ctx)
	if sess.SelectedDate != "" {
		_ = a.Engine.SetDate(sess.SelectedDate)
	}
	a.Engine.RestoreSelection(sess.Selection)
}

func (a *App) saveSession(ctx context.Context) error {
	return a.Snapshots.SaveSession(ctx, snapshot.Session{
		SelectedDate: a.Engine.SelectedDate(),
		Selection:    a.Engine.Selection(),
	})
}

// Close flushes any pending snapshot write.
func (a *App) Close() error {
	return a.Autosave.Close()
}

// NewRootCmd creates the top-level "questbot" command. Every subcommand runs
// against the restored CLI session and persists it afterwards.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "questbot",
		Short:         "Gamified focus timer with quests, levels, and daily goals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.restoreSession(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.saveSession(cmd.Context()); err != nil {
				return err
			}
			return app.Autosave.Flush()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runFocusTUI(cmd, app)
			}
			return runStatus(cmd, app)
		},
	}

	root.AddCommand(
		newStatusCmd(app),
		newQuestCmd(app),
		newSubQuestCmd(app),
		newFocusCmd(app),
		newTrailCmd(app),
		newHistoryCmd(app),
		newSettingsCmd(app),
		newDateCmd(app),
	)

	return root
}
