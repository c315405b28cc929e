package app

import (
	"context"
	"fmt"

	"studentdir/internal/config"
	"studentdir/internal/database"
	"studentdir/internal/model"
	"studentdir/internal/server"
	"studentdir/internal/service"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenDatabase opens the store and closes it when the app stops.
func OpenDatabase(lc fx.Lifecycle, cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return database.Close(db)
		},
	})
	return db, nil
}

// LoadRoster returns the students the configured profile serves: the roster file when one
// is configured, the built-in roster otherwise.
func LoadRoster(cfg config.ServerConfig, logger *zap.Logger) ([]model.Student, error) {
	if cfg.RosterFile != "" {
		result, err := service.NewRosterLoader(logger).LoadFile(cfg.RosterFile, cfg.Profile)
		if err != nil {
			return nil, err
		}
		return result.Students, nil
	}

	students, ok := model.Roster(cfg.Profile)
	if !ok {
		return nil, fmt.Errorf("no built-in roster for profile %q", cfg.Profile)
	}
	return students, nil
}

// NewStudentService replaces the stored roster of the profile and returns a service reading it.
func NewStudentService(db *gorm.DB, cfg config.ServerConfig, logger *zap.Logger) (*service.StudentService, error) {
	students, err := LoadRoster(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.ReplaceRoster(context.Background(), db, cfg.Profile, students); err != nil {
		return nil, err
	}
	logger.Info("roster seeded", zap.String("roster", cfg.Profile), zap.Int("students", len(students)))
	return service.NewStudentService(db, cfg.Profile), nil
}

// Options assembles the serve application.
func Options(cfg *config.Config, logger *zap.Logger) fx.Option {
	options := []fx.Option{
		fx.Supply(cfg.Server, cfg.Database, logger),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			OpenDatabase,
			NewStudentService,
		),
		server.Module,
	}
	if cfg.Server.ShutdownTimeout > 0 {
		options = append(options, fx.StopTimeout(cfg.Server.ShutdownTimeout))
	}
	return fx.Options(options...)
}
