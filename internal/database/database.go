package database

import (
	"context"
	"fmt"

	"studentdir/internal/config"
	"studentdir/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedBatchSize = 1000

// Open connects to the configured database and migrates the students table.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = ":memory:"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewGormLogger(logger)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// every pooled connection to :memory: would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.Student{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate the database: %w", err)
	}

	logger.Info("database ready", zap.String("driver", cfg.Driver))
	return db, nil
}

// Seed inserts students in batches. Rows whose (roster, id) already exist are left untouched.
func Seed(ctx context.Context, db *gorm.DB, students []model.Student) error {
	if len(students) == 0 {
		return nil
	}

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&students, seedBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to seed students: %w", err)
	}
	return nil
}

// ReplaceRoster swaps every stored student of roster for students in one transaction, so ids
// absent from students stop being served.
func ReplaceRoster(ctx context.Context, db *gorm.DB, roster string, students []model.Student) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("roster = ?", roster).Delete(&model.Student{}).Error; err != nil {
			return fmt.Errorf("failed to clear roster %s: %w", roster, err)
		}
		return Seed(ctx, tx, students)
	})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
