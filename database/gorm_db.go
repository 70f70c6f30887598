package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/camden-git/persongraph/config"
	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/models"
)

// SQLiteDSN appends the connection options every SQLite handle needs:
// enforced foreign keys, WAL, a busy timeout and immediate write transactions
// so concurrent writers queue instead of failing.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
}

// NewGormLogger routes GORM's logs through the application logger.
func NewGormLogger(appLog *logger.Logger, level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.New(
		appLog.StdLog(zapcore.InfoLevel),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// InitGormDB opens the configured store and returns a GORM database instance
func InitGormDB(cfg config.Config, appLog *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	target := cfg.DatabasePath
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
		target = "postgres"
	default:
		dialector = sqlite.Open(SQLiteDSN(cfg.DatabasePath))
	}

	level := gormlogger.Info
	if cfg.LogMode == "production" {
		level = gormlogger.Warn
	}

	db, err := Open(dialector, NewGormLogger(appLog, level))
	if err != nil {
		return nil, err
	}

	appLog.Info("GORM database initialized", "driver", cfg.DBDriver, "target", target)
	return db, nil
}

// Open connects with the given dialector and applies pool settings.
func Open(dialector gorm.Dialector, gormLogger gormlogger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// AutoMigrateModels creates or updates the directory schema.
// GORM derives the hobby_person join table from Person.Hobbies.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Address{},
		&models.Hobby{},
		&models.Person{},
		&models.Phone{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	return nil
}
