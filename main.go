package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/camden-git/persongraph/config"
	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/logger"
)

var (
	cfg    config.Config
	appLog *logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "persongraph",
	Short: "Directory of people, their addresses, phones and hobbies",
	Long: `persongraph serves a directory of people together with their shared
addresses, phone numbers and hobbies over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLog != nil {
			appLog.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// bootstrap loads .env and config, then sets up logging for every command.
func bootstrap(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}

	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLog, err = logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(appLog.SugaredLogger.Desugar())
	return nil
}

// openDB connects to the configured store and brings the schema up to date.
func openDB() (*gorm.DB, func(), error) {
	db, err := database.InitGormDB(cfg, appLog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := database.AutoMigrateModels(db); err != nil {
		closeDB()
		return nil, nil, err
	}
	return db, closeDB, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()
		appLog.Info("schema is up to date", "driver", cfg.DBDriver)
		return nil
	},
}
