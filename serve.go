package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/camden-git/persongraph/cache"
	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/handlers"
	"github.com/camden-git/persongraph/realtime"
	"github.com/camden-git/persongraph/services"
	"github.com/camden-git/persongraph/workers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, event stream and address janitor",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	stats, err := database.NewStatsStore(db)
	if err != nil {
		return err
	}

	var hobbyCache services.HobbyCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLog.Warn("redis unavailable, hobby cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer client.Close()
			hobbyCache = cache.NewRedisHobbyCache(client, cfg.HobbyCacheTTL, appLog)
			appLog.Info("hobby cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.HobbyCacheTTL.String())
		}
	}

	hub := realtime.NewHub(appLog)
	persons := services.NewPersonService(db, hub, appLog)
	addresses := services.NewAddressService(db, hub, appLog)
	phones := services.NewPhoneService(db, hub, appLog)
	hobbies := services.NewHobbyService(db, stats, hobbyCache, appLog)

	janitor := workers.NewAddressJanitor(addresses, cfg.OrphanSweepInterval, appLog)

	router := handlers.NewRouter(handlers.RouterDeps{
		Persons:        persons,
		Addresses:      addresses,
		Phones:         phones,
		Hobbies:        hobbies,
		Stats:          stats,
		Events:         hub.ServeWS,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Log:            appLog,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     appLog.StdLog(zapcore.WarnLevel),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return janitor.Run(gctx)
	})
	g.Go(func() error {
		appLog.Info("server listening", "addr", server.Addr, "url", "http://localhost:"+cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("shutting down")
		janitor.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
