package main

import (
	"github.com/spf13/cobra"

	"github.com/camden-git/persongraph/cache"
	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the hobby catalogue",
	Long: `Upserts the hobby catalogue from SEED_FILE, or the built-in catalogue
when SEED_FILE is unset. Hobbies are matched by name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()

		repo := repository.NewHobbyRepository(db)
		hobbies := append([]models.Hobby(nil), repository.DefaultHobbies...)
		source := "built-in"
		if cfg.SeedFile != "" {
			hobbies, err = repo.LoadCatalogue(cfg.SeedFile)
			if err != nil {
				return err
			}
			source = cfg.SeedFile
		}

		n, err := repo.Upsert(ctx, hobbies)
		if err != nil {
			return err
		}
		appLog.Info("hobby catalogue seeded", "source", source, "hobbies", len(hobbies), "rows", n)

		if cfg.RedisAddr == "" {
			return nil
		}
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLog.Warn("could not reach redis; cached hobbies expire on their own", "error", err)
			return nil
		}
		defer client.Close()
		removed, err := cache.NewRedisHobbyCache(client, cfg.HobbyCacheTTL, appLog).Invalidate(ctx)
		if err != nil {
			return err
		}
		appLog.Info("hobby cache invalidated", "keys", removed)
		return nil
	},
}
