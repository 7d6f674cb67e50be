package cmd

import (
	"context"

	"cleansync/core/config"
	"cleansync/core/database"
	"cleansync/core/logger"
	"cleansync/core/storage"
	"cleansync/feature/calendar"
	"cleansync/feature/cleaning"
	"cleansync/feature/cleaning/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncConfigID   string
	syncPropertyID string
)

// syncCmd runs one sync pass and exits: a single configuration, one
// property's configurations, or everything that is due.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a one-shot calendar sync",
	Long: `Runs a calendar sync without starting the server: a single
configuration (--config), all configurations of a property (--property),
or every configuration that is due.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return err
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := cleaning.Migrate(db); err != nil {
			return err
		}

		var archiver *calendar.Archiver
		if cfg.Sync.ArchiveFeeds {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}
			archiver = calendar.NewArchiver(store, cfg.Storage.Bucket)
		}

		repo := cleaning.NewRepository(db)
		svc := cleaning.NewService(repo, archiver, logg, cfg.Sync)
		ctx := context.Background()

		var results []models.SyncResult
		switch {
		case syncConfigID != "":
			target, err := repo.ConfigurationByID(ctx, syncConfigID)
			if err != nil {
				return err
			}
			results = append(results, svc.SyncConfiguration(ctx, *target))
		case syncPropertyID != "":
			results, err = svc.SyncProperty(ctx, syncPropertyID)
			if err != nil {
				return err
			}
		default:
			results, err = svc.SyncDue(ctx)
			if err != nil {
				return err
			}
		}

		for _, r := range results {
			if r.Success {
				logg.Info("Sync succeeded",
					zap.String("sync_configuration_id", r.SyncConfigurationID),
					zap.Int("events_found", r.EventsFound),
					zap.Int("created", r.Created),
					zap.Int("updated", r.Updated),
					zap.Int("cancelled", r.Cancelled))
			} else {
				logg.Warn("Sync failed",
					zap.String("sync_configuration_id", r.SyncConfigurationID),
					zap.String("error", r.Error))
			}
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncConfigID, "config", "", "sync a single configuration by id")
	syncCmd.Flags().StringVar(&syncPropertyID, "property", "", "sync all configurations of one property")
	RootCmd.AddCommand(syncCmd)
}
