package cmd

import (
	"context"
	"v2-panel/core"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Create the inbounds table if it does not exist",
	RunE:         migrateCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

func migrateCmdF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	store, err := core.NewStore(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	log.Infof("Migrated %s database", *cfg.Database.Driver)
	return nil
}
