package command

import (
	"yatube/internal/config"
	mysqlrepo "yatube/internal/repository/mysql"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Long:  `Creates the users, groups and posts tables with their foreign keys. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if appCfg.Database.Driver == config.DriverMemory {
			log.Warn().Msg("memory driver has nothing to migrate")
			return nil
		}

		st, err := openStores(appCfg)
		if err != nil {
			return err
		}
		defer st.Close()

		log.Info().Msg("running migrations")
		if err := mysqlrepo.Migrate(st.db); err != nil {
			return err
		}
		log.Info().Msg("migrations complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
