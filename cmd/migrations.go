package cmd

import (
	"fmt"

	"tether/migrate"

	"github.com/spf13/cobra"
)

var migrationsCmd = &cobra.Command{
	Use:   "migrations",
	Short: "List the migration scripts under the configured directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}

		src := migrate.NewSource(cfg.Migrations(), cfg.MigrationsLogger())
		all, err := src.All()
		if err != nil {
			return err
		}

		headerColor.Printf("Migrations in %s (%d)\n", src.Dir(), len(all))
		for _, m := range all {
			fmt.Printf("  %6d  %s\n", m.Version, m.Name)
		}
		if len(all) == 0 {
			infoColor.Println("  (none)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrationsCmd)
}
