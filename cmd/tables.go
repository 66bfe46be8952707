package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the relations visible on the configured backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}

		gw, err := cfg.Gateway()
		if err != nil {
			return err
		}
		defer gw.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
		defer cancel()

		tables, err := gw.Tables(ctx)
		if err != nil {
			return err
		}

		headerColor.Printf("Relations on %s (%d)\n", gw.Backend(), len(tables))
		for _, name := range tables {
			fmt.Printf("  %s\n", name)
		}
		if len(tables) == 0 {
			infoColor.Println("  (none)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
