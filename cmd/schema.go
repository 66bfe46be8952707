package cmd

import (
	"context"
	"fmt"

	"tether/orm"
	"tether/schema"

	"github.com/spf13/cobra"
)

var flagSchemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Work with introspected relation schemas",
}

var schemaDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Introspect every relation and write the schema dump",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
		defer cancel()

		// Register every visible table so the container resolves them all.
		discoverAll := func(b *orm.Builder) error {
			gw, err := b.Gateway()
			if err != nil {
				return err
			}
			tables, err := gw.Tables(ctx)
			if err != nil {
				return err
			}
			for _, table := range tables {
				b.Relation(table)
			}
			return nil
		}

		container, err := cfg.Load(ctx, nil, discoverAll)
		if err != nil {
			return err
		}

		out := flagSchemaOut
		if out == "" {
			out = cfg.Schema()
		}
		if err := schema.Dump(out, cfg.Settings().Backend, container.Schemas()); err != nil {
			return err
		}

		successColor.Printf("Dumped %d relation schema(s)\n", len(container.Schemas()))
		fmt.Printf("  %s\n", schema.ResolveDumpPath(out))
		return nil
	},
}

func init() {
	schemaDumpCmd.Flags().StringVarP(&flagSchemaOut, "output", "o", "", "dump path (defaults to the configured schema path)")
	schemaCmd.AddCommand(schemaDumpCmd)
	rootCmd.AddCommand(schemaCmd)
}
