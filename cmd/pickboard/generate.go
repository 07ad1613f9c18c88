package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sujalbistaa/pickboard/internal/db"
	"github.com/sujalbistaa/pickboard/internal/render"
	"github.com/sujalbistaa/pickboard/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the static page from the database",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var generateOutput string

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (overrides config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateOutput != "" {
		cfg.Page.OutputFile = generateOutput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	database, err := db.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(database); err != nil {
		return err
	}

	generator, err := render.NewGenerator(cfg.Page, store.NewReports(database), store.NewVotes(database), logger)
	if err != nil {
		return err
	}
	n, err := generator.Generate(cmd.Context(), time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d posts to %s\n", n, cfg.Page.OutputFile)
	return nil
}
