package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sujalbistaa/pickboard/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the picks found in a report file as JSON",
	Long:  `Reads a report from <file> ("-" for stdin) and prints its sections and ranked picks.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var extractID int64

func init() {
	extractCmd.Flags().Int64Var(&extractID, "id", 0, "Report id to put in the output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	analysis := extract.Analyze(extract.Report{ID: extractID, Text: string(data)})
	logger.Debug().
		Int("stocks", len(analysis.Stocks)).
		Int("options", len(analysis.Options)).
		Str("language", string(analysis.Language)).
		Msg("Report analyzed")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(analysis)
}
