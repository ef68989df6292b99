package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/output"
)

type exportResult struct {
	File     string `json:"file"`
	Issues   int    `json:"issues"`
	Labels   int    `json:"labels"`
	Comments int    `json:"comments"`
	Links    int    `json:"links"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every issue, label, comment and link as JSON",
	Long: `Export the whole repository, deleted issues included, as one JSON
document. Without --file the document goes to stdout; with --json it is
wrapped in the usual envelope.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)
		filePath, _ := cmd.Flags().GetString("file")

		data, err := tr.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}

		if filePath == "" {
			if w.JSONMode {
				w.Success(data, "")
				return nil
			}
			return w.Raw(data)
		}

		f, err := os.Create(filePath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()

		if err := output.NewTo(f, io.Discard, false, true).Raw(data); err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}

		w.Success(exportResult{
			File:     filePath,
			Issues:   len(data.Issues),
			Labels:   len(data.Labels),
			Comments: len(data.Comments),
			Links:    len(data.Links),
		}, fmt.Sprintf("Exported %d issue(s) to %s", len(data.Issues), filePath))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("file", "f", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
