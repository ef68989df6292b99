package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/output"
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new issue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		typeFlag, _ := cmd.Flags().GetString("type")
		labels, _ := cmd.Flags().GetStringSlice("label")

		typ, err := model.ParseIssueType(typeFlag)
		if err != nil {
			return cmdErr(err, output.ErrValidation)
		}

		body, _, err := readBodyFlags(cmd, os.Stdin)
		if err != nil {
			return err
		}

		issue, err := tr.CreateIssue(cmd.Context(), model.IssueCreate{
			Title:  strings.Join(args, " "),
			Body:   body,
			Type:   typ,
			Labels: labels,
		})
		if err != nil {
			return fmt.Errorf("creating issue: %w", err)
		}

		w.Success(issue, fmt.Sprintf("Created issue %s", model.FormatID(issue.ID)))
		return nil
	},
}

func init() {
	createCmd.Flags().StringP("type", "t", string(model.IssueTypeTask), "Issue type (epic, task, bug, request)")
	createCmd.Flags().StringSliceP("label", "l", nil, "Attach an existing label (repeatable)")
	addBodyFlags(createCmd, "issue body (markdown)")
	rootCmd.AddCommand(createCmd)
}
