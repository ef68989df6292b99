package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/output"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an issue's title, body, type or labels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		var upd model.IssueUpdate
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			upd.Title = &title
		}
		body, ok, err := readBodyFlags(cmd, os.Stdin)
		if err != nil {
			return err
		}
		if ok {
			upd.Body = &body
		}
		if cmd.Flags().Changed("type") {
			typeFlag, _ := cmd.Flags().GetString("type")
			typ, err := model.ParseIssueType(typeFlag)
			if err != nil {
				return cmdErr(err, output.ErrValidation)
			}
			upd.Type = &typ
		}

		addLabels, _ := cmd.Flags().GetStringSlice("add-label")
		removeLabels, _ := cmd.Flags().GetStringSlice("remove-label")

		if upd.IsEmpty() && len(addLabels) == 0 && len(removeLabels) == 0 {
			return cmdErr(fmt.Errorf("nothing to change: pass --title, --body, --body-file, --type, --add-label or --remove-label"), output.ErrValidation)
		}

		issue, err := tr.EditIssue(cmd.Context(), id, upd, addLabels, removeLabels)
		if err != nil {
			return fmt.Errorf("updating issue: %w", err)
		}

		w.Success(issue, fmt.Sprintf("Updated issue %s", model.FormatID(id)))
		return nil
	},
}

func init() {
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("type", "t", "", "New type (epic, task, bug, request)")
	editCmd.Flags().StringSlice("add-label", nil, "Attach an existing label (repeatable)")
	editCmd.Flags().StringSlice("remove-label", nil, "Detach a label (repeatable)")
	addBodyFlags(editCmd, "new body (markdown, empty to clear)")
	rootCmd.AddCommand(editCmd)
}
