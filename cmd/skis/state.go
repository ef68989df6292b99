package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/output"
)

type closeResult struct {
	Issue   *model.Issue   `json:"issue"`
	Comment *model.Comment `json:"comment,omitempty"`
}

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		reasonFlag, _ := cmd.Flags().GetString("reason")
		reason, err := model.ParseStateReason(reasonFlag)
		if err != nil {
			return cmdErr(err, output.ErrValidation)
		}

		result := closeResult{}
		if cmd.Flags().Changed("comment") {
			body, _ := cmd.Flags().GetString("comment")
			result.Issue, result.Comment, err = tr.CloseIssueWithComment(cmd.Context(), id, reason, body)
		} else {
			result.Issue, err = tr.CloseIssue(cmd.Context(), id, reason)
		}
		if err != nil {
			return err
		}

		w.Success(result, fmt.Sprintf("Closed issue %s as %s", model.FormatID(id), result.Issue.StateReason))
		return nil
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Reopen a closed issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		issue, err := tr.ReopenIssue(cmd.Context(), id)
		if err != nil {
			return err
		}

		w.Success(issue, fmt.Sprintf("Reopened issue %s", model.FormatID(id)))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete an issue (it can be restored)",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		issue, err := tr.DeleteIssue(cmd.Context(), id)
		if err != nil {
			return err
		}

		w.Success(issue, fmt.Sprintf("Deleted issue %s", model.FormatID(id)))
		w.Hint("restore it with: skis restore %d", id)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a deleted issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		issue, err := tr.RestoreIssue(cmd.Context(), id)
		if err != nil {
			return err
		}

		w.Success(issue, fmt.Sprintf("Restored issue %s", model.FormatID(id)))
		return nil
	},
}

func init() {
	closeCmd.Flags().StringP("reason", "r", string(model.StateReasonCompleted), "Why the issue is closed (completed, not_planned)")
	closeCmd.Flags().StringP("comment", "c", "", "Add a closing comment")
	rootCmd.AddCommand(closeCmd, reopenCmd, deleteCmd, restoreCmd)
}
