package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/output"
	"github.com/ALT-F4-LLC/skis/internal/render"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage issue comments",
}

// commentBody takes the body from the flags or the remaining arguments.
func commentBody(cmd *cobra.Command, args []string) (string, error) {
	body, ok, err := readBodyFlags(cmd, os.Stdin)
	if err != nil {
		return "", err
	}
	if ok {
		return body, nil
	}
	if len(args) == 0 {
		return "", cmdErr(fmt.Errorf("comment body required: pass it as an argument, --body or --body-file"), output.ErrValidation)
	}
	return args[0], nil
}

var commentAddCmd = &cobra.Command{
	Use:   "add <id> [body]",
	Short: "Comment on an issue",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		body, err := commentBody(cmd, args[1:])
		if err != nil {
			return err
		}

		comment, err := tr.AddComment(cmd.Context(), id, body)
		if err != nil {
			return err
		}

		w.Success(comment, fmt.Sprintf("Added comment %s to issue %s", model.FormatID(comment.ID), model.FormatID(id)))
		return nil
	},
}

var commentListCmd = &cobra.Command{
	Use:     "list <id>",
	Short:   "List an issue's comments",
	Aliases: []string{"ls"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		comments, err := tr.ListComments(cmd.Context(), id)
		if err != nil {
			return err
		}

		msg := render.EmptyState("No comments yet.", fmt.Sprintf("Add one with: skis comment add %d <body>", id), w.QuietMode)
		if len(comments) > 0 {
			msg = render.RenderCommentList(comments)
		}
		w.Success(comments, msg)
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <comment-id> [body]",
	Short: "Replace a comment's body",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		body, err := commentBody(cmd, args[1:])
		if err != nil {
			return err
		}

		comment, err := tr.UpdateComment(cmd.Context(), id, body)
		if err != nil {
			return err
		}

		w.Success(comment, fmt.Sprintf("Updated comment %s", model.FormatID(id)))
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:     "delete <comment-id>",
	Short:   "Delete a comment",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		if err := tr.DeleteComment(cmd.Context(), id); err != nil {
			return err
		}

		w.Success(struct {
			ID int `json:"id"`
		}{ID: id}, fmt.Sprintf("Deleted comment %s", model.FormatID(id)))
		return nil
	},
}

func init() {
	addBodyFlags(commentAddCmd, "comment body (markdown)")
	addBodyFlags(commentEditCmd, "new comment body (markdown)")
	commentCmd.AddCommand(commentAddCmd, commentListCmd, commentEditCmd, commentDeleteCmd)
	rootCmd.AddCommand(commentCmd)
}
