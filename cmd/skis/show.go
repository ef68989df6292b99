package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/render"
)

type showResult struct {
	*model.IssueView
	Activity []model.Activity `json:"activity,omitempty"`
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show an issue with its labels, links and comments",
	Aliases: []string{"view"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)
		ctx := cmd.Context()

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		view, err := tr.ViewIssue(ctx, id)
		if err != nil {
			return err
		}

		var activity []model.Activity
		if n, _ := cmd.Flags().GetInt("activity"); n > 0 {
			if activity, err = tr.Activity(ctx, id, n); err != nil {
				return fmt.Errorf("fetching activity: %w", err)
			}
		}

		w.Success(showResult{IssueView: view, Activity: activity}, render.RenderDetail(view, activity))
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log <id>",
	Short: "Show the change history of an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		activity, err := tr.Activity(cmd.Context(), id, limit)
		if err != nil {
			return err
		}

		w.Success(activity, render.RenderActivity(activity))
		return nil
	},
}

func init() {
	showCmd.Flags().Int("activity", 5, "Show this many recent changes (0 to hide)")
	logCmd.Flags().IntP("limit", "n", 0, "Show at most this many entries (0 for all)")
	rootCmd.AddCommand(showCmd, logCmd)
}
