package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/render"
)

type labelDeleteResult struct {
	Name     string `json:"name"`
	IssueIDs []int  `json:"issue_ids"`
}

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage labels",
}

var labelCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Define a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		description, _ := cmd.Flags().GetString("description")
		color, _ := cmd.Flags().GetString("color")

		label, err := tr.CreateLabel(cmd.Context(), args[0], description, strings.TrimPrefix(color, "#"))
		if err != nil {
			return err
		}

		w.Success(label, fmt.Sprintf("Created label '%s'", label.Name))
		return nil
	},
}

var labelListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List labels with their issue counts",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		labels, err := tr.ListLabels(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing labels: %w", err)
		}

		w.Success(labels, render.RenderLabelTable(labels))
		return nil
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a label and detach it from every issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		ids, err := tr.DeleteLabel(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w.Success(labelDeleteResult{Name: args[0], IssueIDs: ids},
			fmt.Sprintf("Deleted label '%s' (was on %d issue(s))", args[0], len(ids)))
		return nil
	},
}

var labelAddCmd = &cobra.Command{
	Use:   "add <id> <label>...",
	Short: "Attach labels to an issue",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		issue, err := tr.AddLabels(cmd.Context(), id, args[1:]...)
		if err != nil {
			return err
		}

		w.Success(issue, fmt.Sprintf("Labels on %s: %s", model.FormatID(id), strings.Join(issue.Labels, ", ")))
		return nil
	},
}

var labelRemoveCmd = &cobra.Command{
	Use:     "remove <id> <label>...",
	Short:   "Detach labels from an issue",
	Aliases: []string{"rm"},
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		issue, err := tr.RemoveLabels(cmd.Context(), id, args[1:]...)
		if err != nil {
			return err
		}

		w.Success(issue, fmt.Sprintf("Removed label(s) from %s", model.FormatID(id)))
		return nil
	},
}

func init() {
	labelCreateCmd.Flags().StringP("description", "d", "", "Label description")
	labelCreateCmd.Flags().String("color", "", "Label color as RRGGBB hex")
	labelCmd.AddCommand(labelCreateCmd, labelListCmd, labelDeleteCmd, labelAddCmd, labelRemoveCmd)
	rootCmd.AddCommand(labelCmd)
}
