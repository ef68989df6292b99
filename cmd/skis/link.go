package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/render"
)

type unlinkResult struct {
	IssueA int `json:"issue_a_id"`
	IssueB int `json:"issue_b_id"`
}

// linkArgs parses the two issue ids of link and unlink.
func linkArgs(args []string) (int, int, error) {
	a, err := parseIDArg(args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseIDArg(args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

var linkCmd = &cobra.Command{
	Use:   "link <id> <id>",
	Short: "Link two related issues",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		a, b, err := linkArgs(args)
		if err != nil {
			return err
		}

		link, err := tr.AddLink(cmd.Context(), a, b)
		if err != nil {
			return err
		}

		w.Success(link, fmt.Sprintf("Linked %s", link.LinkPair))
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <id> <id>",
	Short: "Remove the link between two issues",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)

		a, b, err := linkArgs(args)
		if err != nil {
			return err
		}
		pair, err := model.NewLinkPair(a, b)
		if err != nil {
			return err
		}

		if err := tr.RemoveLink(cmd.Context(), a, b); err != nil {
			return err
		}

		w.Success(unlinkResult{IssueA: pair.Low, IssueB: pair.High}, fmt.Sprintf("Unlinked %s", pair))
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links <id>",
	Short: "List the issues linked to an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		tr := getTracker(cmd)
		ctx := cmd.Context()

		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		issue, err := tr.GetIssue(ctx, id)
		if err != nil {
			return err
		}
		refs, err := tr.LinkedIssues(ctx, id)
		if err != nil {
			return err
		}

		msg := render.EmptyState(fmt.Sprintf("%s has no linked issues.", model.FormatID(id)), "", w.QuietMode)
		if len(refs) > 0 {
			msg = render.RenderLinks(issue, refs)
		}
		w.Success(refs, msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd, unlinkCmd, linksCmd)
}
