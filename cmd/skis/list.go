package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/config"
	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/output"
	"github.com/ALT-F4-LLC/skis/internal/render"
)

type listResult struct {
	Issues []*model.Issue `json:"issues"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List issues",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("search")
		return runList(cmd, query)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search issue titles and bodies",
	Long: `Search issue titles and bodies. Every word must match, either whole or as
the start of a word, so "log" finds "login". The usual list filters apply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, strings.Join(args, " "))
	},
}

func runList(cmd *cobra.Command, query string) error {
	w := getWriter(cmd)
	tr := getTracker(cmd)

	f, err := filterFromFlags(cmd, getSettings(cmd))
	if err != nil {
		return err
	}
	f.Query = query

	issues, total, err := tr.ListIssues(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("listing issues: %w", err)
	}

	f = f.WithDefaults()
	w.Success(listResult{Issues: issues, Total: total, Limit: f.Limit, Offset: f.Offset},
		render.RenderIssueTable(issues, total))
	return nil
}

// filterFromFlags builds an IssueFilter from the list flags, falling back
// to the list settings for sort, order and limit.
func filterFromFlags(cmd *cobra.Command, s config.Settings) (model.IssueFilter, error) {
	stateFlag, _ := cmd.Flags().GetString("state")
	typeFlag, _ := cmd.Flags().GetString("type")
	labels, _ := cmd.Flags().GetStringSlice("label")
	deleted, _ := cmd.Flags().GetBool("deleted")
	sortFlag, _ := cmd.Flags().GetString("sort")
	orderFlag, _ := cmd.Flags().GetString("order")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	if sortFlag == "" {
		sortFlag = s.List.Sort
	}
	if orderFlag == "" {
		orderFlag = s.List.Order
	}
	if !cmd.Flags().Changed("limit") {
		limit = s.List.Limit
	}

	state, err := model.ParseStateFilter(stateFlag)
	if err != nil {
		return model.IssueFilter{}, cmdErr(err, output.ErrValidation)
	}
	var typ model.IssueType
	if typeFlag != "" {
		if typ, err = model.ParseIssueType(typeFlag); err != nil {
			return model.IssueFilter{}, cmdErr(err, output.ErrValidation)
		}
	}
	sortField, err := model.ParseSortField(sortFlag)
	if err != nil {
		return model.IssueFilter{}, cmdErr(err, output.ErrValidation)
	}
	order, err := model.ParseSortOrder(orderFlag)
	if err != nil {
		return model.IssueFilter{}, cmdErr(err, output.ErrValidation)
	}
	if limit <= 0 {
		return model.IssueFilter{}, cmdErr(fmt.Errorf("--limit must be positive"), output.ErrValidation)
	}
	if offset < 0 {
		return model.IssueFilter{}, cmdErr(fmt.Errorf("--offset must not be negative"), output.ErrValidation)
	}

	return model.IssueFilter{
		State:          state,
		Type:           typ,
		Labels:         labels,
		IncludeDeleted: deleted,
		Sort:           sortField,
		Order:          order,
		Limit:          limit,
		Offset:         offset,
	}, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("state", "s", string(model.StateFilterOpen), "Filter by state (open, closed, all)")
	cmd.Flags().StringP("type", "t", "", "Filter by type (epic, task, bug, request)")
	cmd.Flags().StringSliceP("label", "l", nil, "Require a label (repeatable, all must match)")
	cmd.Flags().Bool("deleted", false, "Include deleted issues")
	cmd.Flags().String("sort", "", "Sort by updated, created or id (default from settings)")
	cmd.Flags().String("order", "", "Sort order asc or desc (default from settings)")
	cmd.Flags().IntP("limit", "n", model.DefaultLimit, "Maximum number of results (default from settings)")
	cmd.Flags().Int("offset", 0, "Skip this many results")
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().String("search", "", "Full-text query over title and body")
	addFilterFlags(searchCmd)
	rootCmd.AddCommand(listCmd, searchCmd)
}
