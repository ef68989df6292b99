package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

// safeIdentifier matches valid SQL column identifiers (lowercase letters and underscores only).
var safeIdentifier = regexp.MustCompile(`^[a-z_]+$`)

// ListIssues returns the page of issues selected by f and the total number
// of matches ignoring Limit and Offset. Predicates apply in order: state,
// type, labels (all must be present), soft-delete visibility, full-text
// query. Results are ordered by the sort field, then by ID ascending.
func ListIssues(ctx context.Context, q Querier, f model.IssueFilter) ([]*model.Issue, int, error) {
	f = f.WithDefaults()

	var (
		whereClauses []string
		args         []any
		joinClause   string
		groupBySQL   string
		havingSQL    string
	)

	switch f.State {
	case model.StateFilterOpen:
		whereClauses = append(whereClauses, "i.state = 'open'")
	case model.StateFilterClosed:
		whereClauses = append(whereClauses, "i.state = 'closed'")
	case model.StateFilterAll:
	default:
		if _, err := model.ParseStateFilter(string(f.State)); err != nil {
			return nil, 0, err
		}
	}

	if f.Type != "" {
		t, err := model.ParseIssueType(string(f.Type))
		if err != nil {
			return nil, 0, err
		}
		whereClauses = append(whereClauses, "i.type = ?")
		args = append(args, string(t))
	}

	// Labels filter: AND logic, the issue must carry every named label.
	if labels := normalizeLabelNames(f.Labels); len(labels) > 0 {
		joinClause = `JOIN issue_labels il ON il.issue_id = i.id
		              JOIN labels l ON l.id = il.label_id`
		whereClauses = append(whereClauses, fmt.Sprintf("l.name IN (%s)", makePlaceholders(len(labels))))
		for _, l := range labels {
			args = append(args, l)
		}
		groupBySQL = "GROUP BY i.id"
		havingSQL = fmt.Sprintf("HAVING COUNT(DISTINCT il.label_id) = %d", len(labels))
	}

	if !f.IncludeDeleted {
		whereClauses = append(whereClauses, "i.deleted_at IS NULL")
	}

	// A query with no searchable term matches nothing; only a blank query
	// leaves the text predicate out.
	noMatch := false
	if strings.TrimSpace(f.Query) != "" {
		if match := ftsQuery(f.Query); match != "" {
			whereClauses = append(whereClauses,
				"i.id IN (SELECT rowid FROM issues_fts WHERE issues_fts MATCH ?)")
			args = append(args, match)
		} else {
			noMatch = true
		}
	}

	orderSQL, err := orderClause(f.Sort, f.Order)
	if err != nil {
		return nil, 0, err
	}
	if noMatch {
		return []*model.Issue{}, 0, nil
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM (SELECT i.id FROM issues i %s %s %s %s)`,
		joinClause, whereSQL, groupBySQL, havingSQL,
	)
	var total int
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting issues: %w", err)
	}

	// Safe: orderSQL is built from allowlisted columns and directions only.
	mainQuery := fmt.Sprintf(
		`SELECT %s FROM issues i %s %s %s %s %s LIMIT ? OFFSET ?`,
		issueColumns, joinClause, whereSQL, groupBySQL, havingSQL, orderSQL,
	)
	mainArgs := make([]any, 0, len(args)+2)
	mainArgs = append(mainArgs, args...)
	mainArgs = append(mainArgs, f.Limit, f.Offset)

	issues, err := queryIssues(ctx, q, mainQuery, mainArgs...)
	if err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

// SearchIssues is ListIssues restricted to issues whose title or body
// match every term of query. Each whitespace-separated term matches as a
// word prefix.
func SearchIssues(ctx context.Context, q Querier, query string, f model.IssueFilter) ([]*model.Issue, int, error) {
	f.Query = query
	return ListIssues(ctx, q, f)
}

func orderClause(field model.SortField, order model.SortOrder) (string, error) {
	sf, err := model.ParseSortField(string(field))
	if err != nil {
		return "", err
	}
	so, err := model.ParseSortOrder(string(order))
	if err != nil {
		return "", err
	}

	col := sf.Column()
	// Defense-in-depth: reject any sort column that doesn't look like a plain column name.
	if !safeIdentifier.MatchString(col) {
		return "", fmt.Errorf("invalid sort column %q", col)
	}

	dir := "DESC"
	if so == model.SortAsc {
		dir = "ASC"
	}

	if sf == model.SortID {
		return fmt.Sprintf("ORDER BY i.id %s", dir), nil
	}
	return fmt.Sprintf("ORDER BY i.%s %s, i.id ASC", col, dir), nil
}

// ftsQuery turns free text into an FTS5 MATCH expression. Every term is
// quoted so user input cannot inject FTS syntax, and carries a prefix
// marker. Terms without letters or digits are dropped.
func ftsQuery(text string) string {
	var terms []string
	for _, field := range strings.Fields(text) {
		if !strings.ContainsFunc(field, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(field, `"`, `""`)+`"*`)
	}
	return strings.Join(terms, " ")
}

// normalizeLabelNames trims names and drops blanks and duplicates so the
// HAVING count matches the number of distinct labels. Duplicates are found
// with the store's NOCASE folding, which only folds ASCII letters.
func normalizeLabelNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := foldASCII(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// foldASCII lowercases A to Z only, matching SQLite's NOCASE collation.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
