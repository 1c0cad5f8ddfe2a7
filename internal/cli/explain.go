package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/query"
	"github.com/roach88/shelf/internal/queryir"
	"github.com/roach88/shelf/internal/querysql"
)

// ExplainUnit describes how one unit of a query will be resolved.
type ExplainUnit struct {
	Unit      string   `json:"unit"`
	Kind      string   `json:"kind"`
	Expr      string   `json:"expr"`
	Pushdown  bool     `json:"pushdown"`
	SQL       string   `json:"sql,omitempty"`
	Params    []any    `json:"params,omitempty"`
	ScanAttrs []string `json:"scan_attrs,omitempty"`
}

// ExplainResult is the interpreted form of a query.
type ExplainResult struct {
	Query      string        `json:"query"`
	Collection string        `json:"collection"`
	Combinator string        `json:"combinator"`
	Expr       string        `json:"expr"`
	Units      []ExplainUnit `json:"units"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <query>",
		Short: "Show how a query is interpreted",
		Long: `Parse, validate and translate a query without running it.

For every unit, prints the filter expression and either the SQL it is
pushed down as or the collection scan a value wildcard needs.
No database is opened.

Examples:
  shelf explain 'book.*_count : "412"'
  shelf explain --format json 'author.author_name : "Martin*" OR author.author_url : "aaa"'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runExplain(opts *RootOptions, q string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result, err := Explain(q)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	writeExplainText(formatter.Writer, result)
	return nil
}

// Explain compiles a query and describes its execution plan.
func Explain(q string) (ExplainResult, error) {
	plan, err := query.Compile(q)
	if err != nil {
		return ExplainResult{}, err
	}

	comb := string(plan.Combinator)
	if plan.Combinator == query.CombNone {
		comb = "none"
	}

	result := ExplainResult{
		Query:      q,
		Collection: string(plan.Collection),
		Combinator: comb,
		Expr:       plan.Expr().String(),
		Units:      make([]ExplainUnit, 0, len(plan.Units)),
	}

	compiler := querysql.NewSQLCompiler()
	for i, v := range plan.Units {
		expr := plan.Exprs[i]
		analysis := queryir.Analyze(expr)

		u := ExplainUnit{
			Unit:     v.Unit.String(),
			Kind:     v.Kind.String(),
			Expr:     expr.String(),
			Pushdown: analysis.Pushdown,
		}
		if analysis.Pushdown {
			sql, params, err := compiler.Compile(plan.Collection, expr)
			if err != nil {
				return ExplainResult{}, fmt.Errorf("explain unit %d: %w", i+1, err)
			}
			u.SQL = sql
			u.Params = params
		} else {
			u.ScanAttrs = analysis.ScanAttrs
		}
		result.Units = append(result.Units, u)
	}

	return result, nil
}

func writeExplainText(w io.Writer, r ExplainResult) {
	fmt.Fprintf(w, "query:      %s\n", r.Query)
	fmt.Fprintf(w, "collection: %s\n", r.Collection)
	fmt.Fprintf(w, "combinator: %s\n", r.Combinator)
	fmt.Fprintf(w, "expr:       %s\n", r.Expr)

	for i, u := range r.Units {
		fmt.Fprintf(w, "\nunit %d: %s\n", i+1, u.Unit)
		fmt.Fprintf(w, "  kind:   %s\n", u.Kind)
		fmt.Fprintf(w, "  expr:   %s\n", u.Expr)
		if u.Pushdown {
			fmt.Fprintf(w, "  sql:    %s\n", u.SQL)
			fmt.Fprintf(w, "  params: %s\n", formatParams(u.Params))
		} else {
			fmt.Fprintf(w, "  scan:   %s (attrs: %s)\n", r.Collection, strings.Join(u.ScanAttrs, ", "))
		}
	}
}

// formatParams renders SQL parameters as SQL literals.
func formatParams(params []any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		switch v := p.(type) {
		case string:
			parts[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		case float64:
			parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, ", ")
}
