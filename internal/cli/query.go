package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/query"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	IDsOnly bool
}

// QueryResult is the JSON payload of the query command.
type QueryResult struct {
	Query      string      `json:"query"`
	Collection string      `json:"collection"`
	Count      int         `json:"count"`
	IDs        []string    `json:"ids,omitempty"`
	Records    []ir.Record `json:"records,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <query>",
		Short: "Run a query against the database",
		Long: `Run a query and print the matching records.

A query is one unit, or two units on the same collection joined by AND/OR:

  collection.attribute : value           equality
  collection.attribute : NOT value       inequality (present attributes only)
  collection.attribute : > number        numeric comparison (also <)
  collection.*_count : "412"             attribute wildcard
  collection.attribute : "Mart*"         value wildcard (scans the collection)

Text values must be double-quoted; comparison values must be bare numbers.

Examples:
  shelf query 'book.rating_value : > 4.24'
  shelf query 'author.author_url : "aaa" AND author.rating_value : > 4.32'
  shelf query --ids 'author.author_name : "Martin*"'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.IDsOnly, "ids", false, "print only record _ids")

	return cmd
}

func runQuery(ctx context.Context, opts *QueryOptions, q string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	// Compile before opening the database so bad queries never touch it.
	plan, err := query.Compile(q)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	formatter.VerboseLog("Query plan: %s", plan.Expr())

	recs, err := opts.executor(st).ExecutePlan(ctx, plan)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	formatter.VerboseLog("Matched %d record(s)", len(recs))
	return outputQueryResult(formatter, opts, q, plan.Collection, recs)
}

func outputQueryResult(formatter *OutputFormatter, opts *QueryOptions, q string, coll ir.Collection, recs []ir.Record) error {
	if formatter.Format == "json" {
		result := QueryResult{
			Query:      q,
			Collection: string(coll),
			Count:      len(recs),
		}
		if opts.IDsOnly {
			result.IDs = recordIDs(recs)
		} else {
			result.Records = recs
		}
		return formatter.Success(result)
	}

	if opts.IDsOnly {
		for _, rec := range recs {
			fmt.Fprintln(formatter.Writer, rec.ID())
		}
		return nil
	}
	return formatter.Records(recs)
}

func recordIDs(recs []ir.Record) []string {
	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID()
	}
	return ids
}
