package cli

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/ir"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [book|author]",
		Short: "List queryable attributes",
		Long: `List the attributes of one or both collections and their domains.

Numeric attributes accept comparisons; list attributes match a value when
any element equals it.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(rootOpts, args, cmd)
		},
	}
}

func runSchema(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	colls := slices.Clone(ir.Collections)
	if len(args) == 1 {
		c, err := ir.ParseCollection(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid collection", err)
		}
		colls = []ir.Collection{c}
	}

	schemas := make([]ir.Schema, 0, len(colls))
	for _, c := range colls {
		schema, err := ir.SchemaFor(c)
		if err != nil {
			return WrapExitError(ExitCommandError, "unknown schema", err)
		}
		schemas = append(schemas, schema)
	}

	if formatter.Format == "json" {
		return formatter.Success(schemas)
	}

	for i, schema := range schemas {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "%s:\n", schema.Collection)
		tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
		for _, a := range schema.Attributes {
			domain := string(a.Domain)
			if a.Multi {
				domain += " (list)"
			}
			fmt.Fprintf(tw, "  %s\t%s\n", a.Name, domain)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
