package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/ir"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <book|author> <_id>",
		Short:         "Print one record by _id",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), rootOpts, args[0], args[1], cmd)
		},
	}
}

func runGet(ctx context.Context, opts *RootOptions, collArg, id string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	coll, err := ir.ParseCollection(collArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid collection", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, found, err := st.Get(ctx, coll, id)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}
	if !found {
		return notFound(formatter, coll, id)
	}

	if formatter.Format == "json" {
		return formatter.Success(rec)
	}
	return formatter.Records([]ir.Record{rec})
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <book|author> <_id>",
		Short:         "Delete one record by _id",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), rootOpts, args[0], args[1], cmd)
		},
	}
}

func runDelete(ctx context.Context, opts *RootOptions, collArg, id string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	coll, err := ir.ParseCollection(collArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid collection", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	deleted, err := st.Delete(ctx, coll, id)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}
	if !deleted {
		return notFound(formatter, coll, id)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"deleted": id, "collection": string(coll)})
	}
	fmt.Fprintf(formatter.Writer, "Deleted %s %s\n", coll, id)
	return nil
}

func notFound(formatter *OutputFormatter, coll ir.Collection, id string) error {
	msg := fmt.Sprintf("%s %q not found", coll, id)
	_ = formatter.Error(ErrCodeNotFound, msg, nil)
	return &ExitError{Code: ExitFailure, Message: msg, Reported: true}
}
