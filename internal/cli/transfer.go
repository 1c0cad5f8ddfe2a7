package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Strict bool
}

// ImportSummary is the JSON payload of the import command.
type ImportSummary struct {
	Collection  string `json:"collection"`
	File        string `json:"file"`
	Imported    int    `json:"imported"`
	AssignedIDs int    `json:"assigned_ids"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <book|author> <file.json>",
		Short: "Load records from a JSON file",
		Long: `Load a JSON object or array of objects into a collection.

Records are upserted by _id; records without one get a fresh UUIDv7.
Numeric attributes given as text ("173,245") are converted to numbers.
Nothing is written if any record is invalid.

Examples:
  shelf import book books.json
  shelf import --strict author authors.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject records with missing or unknown attributes")

	return cmd
}

func runImport(ctx context.Context, opts *ImportOptions, collArg, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	coll, err := ir.ParseCollection(collArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid collection", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer f.Close()

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := st.Import(ctx, coll, f, store.ImportOptions{Strict: opts.Strict})
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	summary := ImportSummary{
		Collection:  string(coll),
		File:        path,
		Imported:    res.Imported,
		AssignedIDs: res.AssignedIDs,
	}
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "Imported %d %s record(s) from %s (%d new _id)\n",
		summary.Imported, coll, path, summary.AssignedIDs)
	return nil
}

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	OutputDir string
}

// ExportedFile describes one written dump.
type ExportedFile struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	Count      int    `json:"count"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <book|author|all>",
		Short: "Dump collections to JSON files",
		Long: `Write every record of a collection as a JSON array.

Files are named book_db.json and author_db.json.

Examples:
  shelf export all
  shelf export book -o ./dump`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", ".", "output directory")

	return cmd
}

func runExport(ctx context.Context, opts *ExportOptions, choice string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	targets, err := store.ExportTargets(choice)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid collection", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	files := make([]ExportedFile, 0, len(targets))
	for _, coll := range targets {
		path := filepath.Join(opts.OutputDir, store.ExportFileName(coll))
		n, err := exportFile(ctx, st, coll, path)
		if err != nil {
			return formatter.Fail(ExitFailure, err)
		}
		formatter.VerboseLog("Wrote %s", path)
		files = append(files, ExportedFile{Collection: string(coll), Path: path, Count: n})
	}

	if formatter.Format == "json" {
		return formatter.Success(files)
	}
	for _, f := range files {
		fmt.Fprintf(formatter.Writer, "Exported %d %s record(s) to %s\n", f.Count, f.Collection, f.Path)
	}
	return nil
}

func exportFile(ctx context.Context, st *store.Store, coll ir.Collection, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	n, err := st.Export(ctx, coll, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
