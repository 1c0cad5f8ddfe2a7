package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/config"
	"github.com/roach88/shelf/internal/exec"
	"github.com/roach88/shelf/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	ConfigFile string
	ScanLimit  int
	Concurrent bool

	// Logger receives store and executor logs. Nil discards them.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = config.ValidFormats

// NewRootCommand creates the root command for the shelf CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "shelf - query books and authors",
		Long: `A small query language over book and author collections.

Queries look like:
  book.rating_value : > 4.24
  author.author_name : "Martin*"
  author.author_url : "aaa" AND author.rating_value : > 4.32`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			opts.apply(cfg, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, config.KeyVerbose, "v", false, "verbose output")
	pf.StringVar(&opts.Format, config.KeyFormat, "text", "output format (json|text)")
	pf.StringVar(&opts.Database, config.KeyDB, "shelf.db", "path to SQLite database")
	pf.StringVar(&opts.ConfigFile, config.KeyConfig, "", "config file (default ./shelf.yaml if present)")
	pf.IntVar(&opts.ScanLimit, config.KeyScanLimit, 0, "max records a pattern scan may visit (0 = unlimited)")
	pf.BoolVar(&opts.Concurrent, config.KeyConcurrent, false, "resolve the units of a compound query in parallel")

	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// apply copies resolved settings into the options and installs a stderr
// logger: Debug when verbose, Warn otherwise.
func (o *RootOptions) apply(cfg config.Config, stderr io.Writer) {
	o.Verbose = cfg.Verbose
	o.Format = cfg.Format
	o.Database = cfg.DB
	o.ConfigFile = cfg.File
	o.ScanLimit = cfg.ScanLimit
	o.Concurrent = cfg.Concurrent

	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// openStore opens the configured database.
func (o *RootOptions) openStore() (*store.Store, error) {
	if o.Database == "" {
		return nil, NewExitError(ExitCommandError, "no database configured (use --db)")
	}
	st, err := store.Open(o.Database, store.WithLogger(o.logger()))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", o.Database), err)
	}
	return st, nil
}

// executor builds a query executor over st from the options.
func (o *RootOptions) executor(st exec.RecordStore) *exec.Executor {
	execOpts := []exec.Option{
		exec.WithLogger(o.logger()),
		exec.WithScanLimit(o.ScanLimit),
	}
	if o.Concurrent {
		execOpts = append(execOpts, exec.WithConcurrentUnits())
	}
	return exec.New(st, execOpts...)
}
