package exec

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/query"
	"github.com/roach88/shelf/internal/queryir"
)

// RecordStore is the storage capability the executor needs.
//
// Implemented by store.Store (SQLite) and testutil.MemStore (tests).
//
// Find evaluates a pushdown expression (no PatternScan) and returns the
// matching records ordered by _id; zero matches is an empty slice, not an
// error. ScanAll yields every record of the collection ordered by _id.
type RecordStore interface {
	Find(ctx context.Context, c ir.Collection, e queryir.Expr) ([]ir.Record, error)
	ScanAll(ctx context.Context, c ir.Collection) iter.Seq2[ir.Record, error]
}

// Executor resolves compiled queries against a RecordStore.
//
// Executor holds no per-query state and is safe for concurrent use when
// the store is.
type Executor struct {
	store      RecordStore
	logger     *slog.Logger
	concurrent bool
	scanLimit  int
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger for plan and scan messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithConcurrentUnits resolves the two units of a compound query in
// parallel. Both units are pure reads, so the result is identical to
// sequential resolution.
func WithConcurrentUnits() Option {
	return func(e *Executor) {
		e.concurrent = true
	}
}

// WithScanLimit caps the number of records a pattern-scan fallback may
// visit. Default: 0 (unlimited).
func WithScanLimit(n int) Option {
	return func(e *Executor) {
		e.scanLimit = n
	}
}

// New creates an Executor over store.
func New(store RecordStore, opts ...Option) *Executor {
	e := &Executor{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run compiles and executes a query string.
//
// Interpretation failures are returned as *query.Error unchanged; store
// failures as *ExecError.
func (e *Executor) Run(ctx context.Context, q string) ([]ir.Record, error) {
	plan, err := query.Compile(q)
	if err != nil {
		return nil, err
	}
	return e.ExecutePlan(ctx, plan)
}

// Execute validates, translates and executes an already-parsed query.
func (e *Executor) Execute(ctx context.Context, c query.Compound) ([]ir.Record, error) {
	plan, err := query.CompileCompound(c)
	if err != nil {
		return nil, err
	}
	return e.ExecutePlan(ctx, plan)
}

// ExecutePlan resolves each unit of a compiled plan and combines the
// result sets. Returns an empty slice (not nil) when nothing matches.
func (e *Executor) ExecutePlan(ctx context.Context, p *query.Plan) ([]ir.Record, error) {
	if p == nil || len(p.Exprs) == 0 {
		return nil, fmt.Errorf("execute: empty plan")
	}

	e.logger.Debug("executing query",
		"collection", p.Collection,
		"combinator", p.Combinator,
		"exprs", planExprs(p))

	results, err := e.resolveUnits(ctx, p)
	if err != nil {
		return nil, err
	}

	var out []ir.Record
	switch p.Combinator {
	case query.CombAnd:
		out = Intersect(results[0], results[1])
	case query.CombOr:
		out = Union(results[0], results[1])
	default:
		out = Union(results[0], nil)
	}

	e.logger.Debug("query complete", "collection", p.Collection, "matched", len(out))
	return out, nil
}

// resolveUnits resolves every unit, in parallel when configured.
// Any failure aborts the whole query.
func (e *Executor) resolveUnits(ctx context.Context, p *query.Plan) ([][]ir.Record, error) {
	results := make([][]ir.Record, len(p.Exprs))

	if !e.concurrent || len(p.Exprs) < 2 {
		for i, expr := range p.Exprs {
			recs, err := e.Resolve(ctx, p.Collection, i, expr)
			if err != nil {
				return nil, err
			}
			results[i] = recs
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, expr := range p.Exprs {
		g.Go(func() error {
			recs, err := e.Resolve(gctx, p.Collection, i, expr)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Resolve evaluates one unit's expression: pushdown through Find when the
// store can evaluate it, otherwise a full scan with in-process matching.
// unit is the unit's index, used for error reporting.
func (e *Executor) Resolve(ctx context.Context, c ir.Collection, unit int, expr queryir.Expr) ([]ir.Record, error) {
	analysis := queryir.Analyze(expr)
	if len(analysis.Warnings) > 0 {
		return nil, fmt.Errorf("resolve unit %d: invalid expression: %s", unit, strings.Join(analysis.Warnings, "; "))
	}

	if analysis.Pushdown {
		recs, err := e.store.Find(ctx, c, expr)
		if err != nil {
			return nil, newStoreError(unit, expr.String(), err)
		}
		return recs, nil
	}

	return e.scan(ctx, c, unit, expr, analysis.ScanAttrs)
}

// scan is the PatternScan fallback: fetch the whole collection and test
// each record with queryir.Match.
func (e *Executor) scan(ctx context.Context, c ir.Collection, unit int, expr queryir.Expr, attrs []string) ([]ir.Record, error) {
	quota := NewScanQuota(e.scanLimit)
	matched := []ir.Record{}

	for rec, err := range e.store.ScanAll(ctx, c) {
		if err != nil {
			return nil, newStoreError(unit, expr.String(), err)
		}
		if err := quota.Check(string(c)); err != nil {
			return nil, &ExecError{
				Code:    ErrCodeScanLimit,
				Message: "pattern scan aborted",
				Unit:    unit,
				Expr:    expr.String(),
				Err:     err,
			}
		}
		if queryir.Match(expr, rec) {
			matched = append(matched, rec)
		}
	}

	e.logger.Info("pattern scan fallback",
		"collection", c,
		"attrs", attrs,
		"visited", quota.Visited(),
		"matched", len(matched))

	return matched, nil
}

func planExprs(p *query.Plan) []string {
	out := make([]string, len(p.Exprs))
	for i, expr := range p.Exprs {
		out[i] = expr.String()
	}
	return out
}
