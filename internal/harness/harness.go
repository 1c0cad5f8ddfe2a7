package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"

	"github.com/roach88/shelf/internal/exec"
	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/query"
	"github.com/roach88/shelf/internal/queryir"
	"github.com/roach88/shelf/internal/store"
	"github.com/roach88/shelf/internal/testutil"
)

// Harness is the scenario execution engine.
// It owns one in-memory store and one executor per scenario.
type Harness struct {
	store    *store.Store
	counting *countingStore
	executor *exec.Executor
	ids      *testutil.SequentialIDGenerator
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Create fresh in-memory database
//  2. Load fixtures and inline records
//  3. Run every step through query.Compile and exec.Executor
//  4. Check expect clauses and assertions
//
// An error is returned only when the scenario cannot be set up; query
// failures are part of the trace.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	counting := &countingStore{inner: st}
	h := &Harness{
		store:    st,
		counting: counting,
		executor: exec.New(counting, exec.WithLogger(logger), exec.WithScanLimit(scenario.ScanLimit)),
		ids:      testutil.NewSequentialIDGenerator(scenario.Name),
		logger:   logger,
	}

	if err := h.load(ctx, scenario); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		ev := h.runStep(ctx, i+1, step.Query)
		result.AddStep(ev)

		if step.Expect == nil {
			continue
		}
		for _, msg := range checkExpect(ev, *step.Expect) {
			result.AddError(fmt.Sprintf("step %d (%s): %s", ev.Step, ev.Query, msg))
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// load writes fixtures and inline records, in collection order so assigned
// ids are stable.
func (h *Harness) load(ctx context.Context, scenario *Scenario) error {
	for _, coll := range ir.Collections {
		var recs []ir.Record
		if scenario.Fixtures {
			recs = append(recs, testutil.Records(coll)...)
		}

		schema, err := ir.SchemaFor(coll)
		if err != nil {
			return err
		}
		for i, raw := range scenario.Records[string(coll)] {
			rec, err := ir.RecordFromMap(raw)
			if err != nil {
				return fmt.Errorf("records.%s[%d]: %w", coll, i, err)
			}
			norm, _, err := store.Normalize(schema, rec, false, h.ids)
			if err != nil {
				return fmt.Errorf("records.%s[%d]: %w", coll, i, err)
			}
			recs = append(recs, norm)
		}

		if len(recs) == 0 {
			continue
		}
		if err := h.store.PutAll(ctx, coll, recs); err != nil {
			return fmt.Errorf("failed to load %s records: %w", coll, err)
		}
		h.logger.Debug("loaded records", "collection", coll, "count", len(recs))
	}
	return nil
}

// runStep compiles and executes one query, recording store calls.
func (h *Harness) runStep(ctx context.Context, n int, q string) TraceEvent {
	h.counting.reset()
	ev := TraceEvent{Step: n, Query: q, IDs: []string{}}

	plan, err := query.Compile(q)
	if err != nil {
		ev.Error = errorLabel(err)
		return ev
	}
	ev.Expr = plan.Expr().String()

	recs, err := h.executor.ExecutePlan(ctx, plan)
	ev.Finds, ev.Scans = h.counting.counts()
	if err != nil {
		ev.Error = errorLabel(err)
		return ev
	}
	ev.IDs = testutil.IDs(recs)
	return ev
}

// errorLabel names an error by its query kind or execution code.
func errorLabel(err error) string {
	if kind := query.KindOf(err); kind != "" {
		return string(kind)
	}
	var ee *exec.ExecError
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return "ERROR"
}

// countingStore counts the calls the executor makes.
type countingStore struct {
	inner exec.RecordStore

	mu    sync.Mutex
	finds int
	scans int
}

func (c *countingStore) Find(ctx context.Context, coll ir.Collection, e queryir.Expr) ([]ir.Record, error) {
	c.mu.Lock()
	c.finds++
	c.mu.Unlock()
	return c.inner.Find(ctx, coll, e)
}

func (c *countingStore) ScanAll(ctx context.Context, coll ir.Collection) iter.Seq2[ir.Record, error] {
	c.mu.Lock()
	c.scans++
	c.mu.Unlock()
	return c.inner.ScanAll(ctx, coll)
}

func (c *countingStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finds, c.scans = 0, 0
}

func (c *countingStore) counts() (finds, scans int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finds, c.scans
}
