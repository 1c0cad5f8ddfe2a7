package harness

// TraceEvent records how one scenario step resolved.
type TraceEvent struct {
	Step  int    `json:"step"`
	Query string `json:"query"`

	// Expr is the compiled filter expression; empty when interpretation failed.
	Expr string `json:"expr,omitempty"`

	// Finds and Scans count record store calls made by the step.
	Finds int `json:"finds"`
	Scans int `json:"scans"`

	// IDs are the matching record ids in result order.
	IDs []string `json:"ids"`

	// Error is the error kind or code, empty on success.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step to the trace.
func (r *Result) AddStep(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
