package harness

// TraceEvent records one operation and its outcome.
type TraceEvent struct {
	Seq    int64    `json:"seq"`
	Op     string   `json:"op"`
	Args   []string `json:"args"`
	Result string   `json:"result,omitempty"`
	Error  string   `json:"error,omitempty"` // error code
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every operation in execution order, setup included.
	Trace []TraceEvent `json:"trace"`

	// Errors contains one message per failed expectation or assertion.
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

// AddTrace appends an event, numbering it from 1.
func (r *Result) AddTrace(op string, args []string, result, code string) TraceEvent {
	if args == nil {
		args = []string{}
	}
	event := TraceEvent{
		Seq:    int64(len(r.Trace) + 1),
		Op:     op,
		Args:   args,
		Result: result,
		Error:  code,
	}
	r.Trace = append(r.Trace, event)
	return event
}
