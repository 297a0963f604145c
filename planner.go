package sx

import "errors"

var errZeroAddress = errors.New("zero contract address")

// Planner collects the calls of one multicall in submission order.
type Planner struct {
	calls []Call
}

// New creates an empty Planner.
func New() *Planner {
	return &Planner{calls: make([]Call, 0, 8)}
}

// Add appends a call to the plan and returns its index.
func (p *Planner) Add(call Call) int {
	p.calls = append(p.calls, call)
	return len(p.calls) - 1
}

// AddAll appends several calls in order.
func (p *Planner) AddAll(calls ...Call) {
	p.calls = append(p.calls, calls...)
}

// Len returns the number of calls in the planner.
func (p *Planner) Len() int {
	return len(p.calls)
}

// CallAt returns the call at the given index.
func (p *Planner) CallAt(i int) (Call, bool) {
	if i < 0 || i >= len(p.calls) {
		return Call{}, false
	}
	return p.calls[i], true
}

// ForEachCall iterates over all calls in the planner.
// The callback receives the index and call. Return false to stop iteration.
func (p *Planner) ForEachCall(fn func(int, Call) bool) {
	for i, c := range p.calls {
		if !fn(i, c) {
			return
		}
	}
}

// Plan validates the calls and compiles the account __execute__ calldata.
func (p *Planner) Plan(opts ...PlanOption) (*CompiledPlan, error) {
	cfg := defaultPlanConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if len(p.calls) == 0 {
		return nil, ErrNoCalls
	}
	if len(p.calls) > cfg.maxCalls {
		return nil, ErrTooManyCalls
	}

	for i, c := range p.calls {
		if c.entrypoint == "" {
			return nil, &PlanError{CallIndex: i, Err: &MethodNotFoundError{Contract: c.to, Method: ""}}
		}
		if c.to.IsZero() {
			return nil, &PlanError{CallIndex: i, Method: c.entrypoint, Err: &EncodingError{Value: c.to, Err: errZeroAddress}}
		}
	}

	calls := make([]Call, len(p.calls))
	copy(calls, p.calls)

	calldata := EncodeExecute(calls)
	if len(calldata) > cfg.maxCalldata {
		return nil, ErrCalldataTooLarge
	}

	return &CompiledPlan{
		Calls:    calls,
		Calldata: calldata,
	}, nil
}

// CompiledPlan contains the output of Plan(), ready for submission.
type CompiledPlan struct {
	Calls    []Call // Calls in submission order
	Calldata []Felt // Account __execute__ calldata
}

// CallCount returns the number of calls in the plan.
func (cp *CompiledPlan) CallCount() int {
	return len(cp.Calls)
}

// CalldataHex returns the calldata as hex strings, the form JSON-RPC expects.
func (cp *CompiledPlan) CalldataHex() []string {
	return FeltsToHex(cp.Calldata)
}
