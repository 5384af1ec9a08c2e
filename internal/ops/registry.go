// Package ops exposes temporal operations by name.
//
// Every operation takes its arguments as strings in the same ISO-8601 forms
// the temporal types render, and returns its result rendered the same way.
// The CLI's eval command and the conformance harness both run operations
// through a Registry.
package ops

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/tempo/internal/clock"
	"github.com/roach88/tempo/internal/temporal"
)

// Error codes for failures outside the temporal package.
const (
	CodeUnknownOp    = "UNKNOWN_OP"
	CodeBadArguments = "BAD_ARGUMENTS"
)

var (
	// ErrUnknownOp is returned by Eval for unregistered names.
	ErrUnknownOp = errors.New("unknown operation")

	// ErrBadArguments is returned for a wrong argument count or an argument
	// that is not an integer or name where one is expected.
	ErrBadArguments = errors.New("bad arguments")
)

// NoResult is rendered by partial operations that have no answer, such as
// the gap between overlapping intervals.
const NoResult = "none"

// Env is what operations may use besides their arguments.
type Env struct {
	// Clock backs clock.now.
	Clock clock.Clock

	// Zone applies to date-time arguments written without an offset.
	Zone temporal.ZoneOffset
}

// Op is a named operation.
type Op struct {
	Name    string
	Params  []string
	Summary string
	Run     func(env Env, args []string) (string, error)
}

// Usage renders the name followed by its parameters.
func (op Op) Usage() string {
	s := op.Name
	for _, p := range op.Params {
		s += " <" + p + ">"
	}
	return s
}

// Registry maps names to operations.
type Registry struct {
	ops map[string]Op
}

// NewRegistry returns a registry holding every built-in operation.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]Op)}
	for _, op := range builtins() {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds op. Names must be unique.
func (r *Registry) Register(op Op) error {
	if op.Name == "" || op.Run == nil {
		return fmt.Errorf("operation needs a name and a Run function")
	}
	if _, exists := r.ops[op.Name]; exists {
		return fmt.Errorf("operation %q already registered", op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

// Lookup returns the operation with the given name.
func (r *Registry) Lookup(name string) (Op, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// List returns every operation sorted by name.
func (r *Registry) List() []Op {
	list := make([]Op, 0, len(r.ops))
	for _, op := range r.ops {
		list = append(list, op)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Eval runs the named operation.
func (r *Registry) Eval(env Env, name string, args []string) (string, error) {
	op, ok := r.ops[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOp, name)
	}
	if len(args) != len(op.Params) {
		return "", fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrBadArguments, op.Usage(), len(op.Params), len(args))
	}
	return op.Run(env, args)
}

// CodeOf returns the error code for err: a temporal code, UNKNOWN_OP or
// BAD_ARGUMENTS. Other errors return "".
func CodeOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownOp):
		return CodeUnknownOp
	case errors.Is(err, ErrBadArguments):
		return CodeBadArguments
	}
	return string(temporal.CodeOf(err))
}
