package region

import (
	"go.uber.org/zap"

	"regionc/ir"
)

// Runtime is the region builder runtime: a stack automaton which moves the
// builder's cursor between the regions of nested branch operations as the
// branches of a conditional are executed.  The top of the stack is always the
// innermost branch operation which has not been sealed.
type Runtime struct {
	b *ir.Builder

	// The stack of unsealed branch operations.
	stack []*frame

	// The operations sealed so far in order of sealing.
	sealed []*ir.Operation

	log *zap.Logger
}

// NewRuntime creates a new runtime driving the given builder.
func NewRuntime(b *ir.Builder) *Runtime {
	return &Runtime{b: b, log: zap.NewNop()}
}

// SetLogger sets the logger transitions are traced to.
func (rt *Runtime) SetLogger(log *zap.Logger) {
	rt.log = log
}

// Builder returns the builder the runtime drives.
func (rt *Runtime) Builder() *ir.Builder {
	return rt.b
}

// Sealed returns the branch operations sealed so far in the order they were
// sealed.
func (rt *Runtime) Sealed() []*ir.Operation {
	return rt.sealed
}

// Depth returns the number of unsealed branch operations.
func (rt *Runtime) Depth() int {
	return len(rt.stack)
}

// top returns the innermost unsealed branch operation or nil if there is none.
func (rt *Runtime) top() *frame {
	if len(rt.stack) == 0 {
		return nil
	}

	return rt.stack[len(rt.stack)-1]
}

// -----------------------------------------------------------------------------

// OpenBranch creates a new branch operation at the cursor with a result for
// each type of shape and the given number of regions, and moves the cursor
// into its first region.  If the innermost operation has a primed else region,
// the new operation is created inside it and must be sealed before that region
// can be entered.
func (rt *Runtime) OpenBranch(cond *ir.Value, shape []ir.Type, regions int) (*Handle, error) {
	return rt.open(cond, shape, regions, nil)
}

// open creates a new branch operation linked to the given chain parent.
func (rt *Runtime) open(cond *ir.Value, shape []ir.Type, regions int, parent *frame) (*Handle, error) {
	if regions < 1 || regions > 2 {
		return nil, fail(ErrMalformedBranch, parent, "a branch must have one or two regions, not %d", regions)
	} else if len(shape) > 0 && regions < 2 {
		return nil, fail(ErrArityMismatch, parent, "a branch yielding %d values must have an else region", len(shape))
	}

	enclosing := rt.b.InsertionBlock()
	op, err := rt.b.If(cond, shape, regions)
	if err != nil {
		return nil, fail(ErrTypeMismatch, parent, "%s", err)
	}

	f := &frame{
		op:        op,
		state:     BranchOpen,
		parent:    parent,
		enclosing: enclosing,
	}

	rt.stack = append(rt.stack, f)
	rt.b.SetInsertionBlock(f.block())

	rt.log.Debug(
		"open branch",
		zap.Int("results", len(shape)),
		zap.Int("regions", regions),
		zap.Bool("elif", parent != nil),
		zap.Int("depth", len(rt.stack)),
	)

	return &Handle{f: f, gen: f.gen}, nil
}

// Yield records the results of the innermost open region.  It returns the
// result values of the chain containing the region.
func (rt *Runtime) Yield(operands []*ir.Value) ([]*ir.Value, error) {
	f := rt.top()
	if f == nil {
		return nil, fail(ErrUnexpectedYield, nil, "no region is open")
	} else if f.state != BranchOpen {
		return nil, fail(ErrUnexpectedYield, f, "the else region has not been entered")
	}

	f.operands = operands
	return f.root().op.Results, nil
}

// CloseBranch terminates the current region of the handle's operation with
// the values it yielded.  If another region follows, the cursor is moved into
// it so the next transition can be computed there.  Otherwise, the operation
// is sealed: the cursor returns to the block containing the operation and, if
// the operation is an elif, its chain parent is closed with its results.
func (rt *Runtime) CloseBranch(h *Handle) (*Handle, error) {
	f, err := rt.claim(h, BranchOpen, ErrUnexpectedClose)
	if err != nil {
		return nil, err
	}

	if err := rt.close(f); err != nil {
		return nil, err
	}

	return &Handle{f: f, gen: f.gen}, nil
}

// close performs the close transition on the innermost frame.
func (rt *Runtime) close(f *frame) error {
	results := f.op.Results
	if len(f.operands) != len(results) {
		return fail(ErrArityMismatch, f, "expected %d results but got %d", len(results), len(f.operands))
	}

	for i, operand := range f.operands {
		switch {
		case ir.IsPlaceholder(results[i].Type()):
			results[i].SetType(operand.Type())
		case results[i].Type() != operand.Type():
			return fail(
				ErrTypeMismatch,
				f,
				"result %d has type %s but %s was yielded",
				i,
				results[i].Type().Repr(),
				operand.Type().Repr(),
			)
		}
	}

	rt.b.SetInsertionBlock(f.block())
	rt.b.Yield(f.operands)
	f.operands = nil
	f.gen++

	if f.region < len(f.op.Regions)-1 {
		f.state = BranchClosed
		rt.b.SetInsertionBlock(f.op.Regions[f.region+1].Entry())

		rt.log.Debug("close branch", zap.Int("region", f.region), zap.Int("depth", len(rt.stack)))
		return nil
	}

	return rt.seal(f)
}

// seal finalizes a branch operation whose last region has been closed.
func (rt *Runtime) seal(f *frame) error {
	f.state = Sealed
	rt.stack = rt.stack[:len(rt.stack)-1]
	rt.sealed = append(rt.sealed, f.op)
	rt.b.SetInsertionBlock(f.enclosing)

	rt.log.Debug("seal branch", zap.Int("results", len(f.op.Results)), zap.Int("depth", len(rt.stack)))

	if f.parent == nil {
		return nil
	}

	parent := f.parent
	if rt.top() != parent || parent.state != BranchOpen {
		return fail(ErrUnexpectedClose, parent, "elif sealed outside of its parent's else region")
	}

	parent.operands = f.op.Results
	return rt.close(parent)
}

// EnterElse opens the region following the handle's closed region.
func (rt *Runtime) EnterElse(h *Handle) (*Handle, error) {
	f, err := rt.claim(h, BranchClosed, ErrUnexpectedElse)
	if err != nil {
		return nil, err
	}

	rt.advance(f)
	return &Handle{f: f, gen: f.gen}, nil
}

// OpenElseIf opens the region following the handle's closed region and creates
// a new branch operation inside it which is linked to the handle's operation.
// The handle is consumed: the parent operation is closed when the new
// operation is sealed.
func (rt *Runtime) OpenElseIf(h *Handle, cond *ir.Value, shape []ir.Type, regions int) (*Handle, error) {
	f, err := rt.claim(h, BranchClosed, ErrUnexpectedElse)
	if err != nil {
		return nil, err
	}

	if len(shape) != len(f.op.Results) {
		return nil, fail(ErrArityMismatch, f, "elif declares %d results but its chain has %d", len(shape), len(f.op.Results))
	}

	rt.advance(f)
	return rt.open(cond, shape, regions, f)
}

// advance moves a closed frame into its next region.
func (rt *Runtime) advance(f *frame) {
	f.state = BranchOpen
	f.region++
	f.gen++

	rt.b.SetInsertionBlock(f.block())
	rt.log.Debug("enter else", zap.Int("region", f.region), zap.Int("depth", len(rt.stack)))
}

// claim checks that h is a fresh handle to the innermost branch operation and
// that the operation is in the expected state.
func (rt *Runtime) claim(h *Handle, state State, kind error) (*frame, error) {
	if h == nil {
		return nil, fail(kind, nil, "no handle")
	}

	f := h.f
	switch {
	case f.state == Sealed:
		return nil, fail(kind, f, "the branch is already sealed")
	case h.Stale():
		return nil, fail(kind, f, "stale handle")
	case rt.top() != f:
		return nil, fail(kind, f, "the branch is not the innermost open branch")
	case f.state != state:
		return nil, fail(kind, f, "the branch is %s", f.state)
	}

	return f, nil
}

// Finish checks that every branch operation has been sealed.
func (rt *Runtime) Finish() error {
	if f := rt.top(); f != nil {
		return fail(ErrUnsealed, f, "%d branch operation(s) left open", len(rt.stack))
	}

	return nil
}
