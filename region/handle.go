package region

import "regionc/ir"

// State is the state of a branch operation.
type State int

// Enumeration of branch operation states.
const (
	Unopened State = iota
	BranchOpen
	BranchClosed
	Sealed
)

func (s State) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case BranchOpen:
		return "open"
	case BranchClosed:
		return "closed"
	default:
		return "sealed"
	}
}

// frame is the automaton state of a single branch operation.
type frame struct {
	op *ir.Operation

	state State

	// The index of the current region.
	region int

	// The generation of the frame: it is incremented on every transition so
	// that handles from before the transition become stale.
	gen int

	// The operands captured by the last yield in the current region.
	operands []*ir.Value

	// The operation whose else region contains this operation when it was
	// opened as an elif.  Sealing this operation seals its parent.
	parent *frame

	// The block the operation was built in.
	enclosing *ir.Block
}

// block returns the block of the frame's current region.
func (f *frame) block() *ir.Block {
	return f.op.Regions[f.region].Entry()
}

// root returns the head of the chain the frame belongs to.
func (f *frame) root() *frame {
	curr := f
	for curr.parent != nil {
		curr = curr.parent
	}

	return curr
}

// -----------------------------------------------------------------------------

// Handle is an insertion point handle: a reference to a branch operation in a
// specific state.  Every transition consumes the handle it is given and returns
// a fresh one: presenting a consumed handle is an error.
type Handle struct {
	f   *frame
	gen int
}

// Op returns the branch operation of the handle.
func (h *Handle) Op() *ir.Operation {
	return h.f.op
}

// State returns the current state of the handle's branch operation.
func (h *Handle) State() State {
	return h.f.state
}

// Region returns the index of the current region of the handle's branch
// operation.
func (h *Handle) Region() int {
	return h.f.region
}

// Stale returns whether the handle has been consumed by a transition.
func (h *Handle) Stale() bool {
	return h.gen != h.f.gen
}

// Results returns the results of the chain the handle belongs to.
func (h *Handle) Results() []*ir.Value {
	return h.f.root().op.Results
}

// Truthy reports the handle as true in a boolean context so that the arm
// guarded by it is always entered.
func (h *Handle) Truthy() bool {
	return true
}

// Pending returns the blocks of the regions of the handle's operation which
// have not been closed yet.  This is empty once the operation is sealed.
func (h *Handle) Pending() []*ir.Block {
	f := h.f

	var first int
	switch f.state {
	case Sealed:
		return nil
	case BranchClosed:
		first = f.region + 1
	default:
		first = f.region
	}

	var pending []*ir.Block
	for _, r := range f.op.Regions[first:] {
		pending = append(pending, r.Entry())
	}

	return pending
}
