package graph

import (
	"fmt"
	"sync/atomic"

	"github.com/mdflow/mdflow/internal/core/token"
)

// nodeState is the per-run firing record of one node: its input slots, the
// arrival counter, and the one-shot firing latch. Everything else about a
// node is immutable and shared with the template.
type nodeState struct {
	slots   []*token.Token
	pending atomic.Int32
	fired   atomic.Bool
}

// Instance is a live graph materialized from a validated template for a
// single run. Instances of the same template share no mutable state.
type Instance struct {
	graph  *Graph
	states []nodeState
}

// NewInstance clones the template into a live graph: fresh input slots, the
// arrival counter at the node's input arity, the firing latch unset.
func (g *Graph) NewInstance() (*Instance, error) {
	if !g.validated {
		return nil, ErrNotValidated
	}
	in := &Instance{graph: g, states: make([]nodeState, len(g.nodes))}
	for i, n := range g.nodes {
		in.states[i].slots = make([]*token.Token, n.inputSize)
		in.states[i].pending.Store(int32(n.inputSize))
	}
	return in, nil
}

// Graph returns the backing template.
func (in *Instance) Graph() *Graph { return in.graph }

// BindInputs writes the caller-supplied values into the entry node's input
// slots in positional order. The entry node's counter is never consulted:
// it has no predecessors and is enqueued unconditionally.
func (in *Instance) BindInputs(args ...any) error {
	entry := in.graph.nodes[in.graph.entry]
	if len(args) != entry.inputSize {
		return fmt.Errorf("%w: want %d, got %d", ErrInputArity, entry.inputSize, len(args))
	}
	slots := in.states[entry.id].slots
	for i, arg := range args {
		slots[i] = token.New(arg)
	}
	return nil
}

// Fire executes the node and returns its output tokens. Standard nodes run
// the user function on the input slots; split nodes replicate their single
// input token across every output position without copying the value;
// merge nodes emit one token whose payload bundles the inputs in order.
func (in *Instance) Fire(id int) ([]*token.Token, error) {
	n := in.graph.nodes[id]
	slots := in.states[id].slots

	switch n.kind {
	case KindStandard:
		out, err := n.fn.Invoke(slots)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", id, err)
		}
		return out, nil

	case KindSplit:
		out := make([]*token.Token, n.outputSize)
		for i := range out {
			out[i] = slots[0]
		}
		return out, nil

	case KindMerge:
		return []*token.Token{token.New(token.Bundle(slots))}, nil

	default:
		return nil, fmt.Errorf("node %d: unknown kind %v", id, n.kind)
	}
}

// Deliver transfers the fired node's output tokens to its successors: each
// token is written into the addressed input slot, then the successor's
// arrival counter is decremented. Go atomics are sequentially consistent,
// so the slot write happens-before any observation of the decrement.
func (in *Instance) Deliver(id int, out []*token.Token) {
	for i, r := range in.graph.nodes[id].routes {
		st := &in.states[r.Node]
		st.slots[r.Slot] = out[i]
		st.pending.Add(-1)
	}
}

// Offer reports whether the node is ready to fire and atomically claims the
// right to do so. Only the caller that wins the latch may enqueue the node;
// every other observer must do nothing.
func (in *Instance) Offer(id int) bool {
	st := &in.states[id]
	return st.pending.Load() == 0 && st.fired.CompareAndSwap(false, true)
}

// Claim sets the firing latch without consulting the arrival counter. It is
// used for the entry node, whose counter stays at its input arity because
// no predecessor ever decrements it.
func (in *Instance) Claim(id int) bool {
	return in.states[id].fired.CompareAndSwap(false, true)
}

// Successors returns the deduplicated successor ids of a node.
func (in *Instance) Successors(id int) []int {
	return in.graph.nodes[id].successors
}

// IsExit reports whether the node is the exit of the template.
func (in *Instance) IsExit(id int) bool {
	return in.graph.nodes[id].exit
}
