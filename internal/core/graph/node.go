// Package graph provides the macro-data-flow graph entity: nodes, the
// builder that wires them, the structural validator, and the per-run live
// instance the executor fires.
package graph

import "github.com/mdflow/mdflow/internal/core/function"

// Kind discriminates the three node variants.
type Kind int

const (
	// KindStandard runs a user function on its input tokens.
	KindStandard Kind = iota
	// KindSplit replicates its single input token across every output.
	KindSplit
	// KindMerge bundles its input tokens into a single output token.
	KindMerge
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindSplit:
		return "split"
	case KindMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// Route addresses one input slot of a successor node.
type Route struct {
	Node int
	Slot int
}

// Node is a vertex of the graph template. After validation every field is
// immutable and shared by all run instances; the mutable firing state lives
// in Instance.
type Node struct {
	id         int
	kind       Kind
	inputSize  int
	outputSize int
	fn         function.Function
	routes     []Route
	successors []int
	dependents *Bitmask
	exit       bool
}

func newStandardNode(id int, fn function.Function) *Node {
	return &Node{
		id:         id,
		kind:       KindStandard,
		inputSize:  fn.Arity(),
		outputSize: fn.OutputSize(),
		fn:         fn,
		dependents: NewBitmask(fn.Arity()),
	}
}

func newSplitNode(id, outputSize int) *Node {
	return &Node{
		id:         id,
		kind:       KindSplit,
		inputSize:  1,
		outputSize: outputSize,
		fn:         function.Placeholder(),
		dependents: NewBitmask(1),
	}
}

func newMergeNode(id, inputSize int) *Node {
	return &Node{
		id:         id,
		kind:       KindMerge,
		inputSize:  inputSize,
		outputSize: 1,
		fn:         function.Placeholder(),
		dependents: NewBitmask(inputSize),
	}
}

// newCloneNode copies the function and dimensions of an existing node, with
// fresh wiring state.
func newCloneNode(id int, src *Node) *Node {
	return &Node{
		id:         id,
		kind:       src.kind,
		inputSize:  src.inputSize,
		outputSize: src.outputSize,
		fn:         src.fn,
		dependents: NewBitmask(src.inputSize),
	}
}

// ID returns the node's dense index within its graph.
func (n *Node) ID() int { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// InputSize returns the number of input slots.
func (n *Node) InputSize() int { return n.inputSize }

// OutputSize returns the number of output tokens the node emits.
func (n *Node) OutputSize() int { return n.outputSize }

// IsExit reports whether the node is the graph's exit.
func (n *Node) IsExit() bool { return n.exit }

// SuccessorsCount returns the number of distinct successor nodes.
func (n *Node) SuccessorsCount() int { return len(n.successors) }

// DependentsCount returns the number of input slots tracked for wiring.
func (n *Node) DependentsCount() int { return n.dependents.Len() }

// addSuccessor records id in the deduplicated successor list.
func (n *Node) addSuccessor(id int) {
	for _, s := range n.successors {
		if s == id {
			return
		}
	}
	n.successors = append(n.successors, id)
}
