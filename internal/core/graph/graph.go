package graph

import (
	"github.com/google/uuid"

	"github.com/mdflow/mdflow/internal/core/function"
)

// Graph owns the node set and the entry/exit designation. It is mutable
// through its Builder until Validate succeeds; afterwards it is a frozen
// template that any number of concurrent runs may instantiate.
type Graph struct {
	id        uuid.UUID
	nodes     []*Node
	entry     int
	exit      int
	validated bool
}

func newGraph() *Graph {
	return &Graph{id: uuid.New(), entry: -1, exit: -1}
}

// ID returns the graph identity used to reject cross-graph instructions.
func (g *Graph) ID() uuid.UUID { return g.id }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EntryID returns the entry node id, or -1 when unset.
func (g *Graph) EntryID() int { return g.entry }

// ExitID returns the exit node id, or -1 when unset.
func (g *Graph) ExitID() int { return g.exit }

// Validated reports whether the template is frozen.
func (g *Graph) Validated() bool { return g.validated }

// NodeAt returns the node with the given dense id.
func (g *Graph) NodeAt(id int) *Node { return g.nodes[id] }

func (g *Graph) appendStandard(fn function.Function) *Node {
	n := newStandardNode(len(g.nodes), fn)
	g.nodes = append(g.nodes, n)
	return n
}

func (g *Graph) appendSplit(outputSize int) *Node {
	n := newSplitNode(len(g.nodes), outputSize)
	g.nodes = append(g.nodes, n)
	return n
}

func (g *Graph) appendMerge(inputSize int) *Node {
	n := newMergeNode(len(g.nodes), inputSize)
	g.nodes = append(g.nodes, n)
	return n
}

func (g *Graph) appendClone(src *Node) *Node {
	n := newCloneNode(len(g.nodes), src)
	g.nodes = append(g.nodes, n)
	return n
}

// Validate checks the structural invariants and freezes the template. It is
// idempotent: a second call on a validated graph is a no-op.
//
// The check is a DFS from the entry node. Every visited node must have a
// complete output map (the exit node an empty one) and every input slot of
// a non-entry node must be wired. A back edge is a cycle; after the walk
// every node must have been visited.
func (g *Graph) Validate() error {
	if g.validated {
		return nil
	}
	if g.entry < 0 || g.exit < 0 || g.entry == g.exit {
		return ErrEndpointsUnset
	}

	visited := make([]bool, len(g.nodes))
	onStack := make([]bool, len(g.nodes))
	count := 0

	var visit func(id int) error
	visit = func(id int) error {
		visited[id] = true
		onStack[id] = true
		count++

		n := g.nodes[id]
		if id == g.exit {
			if len(n.routes) != 0 {
				return ErrExitHasOutputs
			}
		} else if len(n.routes) != n.outputSize {
			return ErrIncompleteWiring
		}
		if id != g.entry && !n.dependents.AllSet() {
			return ErrUnwiredSlot
		}

		for _, adj := range n.successors {
			if !visited[adj] {
				if err := visit(adj); err != nil {
					return err
				}
			} else if onStack[adj] {
				return ErrCycle
			}
		}

		onStack[id] = false
		return nil
	}

	if err := visit(g.entry); err != nil {
		return err
	}
	if count != len(g.nodes) {
		return ErrUnreachable
	}

	g.validated = true
	return nil
}
