package graph

import (
	"github.com/google/uuid"

	"github.com/mdflow/mdflow/internal/core/function"
)

// Instruction is the external handle for a node. It ties the node to the
// graph that owns it so wiring operations can reject handles from another
// builder.
type Instruction struct {
	node    *Node
	graphID uuid.UUID
}

// ID returns the node id behind the instruction.
func (ins Instruction) ID() int { return ins.node.id }

// InputSize returns the node's input arity.
func (ins Instruction) InputSize() int { return ins.node.inputSize }

// OutputSize returns the node's output arity.
func (ins Instruction) OutputSize() int { return ins.node.outputSize }

// FromSameGraph reports whether every instruction belongs to the same graph
// as ins.
func (ins Instruction) FromSameGraph(other ...Instruction) bool {
	for _, o := range other {
		if o.graphID != ins.graphID {
			return false
		}
	}
	return true
}

func (ins Instruction) empty() bool { return ins.node == nil }

// Builder assembles a Graph: it appends nodes, wires outputs to successor
// input slots, and designates the entry and exit. Every operation fails
// with a structural error once the graph has been validated.
type Builder struct {
	graph *Graph
}

// NewBuilder creates a builder owning a fresh empty graph.
func NewBuilder() *Builder {
	return &Builder{graph: newGraph()}
}

// Graph exposes the underlying graph template for execution.
func (b *Builder) Graph() *Graph { return b.graph }

// Validate freezes the graph; see Graph.Validate.
func (b *Builder) Validate() error { return b.graph.Validate() }

func (b *Builder) mutable() error {
	if b.graph.validated {
		return ErrGraphValidated
	}
	return nil
}

func (b *Builder) owns(ins Instruction) error {
	if ins.empty() {
		return ErrEmptyInstruction
	}
	if ins.graphID != b.graph.id {
		return ErrForeignInstruction
	}
	return nil
}

func (b *Builder) instruction(n *Node) Instruction {
	return Instruction{node: n, graphID: b.graph.id}
}

// Add appends a standard node wrapping fn.
func (b *Builder) Add(fn function.Function) (Instruction, error) {
	if err := b.mutable(); err != nil {
		return Instruction{}, err
	}
	if fn == nil {
		return Instruction{}, ErrNilFunction
	}
	return b.instruction(b.graph.appendStandard(fn)), nil
}

// Merge appends a merge node bundling n input tokens into one.
func (b *Builder) Merge(n int) (Instruction, error) {
	if err := b.mutable(); err != nil {
		return Instruction{}, err
	}
	if n < 1 {
		return Instruction{}, ErrInvalidSize
	}
	return b.instruction(b.graph.appendMerge(n)), nil
}

// Split appends a split node replicating one input token to n outputs.
func (b *Builder) Split(n int) (Instruction, error) {
	if err := b.mutable(); err != nil {
		return Instruction{}, err
	}
	if n < 1 {
		return Instruction{}, ErrInvalidSize
	}
	return b.instruction(b.graph.appendSplit(n)), nil
}

// CloneNode appends a new node sharing the function and dimensions of an
// existing one, with fresh wiring state. The source instruction may belong
// to a different graph.
func (b *Builder) CloneNode(ins Instruction) (Instruction, error) {
	if err := b.mutable(); err != nil {
		return Instruction{}, err
	}
	if ins.empty() {
		return Instruction{}, ErrEmptyInstruction
	}
	return b.instruction(b.graph.appendClone(ins.node)), nil
}

// checkRoute validates one routing entry without committing it.
func (b *Builder) checkRoute(src *Node, r Route) (*Node, error) {
	if r.Node < 0 || r.Node >= len(b.graph.nodes) {
		return nil, ErrNodeOutOfRange
	}
	if r.Node == src.id {
		return nil, ErrSelfLoop
	}
	dst := b.graph.nodes[r.Node]
	if r.Slot < 0 || r.Slot >= dst.inputSize {
		return nil, ErrSlotOutOfRange
	}
	return dst, nil
}

// commitRoute applies a checked routing entry: it marks the destination
// slot as wired, records the successor, and appends to the output map.
func (b *Builder) commitRoute(src, dst *Node, r Route) error {
	if !dst.dependents.Set(r.Slot) {
		return ErrSlotAlreadyWired
	}
	src.addSuccessor(dst.id)
	src.routes = append(src.routes, r)
	return nil
}

// AddOutput appends one routing entry to the node's output map.
func (b *Builder) AddOutput(ins Instruction, r Route) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if err := b.owns(ins); err != nil {
		return err
	}
	src := ins.node
	if len(src.routes) >= src.outputSize {
		return ErrOutputMapFull
	}
	dst, err := b.checkRoute(src, r)
	if err != nil {
		return err
	}
	return b.commitRoute(src, dst, r)
}

// SetOutput replaces the node's output map wholesale. The map must be empty
// beforehand and the replacement must cover every output position.
func (b *Builder) SetOutput(ins Instruction, routes []Route) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if err := b.owns(ins); err != nil {
		return err
	}
	src := ins.node
	if len(src.routes) != 0 {
		return ErrOutputMapNotEmpty
	}
	if len(routes) != src.outputSize {
		return ErrOutputMapSize
	}
	for _, r := range routes {
		dst, err := b.checkRoute(src, r)
		if err != nil {
			return err
		}
		if err := b.commitRoute(src, dst, r); err != nil {
			return err
		}
	}
	return nil
}

// SendTo routes the whole output of src into the destinations, filling each
// destination's unwired input slots in ascending order. The combined free
// capacity of the destinations must absorb every remaining output of src.
func (b *Builder) SendTo(src Instruction, dsts ...Instruction) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if err := b.owns(src); err != nil {
		return err
	}
	for _, dst := range dsts {
		if err := b.owns(dst); err != nil {
			return err
		}
	}

	remaining := src.node.outputSize - len(src.node.routes)
	for _, dst := range dsts {
		slot := dst.node.dependents.NextClear(0)
		for slot >= 0 && remaining > 0 {
			if err := b.AddOutput(src, Route{Node: dst.ID(), Slot: slot}); err != nil {
				return err
			}
			remaining--
			slot = dst.node.dependents.NextClear(slot + 1)
		}
	}
	if remaining > 0 {
		return ErrArityMismatch
	}
	return nil
}

// GatherFrom routes the whole output of every source into dst, filling
// dst's unwired input slots in ascending order.
func (b *Builder) GatherFrom(dst Instruction, srcs ...Instruction) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if err := b.owns(dst); err != nil {
		return err
	}
	for _, src := range srcs {
		if err := b.owns(src); err != nil {
			return err
		}
	}

	for _, src := range srcs {
		pending := src.node.outputSize - len(src.node.routes)
		for i := 0; i < pending; i++ {
			slot := dst.node.dependents.NextClear(0)
			if slot < 0 {
				return ErrArityMismatch
			}
			if err := b.AddOutput(src, Route{Node: dst.ID(), Slot: slot}); err != nil {
				return err
			}
		}
	}
	return nil
}

// MarkAsInput designates the entry node. The node must be fully wired on
// the output side and must not receive tokens from any other node.
func (b *Builder) MarkAsInput(ins Instruction) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if err := b.owns(ins); err != nil {
		return err
	}
	n := ins.node
	if len(n.routes) != n.outputSize {
		return ErrIncompleteWiring
	}
	if !n.dependents.AllZero() {
		return ErrEntryHasDependents
	}
	b.graph.entry = n.id
	return nil
}

// MarkAsOutput designates the exit node. The node must have no outgoing
// routings and every one of its input slots must be wired.
func (b *Builder) MarkAsOutput(ins Instruction) error {
	if err := b.mutable(); err != nil {
		return err
	}
	if err := b.owns(ins); err != nil {
		return err
	}
	n := ins.node
	if len(n.routes) != 0 {
		return ErrExitHasOutputs
	}
	if !n.dependents.AllSet() {
		return ErrExitNotWired
	}
	if b.graph.exit >= 0 {
		b.graph.nodes[b.graph.exit].exit = false
	}
	b.graph.exit = n.id
	n.exit = true
	return nil
}
