package definition

import (
	"fmt"

	"github.com/mdflow/mdflow/internal/core/graph"
	"github.com/mdflow/mdflow/pkg/validation"
)

// Build validates a definition and drives the core builder to produce a
// validated graph template plus the instruction handle of every named node.
func Build(gd *validation.GraphDefinition, reg *Registry) (*graph.Builder, map[string]graph.Instruction, error) {
	if err := validation.ValidateDefinition(gd); err != nil {
		return nil, nil, err
	}

	b := graph.NewBuilder()
	instructions := make(map[string]graph.Instruction, len(gd.Nodes))

	// First pass: create every node so routes can refer forward.
	for _, nd := range gd.Nodes {
		ins, err := appendNode(b, reg, nd)
		if err != nil {
			return nil, nil, err
		}
		instructions[nd.ID] = ins
	}

	// Second pass: wire the output maps in declaration order.
	for _, nd := range gd.Nodes {
		src := instructions[nd.ID]
		for _, route := range nd.Outputs {
			dst := instructions[route.Node]
			err := b.AddOutput(src, graph.Route{Node: dst.ID(), Slot: route.Slot})
			if err != nil {
				return nil, nil, fmt.Errorf("node %s: %w", nd.ID, err)
			}
		}
	}

	if err := b.MarkAsInput(instructions[gd.Entry]); err != nil {
		return nil, nil, fmt.Errorf("entry %s: %w", gd.Entry, err)
	}
	if err := b.MarkAsOutput(instructions[gd.Exit]); err != nil {
		return nil, nil, fmt.Errorf("exit %s: %w", gd.Exit, err)
	}
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	return b, instructions, nil
}

func appendNode(b *graph.Builder, reg *Registry, nd validation.NodeDefinition) (graph.Instruction, error) {
	switch nd.Kind {
	case "standard":
		fn, ok := reg.Lookup(nd.Function)
		if !ok {
			return graph.Instruction{}, fmt.Errorf("node %s: %w: %s", nd.ID, ErrUnknownFunction, nd.Function)
		}
		return b.Add(fn)
	case "split":
		return b.Split(nd.Size)
	case "merge":
		return b.Merge(nd.Size)
	default:
		return graph.Instruction{}, fmt.Errorf("node %s: unknown kind %q", nd.ID, nd.Kind)
	}
}
