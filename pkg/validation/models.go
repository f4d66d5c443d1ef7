// Package validation provides declarative graph-definition models with
// validation tags, used by the definition front end and the CLI.
package validation

// NodeDefinition describes one node of a declarative graph definition.
type NodeDefinition struct {
	ID   string `json:"id" msgpack:"id" validate:"required,node_id"`
	Kind string `json:"kind" msgpack:"kind" validate:"required,oneof=standard split merge"`
	// Function names a registry entry; required for standard nodes.
	Function string `json:"function,omitempty" msgpack:"function" validate:"required_if=Kind standard"`
	// Size is the fan of a split (outputs) or merge (inputs) node.
	Size int `json:"size,omitempty" msgpack:"size" validate:"omitempty,min=1"`
	// Outputs routes each output position to a successor slot, in order.
	Outputs []RouteDefinition `json:"outputs,omitempty" msgpack:"outputs" validate:"dive"`
}

// RouteDefinition addresses one input slot of a successor node by name.
type RouteDefinition struct {
	Node string `json:"node" msgpack:"node" validate:"required,node_id"`
	Slot int    `json:"slot" msgpack:"slot" validate:"min=0"`
}

// GraphDefinition is a complete declarative graph: nodes, wiring, and the
// entry/exit designation. It is what the serialization package writes to
// and reads from definition files.
type GraphDefinition struct {
	Name  string           `json:"name" msgpack:"name" validate:"required,min=1,max=200"`
	Nodes []NodeDefinition `json:"nodes" msgpack:"nodes" validate:"required,min=1,dive"`
	Entry string           `json:"entry" msgpack:"entry" validate:"required,node_id"`
	Exit  string           `json:"exit" msgpack:"exit" validate:"required,node_id"`
}

// Validate implements the cross-field rules the tags cannot express.
func (gd *GraphDefinition) Validate() error {
	var errs ValidationErrors

	seen := make(map[string]bool, len(gd.Nodes))
	for _, n := range gd.Nodes {
		if seen[n.ID] {
			errs = append(errs, ValidationError{
				Field:   "nodes",
				Value:   n.ID,
				Message: "duplicate node ID",
			})
		}
		seen[n.ID] = true

		if (n.Kind == "split" || n.Kind == "merge") && n.Size < 1 {
			errs = append(errs, ValidationError{
				Field:   "nodes.size",
				Value:   n.ID,
				Message: "split and merge nodes need a size of at least 1",
			})
		}
	}

	for _, n := range gd.Nodes {
		for _, r := range n.Outputs {
			if !seen[r.Node] {
				errs = append(errs, ValidationError{
					Field:   "nodes.outputs",
					Value:   r.Node,
					Message: "route target does not exist",
				})
			}
			if r.Node == n.ID {
				errs = append(errs, ValidationError{
					Field:   "nodes.outputs",
					Value:   n.ID,
					Message: "a node cannot route to itself",
				})
			}
		}
	}

	if gd.Entry != "" && !seen[gd.Entry] {
		errs = append(errs, ValidationError{
			Field:   "entry",
			Value:   gd.Entry,
			Message: "entry node does not exist",
		})
	}
	if gd.Exit != "" && !seen[gd.Exit] {
		errs = append(errs, ValidationError{
			Field:   "exit",
			Value:   gd.Exit,
			Message: "exit node does not exist",
		})
	}
	if gd.Entry != "" && gd.Entry == gd.Exit {
		errs = append(errs, ValidationError{
			Field:   "exit",
			Value:   gd.Exit,
			Message: "entry and exit must be distinct",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
