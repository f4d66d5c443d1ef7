// Package graph defines domain-specific errors
package graph

import "errors"

// Structural errors surfaced by builder operations and validation.
var (
	// Builder errors
	ErrGraphValidated     = errors.New("graph can no longer be modified")
	ErrForeignInstruction = errors.New("instruction does not belong to this graph")
	ErrEmptyInstruction   = errors.New("instruction is empty")
	ErrNilFunction        = errors.New("function cannot be nil")
	ErrInvalidSize        = errors.New("node size must be at least 1")

	// Wiring errors
	ErrSelfLoop          = errors.New("a node cannot be wired to itself")
	ErrNodeOutOfRange    = errors.New("successor node out of range")
	ErrSlotOutOfRange    = errors.New("input slot out of range")
	ErrSlotAlreadyWired  = errors.New("input slot is already wired")
	ErrOutputMapFull     = errors.New("output map is full")
	ErrOutputMapNotEmpty = errors.New("output map is not empty")
	ErrOutputMapSize     = errors.New("output map must cover the whole output")
	ErrArityMismatch     = errors.New("destination slots do not match source output size")

	// Endpoint errors
	ErrEntryHasDependents = errors.New("the entry node cannot receive tokens from other nodes")
	ErrExitHasOutputs     = errors.New("the exit node cannot send tokens to other nodes")
	ErrExitNotWired       = errors.New("the exit node does not receive all of its tokens")

	// Validation errors
	ErrEndpointsUnset   = errors.New("entry and exit nodes must be set and distinct")
	ErrIncompleteWiring = errors.New("all output tokens must be wired")
	ErrUnwiredSlot      = errors.New("node has an input slot with no predecessor")
	ErrCycle            = errors.New("graph contains a cycle")
	ErrUnreachable      = errors.New("not every node is reachable from the entry")

	// Instance errors
	ErrNotValidated = errors.New("graph has not been validated")
	ErrInputArity   = errors.New("input values do not match the entry node arity")
)
