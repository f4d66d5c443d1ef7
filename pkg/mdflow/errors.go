package mdflow

import (
	"github.com/mdflow/mdflow/internal/core/executor"
	"github.com/mdflow/mdflow/internal/core/graph"
)

// Structural and runtime sentinels re-exported for errors.Is matching.
var (
	ErrGraphValidated     = graph.ErrGraphValidated
	ErrForeignInstruction = graph.ErrForeignInstruction
	ErrEmptyInstruction   = graph.ErrEmptyInstruction
	ErrNilFunction        = graph.ErrNilFunction
	ErrInvalidSize        = graph.ErrInvalidSize

	ErrSelfLoop          = graph.ErrSelfLoop
	ErrNodeOutOfRange    = graph.ErrNodeOutOfRange
	ErrSlotOutOfRange    = graph.ErrSlotOutOfRange
	ErrSlotAlreadyWired  = graph.ErrSlotAlreadyWired
	ErrOutputMapFull     = graph.ErrOutputMapFull
	ErrOutputMapNotEmpty = graph.ErrOutputMapNotEmpty
	ErrOutputMapSize     = graph.ErrOutputMapSize
	ErrArityMismatch     = graph.ErrArityMismatch

	ErrEntryHasDependents = graph.ErrEntryHasDependents
	ErrExitHasOutputs     = graph.ErrExitHasOutputs
	ErrExitNotWired       = graph.ErrExitNotWired

	ErrEndpointsUnset   = graph.ErrEndpointsUnset
	ErrIncompleteWiring = graph.ErrIncompleteWiring
	ErrUnwiredSlot      = graph.ErrUnwiredSlot
	ErrCycle            = graph.ErrCycle
	ErrUnreachable      = graph.ErrUnreachable

	ErrNotValidated = graph.ErrNotValidated
	ErrInputArity   = graph.ErrInputArity

	ErrExecutorClosed = executor.ErrExecutorClosed
)
