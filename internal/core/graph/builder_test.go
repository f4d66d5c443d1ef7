package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdflow/mdflow/internal/core/function"
)

func identity() function.Function {
	return function.Unary(func(x int) int { return x })
}

// twoNodeChain builds A -> B with A as entry and B as exit.
func twoNodeChain(t *testing.T) (*Builder, Instruction, Instruction) {
	t.Helper()
	b := NewBuilder()
	a, err := b.Add(identity())
	require.NoError(t, err)
	bb, err := b.Add(identity())
	require.NoError(t, err)
	require.NoError(t, b.SendTo(a, bb))
	require.NoError(t, b.MarkAsInput(a))
	require.NoError(t, b.MarkAsOutput(bb))
	return b, a, bb
}

func TestBuilder_Add(t *testing.T) {
	b := NewBuilder()

	t.Run("standard node", func(t *testing.T) {
		ins, err := b.Add(identity())
		require.NoError(t, err)
		assert.Equal(t, 0, ins.ID())
		assert.Equal(t, 1, ins.InputSize())
		assert.Equal(t, 1, ins.OutputSize())
	})

	t.Run("nil function", func(t *testing.T) {
		_, err := b.Add(nil)
		assert.ErrorIs(t, err, ErrNilFunction)
	})

	t.Run("ids are dense and never reused", func(t *testing.T) {
		first, err := b.Add(identity())
		require.NoError(t, err)
		second, err := b.Add(identity())
		require.NoError(t, err)
		assert.Equal(t, first.ID()+1, second.ID())
	})
}

func TestBuilder_SplitMerge(t *testing.T) {
	b := NewBuilder()

	t.Run("split dimensions", func(t *testing.T) {
		s, err := b.Split(3)
		require.NoError(t, err)
		assert.Equal(t, 1, s.InputSize())
		assert.Equal(t, 3, s.OutputSize())
	})

	t.Run("merge dimensions", func(t *testing.T) {
		m, err := b.Merge(4)
		require.NoError(t, err)
		assert.Equal(t, 4, m.InputSize())
		assert.Equal(t, 1, m.OutputSize())
	})

	t.Run("size one is legal", func(t *testing.T) {
		_, err := b.Split(1)
		assert.NoError(t, err)
		_, err = b.Merge(1)
		assert.NoError(t, err)
	})

	t.Run("zero size rejected", func(t *testing.T) {
		_, err := b.Split(0)
		assert.ErrorIs(t, err, ErrInvalidSize)
		_, err = b.Merge(0)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
}

func TestBuilder_CloneNode(t *testing.T) {
	b1 := NewBuilder()
	src, err := b1.Add(function.Binary(func(a, b int) int { return a + b }))
	require.NoError(t, err)

	t.Run("within the same graph", func(t *testing.T) {
		clone, err := b1.CloneNode(src)
		require.NoError(t, err)
		assert.Equal(t, src.InputSize(), clone.InputSize())
		assert.Equal(t, src.OutputSize(), clone.OutputSize())
		assert.NotEqual(t, src.ID(), clone.ID())
	})

	t.Run("across graphs", func(t *testing.T) {
		b2 := NewBuilder()
		clone, err := b2.CloneNode(src)
		require.NoError(t, err)
		assert.Equal(t, 0, clone.ID())
		assert.Equal(t, 2, clone.InputSize())
	})

	t.Run("wiring state is fresh", func(t *testing.T) {
		b2 := NewBuilder()
		other, err := b2.Add(identity())
		require.NoError(t, err)
		require.NoError(t, b1.AddOutput(src, Route{Node: 1, Slot: 0}))

		clone, err := b2.CloneNode(src)
		require.NoError(t, err)
		// The clone starts unwired even though src already routes somewhere.
		require.NoError(t, b2.AddOutput(clone, Route{Node: other.ID(), Slot: 0}))
	})

	t.Run("empty instruction", func(t *testing.T) {
		_, err := b1.CloneNode(Instruction{})
		assert.ErrorIs(t, err, ErrEmptyInstruction)
	})
}

func TestBuilder_AddOutput(t *testing.T) {
	newPair := func(t *testing.T) (*Builder, Instruction, Instruction) {
		t.Helper()
		b := NewBuilder()
		a, err := b.Add(identity())
		require.NoError(t, err)
		c, err := b.Add(identity())
		require.NoError(t, err)
		return b, a, c
	}

	t.Run("valid route", func(t *testing.T) {
		b, a, c := newPair(t)
		require.NoError(t, b.AddOutput(a, Route{Node: c.ID(), Slot: 0}))
	})

	t.Run("self loop", func(t *testing.T) {
		b, a, _ := newPair(t)
		assert.ErrorIs(t, b.AddOutput(a, Route{Node: a.ID(), Slot: 0}), ErrSelfLoop)
	})

	t.Run("node out of range", func(t *testing.T) {
		b, a, _ := newPair(t)
		assert.ErrorIs(t, b.AddOutput(a, Route{Node: 99, Slot: 0}), ErrNodeOutOfRange)
	})

	t.Run("slot out of range", func(t *testing.T) {
		b, a, c := newPair(t)
		assert.ErrorIs(t, b.AddOutput(a, Route{Node: c.ID(), Slot: 5}), ErrSlotOutOfRange)
	})

	t.Run("double wired slot", func(t *testing.T) {
		b, a, c := newPair(t)
		other, err := b.Add(identity())
		require.NoError(t, err)
		require.NoError(t, b.AddOutput(a, Route{Node: c.ID(), Slot: 0}))
		assert.ErrorIs(t, b.AddOutput(other, Route{Node: c.ID(), Slot: 0}), ErrSlotAlreadyWired)
	})

	t.Run("output map full", func(t *testing.T) {
		b, a, c := newPair(t)
		d, err := b.Add(identity())
		require.NoError(t, err)
		require.NoError(t, b.AddOutput(a, Route{Node: c.ID(), Slot: 0}))
		assert.ErrorIs(t, b.AddOutput(a, Route{Node: d.ID(), Slot: 0}), ErrOutputMapFull)
	})

	t.Run("foreign instruction", func(t *testing.T) {
		b, _, c := newPair(t)
		other := NewBuilder()
		foreign, err := other.Add(identity())
		require.NoError(t, err)
		assert.ErrorIs(t, b.AddOutput(foreign, Route{Node: c.ID(), Slot: 0}), ErrForeignInstruction)
	})
}

func TestBuilder_SetOutput(t *testing.T) {
	setup := func(t *testing.T) (*Builder, Instruction, Instruction, Instruction) {
		t.Helper()
		b := NewBuilder()
		s, err := b.Split(2)
		require.NoError(t, err)
		x, err := b.Add(identity())
		require.NoError(t, err)
		y, err := b.Add(identity())
		require.NoError(t, err)
		return b, s, x, y
	}

	t.Run("complete map", func(t *testing.T) {
		b, s, x, y := setup(t)
		err := b.SetOutput(s, []Route{{Node: x.ID(), Slot: 0}, {Node: y.ID(), Slot: 0}})
		require.NoError(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		b, s, x, _ := setup(t)
		err := b.SetOutput(s, []Route{{Node: x.ID(), Slot: 0}})
		assert.ErrorIs(t, err, ErrOutputMapSize)
	})

	t.Run("map must be empty beforehand", func(t *testing.T) {
		b, s, x, y := setup(t)
		require.NoError(t, b.AddOutput(s, Route{Node: x.ID(), Slot: 0}))
		err := b.SetOutput(s, []Route{{Node: x.ID(), Slot: 0}, {Node: y.ID(), Slot: 0}})
		assert.ErrorIs(t, err, ErrOutputMapNotEmpty)
	})
}

func TestBuilder_SendTo(t *testing.T) {
	t.Run("one destination", func(t *testing.T) {
		b := NewBuilder()
		a, _ := b.Add(identity())
		c, _ := b.Add(identity())
		require.NoError(t, b.SendTo(a, c))
	})

	t.Run("fan out across destinations", func(t *testing.T) {
		b := NewBuilder()
		s, err := b.Split(2)
		require.NoError(t, err)
		x, _ := b.Add(identity())
		y, _ := b.Add(identity())
		require.NoError(t, b.SendTo(s, x, y))
	})

	t.Run("combined arity mismatch", func(t *testing.T) {
		b := NewBuilder()
		s, err := b.Split(3)
		require.NoError(t, err)
		x, _ := b.Add(identity())
		y, _ := b.Add(identity())
		assert.ErrorIs(t, b.SendTo(s, x, y), ErrArityMismatch)
	})

	t.Run("destination from another graph", func(t *testing.T) {
		b := NewBuilder()
		a, _ := b.Add(identity())
		other := NewBuilder()
		foreign, _ := other.Add(identity())
		assert.ErrorIs(t, b.SendTo(a, foreign), ErrForeignInstruction)
	})
}

func TestBuilder_GatherFrom(t *testing.T) {
	t.Run("many sources into a merge", func(t *testing.T) {
		b := NewBuilder()
		m, err := b.Merge(2)
		require.NoError(t, err)
		x, _ := b.Add(identity())
		y, _ := b.Add(identity())
		require.NoError(t, b.GatherFrom(m, x, y))
		// x feeds slot 0, y feeds slot 1, both fully routed.
		assert.ErrorIs(t, b.AddOutput(x, Route{Node: m.ID(), Slot: 1}), ErrOutputMapFull)
	})

	t.Run("destination slots exhausted", func(t *testing.T) {
		b := NewBuilder()
		m, err := b.Merge(1)
		require.NoError(t, err)
		x, _ := b.Add(identity())
		y, _ := b.Add(identity())
		assert.ErrorIs(t, b.GatherFrom(m, x, y), ErrArityMismatch)
	})
}

func TestBuilder_MarkEndpoints(t *testing.T) {
	t.Run("exit needs all dependents wired", func(t *testing.T) {
		b := NewBuilder()
		a, _ := b.Add(identity())
		assert.ErrorIs(t, b.MarkAsOutput(a), ErrExitNotWired)
	})

	t.Run("exit cannot have outgoing routes", func(t *testing.T) {
		b := NewBuilder()
		a, _ := b.Add(identity())
		c, _ := b.Add(identity())
		require.NoError(t, b.SendTo(a, c))
		require.NoError(t, b.SendTo(c, a)) // wire a's single slot so only routes disqualify it
		assert.ErrorIs(t, b.MarkAsOutput(a), ErrExitHasOutputs)
	})

	t.Run("entry needs complete output map", func(t *testing.T) {
		b := NewBuilder()
		a, _ := b.Add(identity())
		assert.ErrorIs(t, b.MarkAsInput(a), ErrIncompleteWiring)
	})

	t.Run("entry cannot have predecessors", func(t *testing.T) {
		b := NewBuilder()
		a, _ := b.Add(identity())
		c, _ := b.Add(identity())
		d, _ := b.Add(identity())
		require.NoError(t, b.SendTo(a, c))
		require.NoError(t, b.SendTo(c, d))
		assert.ErrorIs(t, b.MarkAsInput(c), ErrEntryHasDependents)
	})
}

func TestBuilder_FrozenAfterValidate(t *testing.T) {
	b, a, _ := twoNodeChain(t)
	require.NoError(t, b.Validate())

	_, err := b.Add(identity())
	assert.ErrorIs(t, err, ErrGraphValidated)
	_, err = b.Split(2)
	assert.ErrorIs(t, err, ErrGraphValidated)
	_, err = b.Merge(2)
	assert.ErrorIs(t, err, ErrGraphValidated)
	_, err = b.CloneNode(a)
	assert.ErrorIs(t, err, ErrGraphValidated)
	assert.ErrorIs(t, b.AddOutput(a, Route{Node: 1, Slot: 0}), ErrGraphValidated)
	assert.ErrorIs(t, b.SetOutput(a, []Route{{Node: 1, Slot: 0}}), ErrGraphValidated)
	assert.ErrorIs(t, b.SendTo(a, a), ErrGraphValidated)
	assert.ErrorIs(t, b.GatherFrom(a, a), ErrGraphValidated)
	assert.ErrorIs(t, b.MarkAsInput(a), ErrGraphValidated)
	assert.ErrorIs(t, b.MarkAsOutput(a), ErrGraphValidated)
}

func TestInstruction_FromSameGraph(t *testing.T) {
	b1 := NewBuilder()
	b2 := NewBuilder()
	a, _ := b1.Add(identity())
	c, _ := b1.Add(identity())
	foreign, _ := b2.Add(identity())

	assert.True(t, a.FromSameGraph(c))
	assert.False(t, a.FromSameGraph(foreign))
	assert.False(t, a.FromSameGraph(c, foreign))
}
