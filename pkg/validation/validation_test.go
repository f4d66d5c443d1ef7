package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition() *GraphDefinition {
	return &GraphDefinition{
		Name: "chain",
		Nodes: []NodeDefinition{
			{ID: "a", Kind: "standard", Function: "increment", Outputs: []RouteDefinition{{Node: "b", Slot: 0}}},
			{ID: "b", Kind: "standard", Function: "increment"},
		},
		Entry: "a",
		Exit:  "b",
	}
}

func TestValidateDefinition(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateDefinition(validDefinition()))
	})

	t.Run("nil definition", func(t *testing.T) {
		assert.Error(t, ValidateDefinition(nil))
	})

	tests := []struct {
		name    string
		mutate  func(gd *GraphDefinition)
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(gd *GraphDefinition) { gd.Name = "" },
			message: "field is required",
		},
		{
			name:    "no nodes",
			mutate:  func(gd *GraphDefinition) { gd.Nodes = nil },
			message: "field is required",
		},
		{
			name:    "bad kind",
			mutate:  func(gd *GraphDefinition) { gd.Nodes[0].Kind = "fanout" },
			message: "must be one of",
		},
		{
			name:    "standard node without function",
			mutate:  func(gd *GraphDefinition) { gd.Nodes[1].Function = "" },
			message: "field is required",
		},
		{
			name:    "bad node id",
			mutate:  func(gd *GraphDefinition) { gd.Nodes[0].ID = "no spaces allowed" },
			message: "node identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gd := validDefinition()
			tt.mutate(gd)
			err := ValidateDefinition(gd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestGraphDefinition_CrossFieldRules(t *testing.T) {
	t.Run("duplicate node id", func(t *testing.T) {
		gd := validDefinition()
		gd.Nodes = append(gd.Nodes, NodeDefinition{ID: "a", Kind: "standard", Function: "x"})
		err := ValidateDefinition(gd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate node ID")
	})

	t.Run("route to missing node", func(t *testing.T) {
		gd := validDefinition()
		gd.Nodes[0].Outputs = []RouteDefinition{{Node: "ghost", Slot: 0}}
		err := ValidateDefinition(gd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "route target does not exist")
	})

	t.Run("self route", func(t *testing.T) {
		gd := validDefinition()
		gd.Nodes[0].Outputs = []RouteDefinition{{Node: "a", Slot: 0}}
		err := ValidateDefinition(gd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot route to itself")
	})

	t.Run("unknown entry", func(t *testing.T) {
		gd := validDefinition()
		gd.Entry = "ghost"
		err := ValidateDefinition(gd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entry node does not exist")
	})

	t.Run("entry equals exit", func(t *testing.T) {
		gd := validDefinition()
		gd.Exit = "a"
		err := ValidateDefinition(gd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entry and exit must be distinct")
	})

	t.Run("split without size", func(t *testing.T) {
		gd := validDefinition()
		gd.Nodes = append(gd.Nodes, NodeDefinition{ID: "s", Kind: "split"})
		err := ValidateDefinition(gd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "size of at least 1")
	})
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())

	errs := ValidationErrors{
		{Field: "name", Value: "", Message: "field is required"},
		{Field: "exit", Value: "a", Message: "entry and exit must be distinct"},
	}
	assert.Contains(t, errs.Error(), "field 'name'")
	assert.Contains(t, errs.Error(), "field 'exit'")
}
