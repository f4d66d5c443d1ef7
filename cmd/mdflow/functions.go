package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdflow/mdflow/internal/adapters/definition"
	"github.com/mdflow/mdflow/internal/core/function"
	"github.com/mdflow/mdflow/internal/core/token"
)

// builtinRegistry returns the function set definition files can reference.
func builtinRegistry() *definition.Registry {
	reg := definition.NewRegistry()

	builtins := map[string]function.Function{
		"identity":  function.Unary(func(x any) any { return x }),
		"increment": function.Unary(func(x int) int { return x + 1 }),
		"decrement": function.Unary(func(x int) int { return x - 1 }),
		"double":    function.Unary(func(x int) int { return x * 2 }),
		"triple":    function.Unary(func(x int) int { return x * 3 }),
		"negate":    function.Unary(func(x int) int { return -x }),
		"square":    function.Unary(func(x int) int { return x * x }),
		"add":       function.Binary(func(a, b int) int { return a + b }),
		"multiply":  function.Binary(func(a, b int) int { return a * b }),
		"upper":     function.Unary(strings.ToUpper),
		"lower":     function.Unary(strings.ToLower),
		// sum collapses the bundle emitted by a merge node into one integer.
		"sum": function.Unary(func(b token.Bundle) int {
			total := 0
			for _, t := range b {
				total += token.As[int](t)
			}
			return total
		}),
		// join concatenates a bundle of strings.
		"join": function.Unary(func(b token.Bundle) string {
			parts := make([]string, len(b))
			for i, t := range b {
				parts[i] = token.As[string](t)
			}
			return strings.Join(parts, "")
		}),
	}

	for name, fn := range builtins {
		if err := reg.Register(name, fn); err != nil {
			panic(err)
		}
	}
	return reg
}

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the built-in functions available to definitions",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range builtinRegistry().Names() {
				fmt.Println(name)
			}
		},
	}
}
