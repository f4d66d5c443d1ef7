package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mdflow/mdflow/internal/adapters/definition"
	"github.com/mdflow/mdflow/internal/core/executor"
	"github.com/mdflow/mdflow/internal/core/token"
	"github.com/mdflow/mdflow/pkg/serialization"
	"github.com/mdflow/mdflow/pkg/validation"
)

func newRunCmd() *cobra.Command {
	var (
		inputs  []string
		workers int
		repeat  int
		keyHex  string
	)

	cmd := &cobra.Command{
		Use:   "run <definition-file>",
		Short: "Execute a graph definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gd, err := loadDefinition(args[0], keyHex)
			if err != nil {
				return err
			}

			builder, _, err := definition.Build(gd, builtinRegistry())
			if err != nil {
				return err
			}

			values := make([]any, len(inputs))
			for i, raw := range inputs {
				values[i] = parseInput(raw)
			}

			ex := executor.New(executor.Config{Workers: workers, Logger: logger()})
			defer ex.Close()

			if repeat < 1 {
				repeat = 1
			}
			results := make([][]*token.Token, repeat)

			g, ctx := errgroup.WithContext(cmd.Context())
			for i := 0; i < repeat; i++ {
				fut, err := ex.Run(builder.Graph(), values...)
				if err != nil {
					return err
				}
				g.Go(func() error {
					out, err := fut.Wait(ctx)
					if err != nil {
						return err
					}
					results[i] = out
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, out := range results {
				if repeat > 1 {
					fmt.Printf("run %d: %s\n", i, formatTokens(out))
				} else {
					fmt.Println(formatTokens(out))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "entry input value (repeatable, positional order)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker pool size (0 = one per CPU)")
	cmd.Flags().IntVarP(&repeat, "repeat", "n", 1, "number of concurrent runs")
	cmd.Flags().StringVar(&keyHex, "key", "", "hex-encoded AES-256 key for encrypted definitions")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var keyHex string

	cmd := &cobra.Command{
		Use:   "validate <definition-file>",
		Short: "Validate a graph definition without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gd, err := loadDefinition(args[0], keyHex)
			if err != nil {
				return err
			}
			if _, _, err := definition.Build(gd, builtinRegistry()); err != nil {
				return err
			}
			fmt.Printf("%s: ok (%d nodes)\n", gd.Name, len(gd.Nodes))
			return nil
		},
	}

	cmd.Flags().StringVar(&keyHex, "key", "", "hex-encoded AES-256 key for encrypted definitions")
	return cmd
}

// parseKey decodes the --key flag into an AES key; empty means no key.
func parseKey(keyHex string) ([]byte, error) {
	if keyHex == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	return key, nil
}

// loadDefinition reads a definition file in either supported form; the
// envelope header (or bare JSON) tells the decoder everything but the key.
func loadDefinition(path, keyHex string) (*validation.GraphDefinition, error) {
	key, err := parseKey(keyHex)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return serialization.DecodeDefinition(data, key)
}

// parseInput maps a raw CLI value to the most specific of int, float, bool,
// or string.
func parseInput(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func formatTokens(out []*token.Token) string {
	parts := make([]string, len(out))
	for i, t := range out {
		parts[i] = fmt.Sprintf("%v", t.Value())
	}
	return strings.Join(parts, " ")
}
