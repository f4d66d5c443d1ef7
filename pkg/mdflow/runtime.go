package mdflow

import (
	"github.com/mdflow/mdflow/internal/core/executor"
	"github.com/mdflow/mdflow/internal/core/function"
	"github.com/mdflow/mdflow/internal/core/graph"
	"github.com/mdflow/mdflow/internal/core/token"
)

// Re-export the core types so callers never import internal packages.
type (
	Builder        = graph.Builder
	Instruction    = graph.Instruction
	Route          = graph.Route
	Graph          = graph.Graph
	Kind           = graph.Kind
	Token          = token.Token
	Bundle         = token.Bundle
	Function       = function.Function
	Executor       = executor.Executor
	ExecutorConfig = executor.Config
	Future         = executor.Future
)

// Node kinds.
const (
	KindStandard = graph.KindStandard
	KindSplit    = graph.KindSplit
	KindMerge    = graph.KindMerge
)

// NewBuilder creates a builder owning a fresh empty graph.
func NewBuilder() *Builder {
	return graph.NewBuilder()
}

// NewExecutor creates an executor with the given pool size; workers <= 0
// means one worker per CPU.
func NewExecutor(workers int) *Executor {
	return executor.New(executor.Config{Workers: workers})
}

// NewExecutorFromConfig creates an executor with full configuration.
func NewExecutorFromConfig(cfg ExecutorConfig) *Executor {
	return executor.New(cfg)
}

// NewToken wraps a value in a token.
func NewToken(v any) *Token {
	return token.New(v)
}

// ValueOf returns a token's payload as T.
func ValueOf[T any](t *Token) T {
	return token.As[T](t)
}

// NewFunction wraps a raw token-level callable with explicit arities.
func NewFunction(arity, outputSize int, impl func(in []*Token) ([]*Token, error)) (Function, error) {
	return function.New(arity, outputSize, impl)
}

// Unary adapts a one-argument pure function.
func Unary[A, R any](f func(A) R) Function {
	return function.Unary(f)
}

// UnaryErr adapts a one-argument function that can fail.
func UnaryErr[A, R any](f func(A) (R, error)) Function {
	return function.UnaryErr(f)
}

// Binary adapts a two-argument pure function.
func Binary[A, B, R any](f func(A, B) R) Function {
	return function.Binary(f)
}

// BinaryErr adapts a two-argument function that can fail.
func BinaryErr[A, B, R any](f func(A, B) (R, error)) Function {
	return function.BinaryErr(f)
}
