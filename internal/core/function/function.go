// Package function wraps user callables with their declared input and
// output arity so the engine can route tokens without knowing the types
// they carry.
package function

import (
	"errors"
	"fmt"

	"github.com/mdflow/mdflow/internal/core/token"
)

// Function is the unit of computation attached to a standard node. Invoke
// receives the node's input tokens in slot order and returns the output
// tokens in output-map order.
type Function interface {
	Arity() int
	OutputSize() int
	Invoke(in []*token.Token) ([]*token.Token, error)
}

// Errors returned by the adapters in this package.
var (
	ErrNilCallable   = errors.New("callable cannot be nil")
	ErrBadArity      = errors.New("arity must be >= 0")
	ErrBadOutputSize = errors.New("output size must be >= 1")
)

type funcImpl struct {
	arity      int
	outputSize int
	impl       func(in []*token.Token) ([]*token.Token, error)
}

func (f *funcImpl) Arity() int      { return f.arity }
func (f *funcImpl) OutputSize() int { return f.outputSize }

func (f *funcImpl) Invoke(in []*token.Token) ([]*token.Token, error) {
	if len(in) != f.arity {
		return nil, fmt.Errorf("function expects %d inputs, got %d", f.arity, len(in))
	}
	out, err := f.impl(in)
	if err != nil {
		return nil, err
	}
	if len(out) != f.outputSize {
		return nil, fmt.Errorf("function declared %d outputs, produced %d", f.outputSize, len(out))
	}
	return out, nil
}

// New wraps a raw token-level callable with explicit arities. It is the
// escape hatch for functions whose shape the typed adapters below cannot
// express (output arity above one, variadic inputs).
func New(arity, outputSize int, impl func(in []*token.Token) ([]*token.Token, error)) (Function, error) {
	if impl == nil {
		return nil, ErrNilCallable
	}
	if arity < 0 {
		return nil, ErrBadArity
	}
	if outputSize < 1 {
		return nil, ErrBadOutputSize
	}
	return &funcImpl{arity: arity, outputSize: outputSize, impl: impl}, nil
}

// MustNew is New for statically correct call sites; it panics on error.
func MustNew(arity, outputSize int, impl func(in []*token.Token) ([]*token.Token, error)) Function {
	fn, err := New(arity, outputSize, impl)
	if err != nil {
		panic(err)
	}
	return fn
}

// Unary adapts a one-argument pure function.
func Unary[A, R any](f func(A) R) Function {
	return MustNew(1, 1, func(in []*token.Token) ([]*token.Token, error) {
		return []*token.Token{token.New(f(token.As[A](in[0])))}, nil
	})
}

// UnaryErr adapts a one-argument function that can fail.
func UnaryErr[A, R any](f func(A) (R, error)) Function {
	return MustNew(1, 1, func(in []*token.Token) ([]*token.Token, error) {
		r, err := f(token.As[A](in[0]))
		if err != nil {
			return nil, err
		}
		return []*token.Token{token.New(r)}, nil
	})
}

// Binary adapts a two-argument pure function.
func Binary[A, B, R any](f func(A, B) R) Function {
	return MustNew(2, 1, func(in []*token.Token) ([]*token.Token, error) {
		return []*token.Token{token.New(f(token.As[A](in[0]), token.As[B](in[1])))}, nil
	})
}

// BinaryErr adapts a two-argument function that can fail.
func BinaryErr[A, B, R any](f func(A, B) (R, error)) Function {
	return MustNew(2, 1, func(in []*token.Token) ([]*token.Token, error) {
		r, err := f(token.As[A](in[0]), token.As[B](in[1]))
		if err != nil {
			return nil, err
		}
		return []*token.Token{token.New(r)}, nil
	})
}

// placeholder backs split and merge nodes. Their routing logic lives in the
// node itself; the placeholder only exists so every node carries a Function.
type placeholder struct{}

func (placeholder) Arity() int      { return 0 }
func (placeholder) OutputSize() int { return 0 }

func (placeholder) Invoke([]*token.Token) ([]*token.Token, error) {
	return nil, errors.New("placeholder function is not invocable")
}

// Placeholder returns the inert function attached to split and merge nodes.
func Placeholder() Function {
	return placeholder{}
}
