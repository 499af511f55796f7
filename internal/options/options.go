// Package options provides the generic functional-options applicator used
// to build a dif.Context. None of it is DIF-specific: it exists so
// dif.NewContext can read as a flat list of WithX calls instead of a long
// positional constructor.
package options

// Option configures a target of type T, and may reject the configuration
// it's asked to apply (an out-of-range block size, say).
type Option[T any] interface {
	apply(T) error
}

// Func adapts a plain function into an Option.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New wraps fn as an Option.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// Apply runs opts against target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// NoError wraps fn as an Option for configuration that can't fail, such as
// setting a flag bit.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}
