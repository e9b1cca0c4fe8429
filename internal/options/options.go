// Package options implements the functional-option plumbing shared by
// the public packages.
package options

// Option mutates a configuration of type T and may reject bad values.
type Option[T any] interface {
	Apply(*T) error
}

type optionFunc[T any] func(*T) error

func (f optionFunc[T]) Apply(t *T) error { return f(t) }

// New wraps a fallible configuration function as an Option.
func New[T any](f func(*T) error) Option[T] {
	return optionFunc[T](f)
}

// NoError wraps an infallible configuration function as an Option.
func NoError[T any](f func(*T)) Option[T] {
	return optionFunc[T](func(t *T) error {
		f(t)
		return nil
	})
}

// Apply applies opts to target in order, stopping at the first error.
func Apply[T any](target *T, opts ...Option[T]) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o.Apply(target); err != nil {
			return err
		}
	}
	return nil
}
