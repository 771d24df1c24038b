package result

// Of carries either a value or an error, typically over a channel.
type Of[T any] struct {
	ok  *T
	err error
}

func Ok[T any](v *T) Of[T] {
	return Of[T]{ok: v, err: nil}
}

func Err[T any](err error) Of[T] {
	return Of[T]{ok: nil, err: err}
}

func (r Of[T]) Err() error {
	return r.err
}

// Unwrap returns the value. It panics if r holds an error.
func (r Of[T]) Unwrap() *T {
	if nil != r.err {
		panic("unwrap called on result holding error: " + r.err.Error())
	}
	return r.ok
}
