package surfaces

// option is a value that may be absent. It doubles as a one-shot cache cell
// for lazily computed properties; a cell has a single writer and isn't safe
// for concurrent first access.
type option[T any] struct {
	isSet bool
	value T
}

func (opt *option[T]) set(v T) {
	opt.isSet = true
	opt.value = v
}

// get returns the cached value, computing and storing it on first use.
func (opt *option[T]) get(compute func() T) T {
	if !opt.isSet {
		opt.set(compute())
	}
	return opt.value
}
