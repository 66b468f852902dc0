package domain

// CleanupFunc releases a scoped resource (a staged temp file, an open
// document handle). It is safe to call more than once; every exit path
// of the owning operation must defer it.
type CleanupFunc func() error

// Chain returns a CleanupFunc that calls each fn in order, continuing
// past individual errors and returning the first one encountered.
func Chain(fns ...CleanupFunc) CleanupFunc {
	return func() error {
		var first error
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
}
