package postgres

// Satisfied by observability.Prom; nil disables instrumentation.
type dbObserver interface {
	ObserveDB(op string, fn func() error) error
}

func observe(m dbObserver, op string, fn func() error) error {
	if m == nil {
		return fn()
	}

	return m.ObserveDB(op, fn)
}
