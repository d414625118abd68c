package generate

import "time"

// Observer is notified of every completed generation.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveGeneration(res *Result, elapsed time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(res *Result, elapsed time.Duration)

// ObserveGeneration implements Observer.
func (f ObserverFunc) ObserveGeneration(res *Result, elapsed time.Duration) {
	f(res, elapsed)
}

type multiObserver []Observer

func (m multiObserver) ObserveGeneration(res *Result, elapsed time.Duration) {
	for _, o := range m {
		o.ObserveGeneration(res, elapsed)
	}
}
