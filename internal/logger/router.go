package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"
)

type binding struct {
	kind   string
	target interface{}
	dest   Destination
}

// targetEqual compares two raw target values for activation identity.
// Non-comparable targets never collide.
func targetEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Router fans log messages out to the currently active destinations.
type Router struct {
	registry *Registry

	// fallback receives per-destination emit failures together with the
	// original message, console-formatted. It must never fail itself.
	fallback io.Writer

	mutex  sync.Mutex
	active []*binding
}

// NewRouter allocates a Router. Emit failures are reported to stderr.
func NewRouter(registry *Registry) *Router {
	return &Router{
		registry: registry,
		fallback: os.Stderr,
	}
}

// SetFallback redirects failure reporting, mainly for tests.
func (ro *Router) SetFallback(w io.Writer) {
	ro.mutex.Lock()
	defer ro.mutex.Unlock()
	ro.fallback = w
}

// Activate resolves a destination through the registry, opens it and adds
// it to the active set. An empty kind selects implicitly from the target.
// Activating an already-active (kind, target) identity is a no-op.
func (ro *Router) Activate(kind string, target interface{}) error {
	ro.mutex.Lock()
	defer ro.mutex.Unlock()

	for _, b := range ro.active {
		if (kind == "" || b.kind == kind) && targetEqual(b.target, target) {
			return nil
		}
	}

	resolvedKind, dest, err := ro.registry.Open(kind, target)
	if err != nil {
		return err
	}

	ro.active = append(ro.active, &binding{
		kind:   resolvedKind,
		target: target,
		dest:   dest,
	})
	metricActiveDestinations.WithLabelValues(resolvedKind).Inc()
	return nil
}

// Deactivate closes and removes the instance bound to the target.
// Close errors are reported to the fallback, never propagated.
func (ro *Router) Deactivate(target interface{}) {
	ro.mutex.Lock()
	defer ro.mutex.Unlock()

	for i, b := range ro.active {
		if targetEqual(b.target, target) {
			ro.removeLocked(i)
			return
		}
	}
}

// DeactivateKind closes and removes all instances of a kind.
func (ro *Router) DeactivateKind(kind string) {
	ro.mutex.Lock()
	defer ro.mutex.Unlock()

	for i := 0; i < len(ro.active); {
		if ro.active[i].kind == kind {
			ro.removeLocked(i)
		} else {
			i++
		}
	}
}

func (ro *Router) removeLocked(i int) {
	b := ro.active[i]
	if err := b.dest.Close(); err != nil {
		fmt.Fprintf(ro.fallback, "err: could not close log destination %s: %v\n", b.kind, err)
	}
	ro.active = append(ro.active[:i], ro.active[i+1:]...)
	metricActiveDestinations.WithLabelValues(b.kind).Dec()
}

// ActiveKinds returns the kinds of the active destinations in activation
// order.
func (ro *Router) ActiveKinds() []string {
	ro.mutex.Lock()
	defer ro.mutex.Unlock()

	ret := make([]string, len(ro.active))
	for i, b := range ro.active {
		ret[i] = b.kind
	}
	return ret
}

// Dispatch delivers the message to every active destination in activation
// order. Failures are isolated per destination: they are reported to the
// fallback and never reach the caller or block the remaining
// destinations. A failure wrapping ErrDeactivate removes the destination
// from the active set.
func (ro *Router) Dispatch(m *Message) {
	ro.mutex.Lock()
	snapshot := make([]*binding, len(ro.active))
	copy(snapshot, ro.active)
	fallback := ro.fallback
	ro.mutex.Unlock()

	metricDispatched.Inc()

	var drop []*binding

	for _, b := range snapshot {
		err := b.dest.Emit(m)
		if err == nil {
			continue
		}

		metricEmitErrors.WithLabelValues(b.kind).Inc()
		fmt.Fprintf(fallback, "err: could not log to %s: %v\n\toriginal message: %s: %s\n",
			b.kind, err, m.Level, m.Text)

		if errors.Is(err, ErrDeactivate) {
			metricSelfDeactivations.WithLabelValues(b.kind).Inc()
			drop = append(drop, b)
		}
	}

	if drop == nil {
		return
	}

	ro.mutex.Lock()
	defer ro.mutex.Unlock()

	for _, d := range drop {
		for i, b := range ro.active {
			if b == d {
				ro.removeLocked(i)
				break
			}
		}
	}
}

// Flush flushes every active destination, best effort.
func (ro *Router) Flush() {
	ro.mutex.Lock()
	defer ro.mutex.Unlock()

	for _, b := range ro.active {
		if err := b.dest.Flush(); err != nil {
			fmt.Fprintf(ro.fallback, "err: could not flush log destination %s: %v\n", b.kind, err)
		}
	}
}

// Shutdown deactivates every destination in reverse activation order.
// Close errors are reported but never abort the sequence.
func (ro *Router) Shutdown() {
	ro.mutex.Lock()
	defer ro.mutex.Unlock()

	for i := len(ro.active) - 1; i >= 0; i-- {
		ro.removeLocked(i)
	}
}
