package logger

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Errors returned by the Registry selection paths.
var (
	// ErrNoMatch is returned when no registered kind claims an
	// implicit target.
	ErrNoMatch = errors.New("no destination recognizes this target")

	// ErrUnsupported is returned when a kind was requested by name but
	// is not available in the current environment.
	ErrUnsupported = errors.New("destination kind unsupported in this environment")
)

// Descriptor describes a registered destination kind.
type Descriptor struct {
	// Kind is the unique symbolic name of the destination type.
	Kind string

	// Priority orders implicit target resolution: higher priorities are
	// consulted first, ties are broken by registration order.
	Priority int

	// Suitable reports whether the kind can run in the current
	// environment at all. A nil Suitable means always suitable.
	Suitable func() bool

	// Matches reports whether the kind claims a raw target value during
	// implicit resolution. A nil Matches means the kind must be named
	// explicitly.
	Matches func(target interface{}) bool

	// Open constructs and fully initializes an instance bound to the
	// target.
	Open func(target interface{}) (Destination, error)
}

func (d *Descriptor) suitable() bool {
	return d.Suitable == nil || d.Suitable()
}

func (d *Descriptor) matches(target interface{}) bool {
	return d.Matches != nil && d.Matches(target)
}

// Registry maps destination kind names to descriptors.
type Registry struct {
	mutex   sync.RWMutex
	byKind  map[string]*Descriptor
	ordered []*Descriptor
}

// NewRegistry allocates a Registry with the built-in kinds registered.
func NewRegistry(opts Options) *Registry {
	opts.setDefaults()

	r := &Registry{
		byKind: make(map[string]*Descriptor),
	}

	for _, d := range []*Descriptor{
		arrayDescriptor(),
		reportDescriptor(),
		fileDescriptor(&opts),
		remoteDescriptor(&opts),
		consoleDescriptor(),
		termDescriptor(),
		syslogDescriptor(&opts),
		eventLogDescriptor(&opts),
	} {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}

	return r
}

// Register adds a descriptor. Kind names are unique.
func (r *Registry) Register(d *Descriptor) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.byKind[d.Kind]; ok {
		return fmt.Errorf("destination kind '%s' is already registered", d.Kind)
	}

	r.byKind[d.Kind] = d
	r.ordered = append(r.ordered, d)

	// keep the implicit resolution order materialized. sort.SliceStable
	// preserves registration order within a priority.
	sort.SliceStable(r.ordered, func(i, j int) bool {
		return r.ordered[i].Priority > r.ordered[j].Priority
	})

	return nil
}

// Kinds returns the registered kind names in implicit resolution order.
func (r *Registry) Kinds() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ret := make([]string, len(r.ordered))
	for i, d := range r.ordered {
		ret[i] = d.Kind
	}
	return ret
}

// Find returns the descriptor registered under the given kind name.
func (r *Registry) Find(kind string) (*Descriptor, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	d, ok := r.byKind[kind]
	return d, ok
}

// Resolve finds the kind that claims an implicit target: the
// highest-priority suitable descriptor whose Matches accepts the value.
func (r *Registry) Resolve(target interface{}) (*Descriptor, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, d := range r.ordered {
		if d.suitable() && d.matches(target) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrNoMatch, target)
}

// Open resolves a kind (explicitly by name, or implicitly from the target
// when kind is empty) and opens an instance bound to the target. It
// returns the resolved kind name together with the instance.
func (r *Registry) Open(kind string, target interface{}) (string, Destination, error) {
	var desc *Descriptor

	if kind != "" {
		d, ok := r.Find(kind)
		if !ok {
			return "", nil, fmt.Errorf("unknown destination kind '%s'", kind)
		}
		if !d.suitable() {
			return "", nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
		}
		desc = d
	} else {
		d, err := r.Resolve(target)
		if err != nil {
			return "", nil, err
		}
		desc = d
	}

	dest, err := desc.Open(target)
	if err != nil {
		return "", nil, err
	}
	return desc.Kind, dest, nil
}
