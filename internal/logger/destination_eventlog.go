package logger

import (
	"sync"
)

// Event ids of the three native event types.
const (
	eventIDInfo    = 0x01
	eventIDWarning = 0x02
	eventIDError   = 0x03
)

// eventLogWriter mirrors the native event-log client.
type eventLogWriter interface {
	Info(id uint32, msg string) error
	Warning(id uint32, msg string) error
	Error(id uint32, msg string) error
	Close() error
}

func eventLogDescriptor(opts *Options) *Descriptor {
	return &Descriptor{
		Kind:     "eventlog",
		Suitable: eventLogSuitable,
		Open: func(_ interface{}) (Destination, error) {
			w, err := newEventLogWriter(opts.ProcessName)
			if err != nil {
				return nil, err
			}
			return &destinationEventLog{inner: w}, nil
		},
	}
}

// destinationEventLog collapses the severity scale onto the native
// two-axis (type, id) pairs: informational levels become INFORMATION
// events, warning becomes WARNING, everything above becomes ERROR.
type destinationEventLog struct {
	mutex  sync.Mutex
	inner  eventLogWriter
	closed bool
}

func (d *destinationEventLog) Emit(m *Message) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return ErrClosed
	}

	switch {
	case m.Level <= Notice:
		return d.inner.Info(eventIDInfo, m.Text)
	case m.Level == Warning:
		return d.inner.Warning(eventIDWarning, m.Text)
	default:
		return d.inner.Error(eventIDError, m.Text)
	}
}

func (d *destinationEventLog) Flush() error {
	return nil
}

func (d *destinationEventLog) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.inner.Close()
}
