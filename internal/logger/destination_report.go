package logger

import (
	"fmt"
	"sync"
)

func reportDescriptor() *Descriptor {
	return &Descriptor{
		Kind:     "report",
		Priority: 30,
		Matches: func(target interface{}) bool {
			_, ok := target.(MessageAppender)
			return ok
		},
		Open: func(target interface{}) (Destination, error) {
			r, ok := target.(MessageAppender)
			if !ok {
				return nil, fmt.Errorf("report destination requires a message appender, got %T", target)
			}
			return &destinationReport{report: r}, nil
		},
	}
}

// destinationReport appends raw messages into an external transaction
// report. Formatting is delegated entirely to the collaborator.
type destinationReport struct {
	mutex  sync.Mutex
	report MessageAppender
	closed bool
}

func (d *destinationReport) Emit(m *Message) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return ErrClosed
	}

	d.report.AppendLog(m)
	return nil
}

func (d *destinationReport) Flush() error {
	return nil
}

func (d *destinationReport) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.closed = true
	return nil
}
