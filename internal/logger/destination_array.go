package logger

import (
	"fmt"
	"sync"
)

// Buffer is an in-memory message sink used as a deterministic oracle in
// tests. Messages are stored untouched.
type Buffer struct {
	mutex sync.Mutex
	msgs  []*Message
}

// Append stores a message.
func (b *Buffer) Append(m *Message) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.msgs = append(b.msgs, m)
}

// AppendLog implements MessageAppender, so a Buffer can stand in for a
// transaction report. The array kind outranks the report kind during
// implicit resolution, making the overlap deterministic.
func (b *Buffer) AppendLog(m *Message) {
	b.Append(m)
}

// Messages returns the stored messages in arrival order.
func (b *Buffer) Messages() []*Message {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	ret := make([]*Message, len(b.msgs))
	copy(ret, b.msgs)
	return ret
}

// Len returns the number of stored messages.
func (b *Buffer) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.msgs)
}

func arrayDescriptor() *Descriptor {
	return &Descriptor{
		Kind:     "array",
		Priority: 40,
		Matches: func(target interface{}) bool {
			_, ok := target.(*Buffer)
			return ok
		},
		Open: func(target interface{}) (Destination, error) {
			b, ok := target.(*Buffer)
			if !ok {
				return nil, fmt.Errorf("array destination requires a *Buffer, got %T", target)
			}
			return &destinationArray{buffer: b}, nil
		},
	}
}

type destinationArray struct {
	mutex  sync.Mutex
	buffer *Buffer
	closed bool
}

func (d *destinationArray) Emit(m *Message) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return ErrClosed
	}

	d.buffer.Append(m)
	return nil
}

func (d *destinationArray) Flush() error {
	return nil
}

func (d *destinationArray) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.closed = true
	return nil
}
