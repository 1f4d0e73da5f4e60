package logger

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/gookit/color"
	"golang.org/x/term"
)

// capitalized error-class labels used by the term rendering.
var termLabels = map[Level]string{
	Warning: "Warning",
	Err:     "Error",
	Alert:   "Alert",
	Emerg:   "Emergency",
	Crit:    "Critical",
}

func termDescriptor() *Descriptor {
	return &Descriptor{
		Kind: "term",
		Open: func(_ interface{}) (Destination, error) {
			return newDestinationTerm(), nil
		},
	}
}

// destinationTerm is an alternate console rendering: error-class levels go
// to stderr with capitalized labels, informational levels to stdout with
// per-level colors, out-of-range levels are passed through raw.
type destinationTerm struct {
	out      io.Writer
	errOut   io.Writer
	useColor bool

	mutex  sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func newDestinationTerm() *destinationTerm {
	return &destinationTerm{
		out:      os.Stdout,
		errOut:   os.Stderr,
		useColor: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

func (d *destinationTerm) Emit(m *Message) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return ErrClosed
	}

	d.buf.Reset()

	if !m.Level.Valid() {
		d.buf.WriteString(m.Text)
		d.buf.WriteByte('\n')
		_, err := d.out.Write(d.buf.Bytes())
		return err
	}

	if m.Level.Class() == ClassError {
		label := termLabels[m.Level]
		if d.useColor {
			label = color.RenderString(color.Red.Code(), label)
		}
		d.buf.WriteString(label)
		d.buf.WriteString(": ")
		d.buf.WriteString(m.Text)
		d.buf.WriteByte('\n')
		_, err := d.errOut.Write(d.buf.Bytes())
		return err
	}

	line := m.Level.String() + ": " + m.Text
	if d.useColor {
		line = color.RenderString(levelColor(m.Level).Code(), line)
	}
	d.buf.WriteString(line)
	d.buf.WriteByte('\n')
	_, err := d.out.Write(d.buf.Bytes())
	return err
}

func (d *destinationTerm) Flush() error {
	return nil
}

func (d *destinationTerm) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.closed = true
	return nil
}
