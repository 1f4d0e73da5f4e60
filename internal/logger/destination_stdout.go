package logger

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/gookit/color"
	"golang.org/x/term"
)

func levelColor(level Level) color.Color {
	switch level {
	case Debug:
		return color.Gray
	case Info:
		return color.Green
	case Notice:
		return color.Cyan
	default:
		return color.Red
	}
}

func consoleDescriptor() *Descriptor {
	return &Descriptor{
		Kind: "console",
		Open: func(_ interface{}) (Destination, error) {
			return newDestinationConsole(), nil
		},
	}
}

type destinationConsole struct {
	out      io.Writer
	useColor bool

	mutex  sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func newDestinationConsole() *destinationConsole {
	return &destinationConsole{
		out:      os.Stdout,
		useColor: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (d *destinationConsole) Emit(m *Message) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return ErrClosed
	}

	d.buf.Reset()
	line := m.Level.String() + ": "
	if !m.FromSystem() {
		line += m.Source + ": "
	}
	line += m.Text

	if d.useColor {
		d.buf.WriteString(color.RenderString(levelColor(m.Level).Code(), line))
	} else {
		d.buf.WriteString(line)
	}
	d.buf.WriteByte('\n')

	_, err := d.out.Write(d.buf.Bytes())
	return err
}

func (d *destinationConsole) Flush() error {
	// os.Stdout is unbuffered.
	return nil
}

func (d *destinationConsole) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.closed = true
	return nil
}
