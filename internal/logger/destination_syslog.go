package logger

import (
	"strings"
	"sync"
)

// syslogWriter mirrors the per-level methods of the native syslog client.
type syslogWriter interface {
	Debug(m string) error
	Info(m string) error
	Notice(m string) error
	Warning(m string) error
	Err(m string) error
	Alert(m string) error
	Emerg(m string) error
	Crit(m string) error
	Close() error
}

func syslogDescriptor(opts *Options) *Descriptor {
	return &Descriptor{
		Kind:     "syslog",
		Suitable: syslogSuitable,
		Open: func(_ interface{}) (Destination, error) {
			w, err := newSyslogWriter(opts.ProcessName, opts.SyslogFacility)
			if err != nil {
				return nil, err
			}
			return &destinationSyslog{inner: w}, nil
		},
	}
}

type destinationSyslog struct {
	mutex  sync.Mutex
	inner  syslogWriter
	closed bool
}

// escapePercent doubles every '%' so the text can never be interpreted as
// a format string by the syslog daemon or downstream viewers.
func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

func (d *destinationSyslog) Emit(m *Message) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return ErrClosed
	}

	text := escapePercent(m.Text)

	switch m.Level {
	case Debug:
		return d.inner.Debug(text)
	case Info:
		return d.inner.Info(text)
	case Notice:
		return d.inner.Notice(text)
	case Warning:
		return d.inner.Warning(text)
	case Err:
		return d.inner.Err(text)
	case Alert:
		return d.inner.Alert(text)
	case Emerg:
		return d.inner.Emerg(text)
	default:
		return d.inner.Crit(text)
	}
}

func (d *destinationSyslog) Flush() error {
	return nil
}

func (d *destinationSyslog) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.inner.Close()
}
