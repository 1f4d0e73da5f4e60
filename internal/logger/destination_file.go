package logger

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// fileTimeFormat is the timestamp layout of file log lines.
const fileTimeFormat = "2006/01/02 15:04:05"

func fileDescriptor(opts *Options) *Descriptor {
	return &Descriptor{
		Kind:     "file",
		Priority: 20,
		Matches: func(target interface{}) bool {
			s, ok := target.(string)
			return ok && filepath.IsAbs(s)
		},
		Open: func(target interface{}) (Destination, error) {
			path, ok := target.(string)
			if !ok {
				return nil, fmt.Errorf("file destination requires a path, got %T", target)
			}
			if !filepath.IsAbs(path) {
				return nil, fmt.Errorf("file destination requires an absolute path, got '%s'", path)
			}
			return newDestinationFile(path, opts)
		},
	}
}

type destinationFile struct {
	autoFlush bool

	mutex  sync.Mutex
	inner  io.Closer
	bw     *bufio.Writer
	buf    bytes.Buffer
	closed bool
}

func newDestinationFile(path string, opts *Options) (*destinationFile, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, err
	}

	d := &destinationFile{
		autoFlush: opts.AutoFlush,
	}

	if opts.FileMaxSize > 0 {
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.FileMaxSize,
			MaxBackups: opts.FileMaxBackups,
			MaxAge:     opts.FileMaxAge,
			Compress:   true,
		}
		d.inner = lj
		d.bw = bufio.NewWriter(lj)
	} else {
		// append-only open: existing content is never truncated.
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		d.inner = f
		d.bw = bufio.NewWriter(f)
	}

	return d, nil
}

func (d *destinationFile) Emit(m *Message) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return ErrClosed
	}

	d.buf.Reset()
	d.buf.WriteString(m.Time.Format(fileTimeFormat))
	d.buf.WriteByte(' ')
	d.buf.WriteString(m.Source)
	d.buf.WriteString(" (")
	d.buf.WriteString(m.Level.String())
	d.buf.WriteString("): ")
	d.buf.WriteString(m.Text)
	d.buf.WriteByte('\n')

	if _, err := d.bw.Write(d.buf.Bytes()); err != nil {
		return err
	}

	if d.autoFlush {
		return d.bw.Flush()
	}
	return nil
}

func (d *destinationFile) Flush() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return nil
	}
	return d.bw.Flush()
}

func (d *destinationFile) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	err := d.bw.Flush()
	if err2 := d.inner.Close(); err == nil {
		err = err2
	}
	return err
}
