// Package logger contains the multi-destination log fan-out layer.
package logger

import (
	"errors"
	"time"
)

// Errors returned by destinations and checked by the Router.
var (
	// ErrClosed is returned by Emit after Close.
	ErrClosed = errors.New("destination is closed")

	// ErrDeactivate is wrapped into an emit error when the destination
	// can no longer write and asks the router to drop it from the
	// active set.
	ErrDeactivate = errors.New("destination requests deactivation")
)

// Destination is a live log sink bound to a single target.
// Implementations serialize their own emits with an internal mutex, so a
// Destination may be shared by concurrent dispatchers. Flush and Close are
// idempotent; Emit after Close returns ErrClosed.
type Destination interface {
	Emit(m *Message) error
	Flush() error
	Close() error
}

// MessageAppender is the narrow interface to an external transaction
// report, the collaborator behind the report destination kind.
type MessageAppender interface {
	AppendLog(m *Message)
}

// Options carries the externally-owned configuration inputs consumed by
// the built-in destination kinds.
type Options struct {
	// ProcessName is the syslog and event-log identity.
	ProcessName string

	// SyslogFacility is the symbolic facility name ("daemon", "user",
	// "local0"...). Resolved to a native constant when the syslog
	// destination opens; an unresolvable name is an open error.
	SyslogFacility string

	// AutoFlush makes the file destination flush after every write.
	AutoFlush bool

	// FileMaxSize enables size-based rotation of the file destination
	// when greater than zero, in megabytes.
	FileMaxSize    int
	FileMaxBackups int
	FileMaxAge     int

	// RemoteTimeout bounds the remote destination's dial and sends.
	RemoteTimeout time.Duration

	// HostName returns the local host and domain names used by the
	// remote destination to rewrite message sources. When nil, the
	// operating system is asked.
	HostName func() (host string, domain string, err error)
}

func (o *Options) setDefaults() {
	if o.ProcessName == "" {
		o.ProcessName = "puppet"
	}
	if o.SyslogFacility == "" {
		o.SyslogFacility = "daemon"
	}
	if o.RemoteTimeout == 0 {
		o.RemoteTimeout = 10 * time.Second
	}
	if o.HostName == nil {
		o.HostName = systemHostName
	}
}
