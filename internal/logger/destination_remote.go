package logger

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// RemoteDefaultPort is the port used when a remote target names no port.
const RemoteDefaultPort = "9514"

var reRemoteTarget = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.\-]*(:[0-9]+)?$`)

func systemHostName() (string, string, error) {
	hn, err := os.Hostname()
	if err != nil {
		return "", "", err
	}

	if i := strings.IndexByte(hn, '.'); i >= 0 {
		return hn[:i], hn[i+1:], nil
	}
	return hn, "", nil
}

func remoteDescriptor(opts *Options) *Descriptor {
	return &Descriptor{
		Kind:     "remote",
		Priority: 10,
		Matches: func(target interface{}) bool {
			s, ok := target.(string)
			return ok && reRemoteTarget.MatchString(s)
		},
		Open: func(target interface{}) (Destination, error) {
			addr, ok := target.(string)
			if !ok {
				return nil, fmt.Errorf("remote destination requires a host, got %T", target)
			}
			return newDestinationRemote(addr, opts)
		},
	}
}

// destinationRemote forwards messages to a remote collector over a TCP
// session, one JSON document per line. After any send failure it asks the
// router to deactivate it instead of failing on every subsequent message.
type destinationRemote struct {
	addr    string
	timeout time.Duration
	fqdn    string

	mutex  sync.Mutex
	conn   net.Conn
	closed bool
}

func newDestinationRemote(addr string, opts *Options) (*destinationRemote, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, RemoteDefaultPort)
	}

	host, domain, err := opts.HostName()
	if err != nil {
		return nil, fmt.Errorf("could not determine local host name: %w", err)
	}
	fqdn := host
	if domain != "" {
		fqdn += "." + domain
	}

	conn, err := net.DialTimeout("tcp", addr, opts.RemoteTimeout)
	if err != nil {
		return nil, fmt.Errorf("could not reach log collector %s: %w", addr, err)
	}

	return &destinationRemote{
		addr:    addr,
		timeout: opts.RemoteTimeout,
		fqdn:    fqdn,
		conn:    conn,
	}, nil
}

func (d *destinationRemote) Emit(m *Message) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return ErrClosed
	}

	// stamp the local host into the source on a private copy, but never
	// re-stamp a message that was itself forwarded to us.
	msg := *m
	if !msg.Remote {
		msg.Source = d.fqdn + " " + msg.Source
	}

	enc, err := json.Marshal(&msg)
	if err != nil {
		// the message is dropped for this sink only.
		return fmt.Errorf("could not encode message: %w", err)
	}
	enc = append(enc, '\n')

	d.conn.SetWriteDeadline(time.Now().Add(d.timeout)) //nolint:errcheck
	if _, err := d.conn.Write(enc); err != nil {
		d.conn.Close()
		d.closed = true
		return fmt.Errorf("send to %s failed: %w", d.addr, errors.Join(err, ErrDeactivate))
	}
	return nil
}

func (d *destinationRemote) Flush() error {
	return nil
}

func (d *destinationRemote) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.conn.Close()
}
