package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCollector(t *testing.T) (string, chan []byte, func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	lines := make(chan []byte, 16)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			go func() {
				defer conn.Close()
				sc := bufio.NewScanner(conn)
				for sc.Scan() {
					line := make([]byte, len(sc.Bytes()))
					copy(line, sc.Bytes())
					lines <- line
				}
			}()
		}
	}()

	return ln.Addr().String(), lines, func() { ln.Close() }
}

func testRemoteOptions() *Options {
	opts := &Options{
		RemoteTimeout: 2 * time.Second,
		HostName: func() (string, string, error) {
			return "h", "d", nil
		},
	}
	opts.setDefaults()
	return opts
}

func TestRemoteSourceRewrite(t *testing.T) {
	addr, lines, stop := newTestCollector(t)
	defer stop()

	d, err := newDestinationRemote(addr, testRemoteOptions())
	require.NoError(t, err)
	defer d.Close()

	m := NewMessage(Notice, "X", "applied catalog")
	require.NoError(t, d.Emit(m))

	var received Message
	require.NoError(t, json.Unmarshal(<-lines, &received))
	require.Equal(t, "h.d X", received.Source)
	require.Equal(t, Notice, received.Level)
	require.Equal(t, "applied catalog", received.Text)

	// the shared original is untouched.
	require.Equal(t, "X", m.Source)
}

func TestRemoteForwardedMessageNotRestamped(t *testing.T) {
	addr, lines, stop := newTestCollector(t)
	defer stop()

	d, err := newDestinationRemote(addr, testRemoteOptions())
	require.NoError(t, err)
	defer d.Close()

	m := NewMessage(Info, "agent01.d upstream", "relayed")
	m.Remote = true
	require.NoError(t, d.Emit(m))

	var received Message
	require.NoError(t, json.Unmarshal(<-lines, &received))
	require.Equal(t, "agent01.d upstream", received.Source)
	require.True(t, received.Remote)
}

func TestRemoteDefaultPort(t *testing.T) {
	opts := testRemoteOptions()
	_, err := newDestinationRemote("collector.invalid", opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), ":"+RemoteDefaultPort)
}

func TestRemoteSendFailureDeactivates(t *testing.T) {
	addr, _, stop := newTestCollector(t)
	defer stop()

	d, err := newDestinationRemote(addr, testRemoteOptions())
	require.NoError(t, err)

	r := NewRegistry(Options{})
	require.NoError(t, r.Register(&Descriptor{
		Kind: "netsink",
		Open: func(_ interface{}) (Destination, error) {
			return d, nil
		},
	}))

	ro := NewRouter(r)
	defer ro.Shutdown()

	var fallback bytes.Buffer
	ro.SetFallback(&fallback)

	var buf Buffer
	require.NoError(t, ro.Activate("netsink", nil))
	require.NoError(t, ro.Activate("array", &buf))

	// break the session underneath the destination.
	d.conn.Close()

	ro.Dispatch(NewMessage(Err, "", "one"))
	require.Equal(t, []string{"array"}, ro.ActiveKinds())
	require.Contains(t, fallback.String(), "could not log to netsink")

	ro.Dispatch(NewMessage(Err, "", "two"))
	require.Equal(t, 2, buf.Len())
}

func TestRemoteEmitAfterClose(t *testing.T) {
	addr, _, stop := newTestCollector(t)
	defer stop()

	d, err := newDestinationRemote(addr, testRemoteOptions())
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	require.ErrorIs(t, d.Emit(NewMessage(Info, "", "late")), ErrClosed)
}
