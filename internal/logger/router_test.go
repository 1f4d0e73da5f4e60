package logger

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recordingDestination is a scriptable in-test destination.
type recordingDestination struct {
	emitted   []*Message
	emitErr   error
	closed    int
	onClose   func()
	closedErr error
}

func (d *recordingDestination) Emit(m *Message) error {
	d.emitted = append(d.emitted, m)
	return d.emitErr
}

func (d *recordingDestination) Flush() error { return nil }

func (d *recordingDestination) Close() error {
	d.closed++
	if d.onClose != nil {
		d.onClose()
	}
	return d.closedErr
}

func registerRecording(t *testing.T, r *Registry, kind string, dest *recordingDestination) {
	t.Helper()
	err := r.Register(&Descriptor{
		Kind: kind,
		Open: func(_ interface{}) (Destination, error) {
			return dest, nil
		},
	})
	require.NoError(t, err)
}

func TestRouterActivateIdempotent(t *testing.T) {
	r := NewRegistry(Options{})
	ro := NewRouter(r)
	defer ro.Shutdown()

	var buf Buffer
	require.NoError(t, ro.Activate("array", &buf))
	require.NoError(t, ro.Activate("array", &buf))
	require.NoError(t, ro.Activate("", &buf))
	require.Equal(t, []string{"array"}, ro.ActiveKinds())
}

func TestRouterActivateConfigurationErrors(t *testing.T) {
	r := NewRegistry(Options{})
	ro := NewRouter(r)
	defer ro.Shutdown()

	var buf Buffer
	require.NoError(t, ro.Activate("array", &buf))

	// a failed activation must not touch the already-active set.
	err := ro.Activate("", 42)
	require.ErrorIs(t, err, ErrNoMatch)
	require.Equal(t, []string{"array"}, ro.ActiveKinds())
}

func TestRouterDispatchFanout(t *testing.T) {
	r := NewRegistry(Options{})
	ro := NewRouter(r)
	defer ro.Shutdown()

	var fallback bytes.Buffer
	ro.SetFallback(&fallback)

	first := &recordingDestination{}
	failing := &recordingDestination{emitErr: fmt.Errorf("disk on fire")}
	last := &recordingDestination{}
	registerRecording(t, r, "first", first)
	registerRecording(t, r, "failing", failing)
	registerRecording(t, r, "last", last)

	require.NoError(t, ro.Activate("first", nil))
	require.NoError(t, ro.Activate("failing", "f"))
	require.NoError(t, ro.Activate("last", "l"))

	m := NewMessage(Info, "", "hello")
	ro.Dispatch(m)

	// every destination got the message exactly once, the failure did
	// not block later destinations and was reported on the fallback.
	require.Equal(t, []*Message{m}, first.emitted)
	require.Equal(t, []*Message{m}, failing.emitted)
	require.Equal(t, []*Message{m}, last.emitted)
	require.Contains(t, fallback.String(), "could not log to failing")
	require.Contains(t, fallback.String(), "hello")

	// a plain emit failure does not deactivate.
	require.Equal(t, []string{"first", "failing", "last"}, ro.ActiveKinds())
}

func TestRouterSelfDeactivation(t *testing.T) {
	r := NewRegistry(Options{})
	ro := NewRouter(r)
	defer ro.Shutdown()

	var fallback bytes.Buffer
	ro.SetFallback(&fallback)

	flaky := &recordingDestination{
		emitErr: fmt.Errorf("send failed: %w", ErrDeactivate),
	}
	registerRecording(t, r, "flaky", flaky)

	var buf Buffer
	require.NoError(t, ro.Activate("flaky", nil))
	require.NoError(t, ro.Activate("array", &buf))

	ro.Dispatch(NewMessage(Warning, "", "one"))
	require.Equal(t, []string{"array"}, ro.ActiveKinds())
	require.Equal(t, 1, flaky.closed)

	ro.Dispatch(NewMessage(Warning, "", "two"))
	require.Len(t, flaky.emitted, 1)
	require.Equal(t, 2, buf.Len())
}

func TestRouterDeactivateIdempotent(t *testing.T) {
	r := NewRegistry(Options{})
	ro := NewRouter(r)
	defer ro.Shutdown()

	var buf Buffer
	require.NoError(t, ro.Activate("array", &buf))

	ro.Deactivate(&buf)
	ro.Deactivate(&buf)
	require.Empty(t, ro.ActiveKinds())
}

func TestRouterShutdownReverseOrder(t *testing.T) {
	r := NewRegistry(Options{})
	ro := NewRouter(r)

	var order []string
	a := &recordingDestination{closedErr: errors.New("close failed")}
	b := &recordingDestination{}
	a.onClose = func() { order = append(order, "a") }
	b.onClose = func() { order = append(order, "b") }
	registerRecording(t, r, "a", a)
	registerRecording(t, r, "b", b)

	var fallback bytes.Buffer
	ro.SetFallback(&fallback)

	require.NoError(t, ro.Activate("a", nil))
	require.NoError(t, ro.Activate("b", "t"))

	ro.Shutdown()

	// LIFO, and the close failure of a did not stop the sequence.
	require.Equal(t, []string{"b", "a"}, order)
	require.Contains(t, fallback.String(), "could not close log destination a")
	require.Empty(t, ro.ActiveKinds())
}

func TestRouterArrayRoundTrip(t *testing.T) {
	r := NewRegistry(Options{})
	ro := NewRouter(r)
	defer ro.Shutdown()

	var buf Buffer
	require.NoError(t, ro.Activate("array", &buf))

	m := &Message{
		Level:  Err,
		Source: "Compiler",
		Text:   "three errors",
		Time:   time.Date(2003, 11, 4, 23, 15, 8, 0, time.UTC),
	}
	ro.Dispatch(m)

	msgs := buf.Messages()
	require.Len(t, msgs, 1)
	require.Same(t, m, msgs[0])
	require.Equal(t, Err, msgs[0].Level)
	require.Equal(t, "Compiler", msgs[0].Source)
	require.Equal(t, "three errors", msgs[0].Text)
	require.Equal(t, time.Date(2003, 11, 4, 23, 15, 8, 0, time.UTC), msgs[0].Time)
}
