package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeEventLogWriter struct {
	types []string
	ids   []uint32
}

func (w *fakeEventLogWriter) record(typ string, id uint32) error {
	w.types = append(w.types, typ)
	w.ids = append(w.ids, id)
	return nil
}

func (w *fakeEventLogWriter) Info(id uint32, _ string) error    { return w.record("info", id) }
func (w *fakeEventLogWriter) Warning(id uint32, _ string) error { return w.record("warning", id) }
func (w *fakeEventLogWriter) Error(id uint32, _ string) error   { return w.record("error", id) }
func (w *fakeEventLogWriter) Close() error                      { return nil }

func TestEventLogSeverityMapping(t *testing.T) {
	w := &fakeEventLogWriter{}
	d := &destinationEventLog{inner: w}

	for _, l := range []Level{Debug, Info, Notice, Warning, Err, Alert, Emerg, Crit} {
		require.NoError(t, d.Emit(NewMessage(l, "", "x")))
	}

	require.Equal(t, []string{
		"info", "info", "info", "warning", "error", "error", "error", "error",
	}, w.types)
	require.Equal(t, []uint32{1, 1, 1, 2, 3, 3, 3, 3}, w.ids)
}
