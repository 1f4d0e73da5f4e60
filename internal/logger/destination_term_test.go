package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTermSplitsStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	d := &destinationTerm{out: &out, errOut: &errOut}

	require.NoError(t, d.Emit(NewMessage(Info, "", "all good")))
	require.NoError(t, d.Emit(NewMessage(Emerg, "", "all gone")))

	require.Equal(t, "info: all good\n", out.String())
	require.Equal(t, "Emergency: all gone\n", errOut.String())
}

func TestTermCapitalizedLabels(t *testing.T) {
	for _, ca := range []struct {
		level Level
		label string
	}{
		{Warning, "Warning"},
		{Err, "Error"},
		{Alert, "Alert"},
		{Emerg, "Emergency"},
		{Crit, "Critical"},
	} {
		t.Run(ca.level.String(), func(t *testing.T) {
			var out, errOut bytes.Buffer
			d := &destinationTerm{out: &out, errOut: &errOut}

			require.NoError(t, d.Emit(NewMessage(ca.level, "", "x")))
			require.Equal(t, ca.label+": x\n", errOut.String())
			require.Empty(t, out.String())
		})
	}
}

func TestTermUnknownLevelPassthrough(t *testing.T) {
	var out, errOut bytes.Buffer
	d := &destinationTerm{out: &out, errOut: &errOut}

	require.NoError(t, d.Emit(&Message{Level: Level(42), Text: "raw line"}))
	require.Equal(t, "raw line\n", out.String())
	require.Empty(t, errOut.String())
}
