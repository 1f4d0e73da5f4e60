package logger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelOrdering(t *testing.T) {
	ordered := []Level{Debug, Info, Notice, Warning, Err, Alert, Emerg, Crit}
	for i := 1; i < len(ordered); i++ {
		require.Less(t, ordered[i-1], ordered[i])
	}
}

func TestLevelParse(t *testing.T) {
	for _, ca := range []struct {
		label string
		level Level
	}{
		{"debug", Debug},
		{"info", Info},
		{"notice", Notice},
		{"warning", Warning},
		{"err", Err},
		{"alert", Alert},
		{"emerg", Emerg},
		{"crit", Crit},
	} {
		t.Run(ca.label, func(t *testing.T) {
			l, err := ParseLevel(ca.label)
			require.NoError(t, err)
			require.Equal(t, ca.level, l)
			require.Equal(t, ca.label, l.String())
		})
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestLevelClass(t *testing.T) {
	for _, l := range []Level{Debug, Info, Notice} {
		require.Equal(t, ClassInfo, l.Class(), l.String())
	}
	for _, l := range []Level{Warning, Err, Alert, Emerg, Crit} {
		require.Equal(t, ClassError, l.Class(), l.String())
	}
}

func TestLevelJSON(t *testing.T) {
	enc, err := json.Marshal(Err)
	require.NoError(t, err)
	require.Equal(t, `"err"`, string(enc))

	var l Level
	err = json.Unmarshal([]byte(`"notice"`), &l)
	require.NoError(t, err)
	require.Equal(t, Notice, l)

	err = json.Unmarshal([]byte(`"nope"`), &l)
	require.Error(t, err)
}
