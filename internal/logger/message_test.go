package logger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessageDefaults(t *testing.T) {
	before := time.Now()
	m := NewMessage(Notice, "", "done\n")

	require.Equal(t, DefaultSource, m.Source)
	require.True(t, m.FromSystem())
	require.Equal(t, "done", m.Text)
	require.False(t, m.Remote)
	require.False(t, m.Time.Before(before))

	m = NewMessage(Notice, "Agent", "done")
	require.False(t, m.FromSystem())
}

func TestMessageWireFormat(t *testing.T) {
	m := &Message{
		Level:  Warning,
		Source: "Compiler",
		Text:   "deprecation",
		Time:   time.Date(2003, 11, 4, 23, 15, 8, 0, time.UTC),
	}

	enc, err := json.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"level": "warning",
		"source": "Compiler",
		"text": "deprecation",
		"time": "2003-11-04T23:15:08Z"
	}`, string(enc))

	var back Message
	require.NoError(t, json.Unmarshal(enc, &back))
	require.Equal(t, *m, back)
}
