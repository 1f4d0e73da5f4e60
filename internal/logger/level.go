package logger

import (
	"encoding/json"
	"fmt"
)

// Level is a log severity level.
type Level int

// Log levels, ordered from least to most severe.
const (
	Debug Level = iota + 1
	Info
	Notice
	Warning
	Err
	Alert
	Emerg
	Crit
)

var levelLabels = map[Level]string{
	Debug:   "debug",
	Info:    "info",
	Notice:  "notice",
	Warning: "warning",
	Err:     "err",
	Alert:   "alert",
	Emerg:   "emerg",
	Crit:    "crit",
}

// String implements fmt.Stringer.
func (l Level) String() string {
	if s, ok := levelLabels[l]; ok {
		return s
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	_, ok := levelLabels[l]
	return ok
}

// ParseLevel converts a level label into a Level.
func ParseLevel(s string) (Level, error) {
	for l, label := range levelLabels {
		if label == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("invalid log level: '%s'", s)
}

// Class is a coarse severity bucket used by formatting logic.
type Class int

// Severity classes.
const (
	ClassInfo Class = iota
	ClassError
)

// Class returns the severity class of the level.
// Warning and above are error-class; debug, info and notice are
// informational.
func (l Level) Class() Class {
	if l >= Warning {
		return ClassError
	}
	return ClassInfo
}

// MarshalJSON implements json.Marshaler.
func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid log level: %d", int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	lev, err := ParseLevel(s)
	if err != nil {
		return err
	}

	*l = lev
	return nil
}
