//go:build windows

package logger

import (
	"golang.org/x/sys/windows/svc/eventlog"
)

func eventLogSuitable() bool {
	return true
}

func newEventLogWriter(source string) (eventLogWriter, error) {
	return eventlog.Open(source)
}
