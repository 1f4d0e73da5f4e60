//go:build !windows

package logger

import (
	"fmt"
)

func eventLogSuitable() bool {
	return false
}

func newEventLogWriter(_ string) (eventLogWriter, error) {
	return nil, fmt.Errorf("the event log is only available on windows")
}
