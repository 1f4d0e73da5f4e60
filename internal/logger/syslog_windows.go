//go:build windows

package logger

import (
	"fmt"
)

func syslogSuitable() bool {
	return false
}

func newSyslogWriter(_ string, _ string) (syslogWriter, error) {
	return nil, fmt.Errorf("syslog is not implemented on windows")
}
