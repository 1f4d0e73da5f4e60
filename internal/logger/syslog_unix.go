//go:build !windows && !darwin

package logger

import (
	"fmt"
	native "log/syslog"
)

var syslogFacilities = map[string]native.Priority{
	"kern":     native.LOG_KERN,
	"user":     native.LOG_USER,
	"mail":     native.LOG_MAIL,
	"daemon":   native.LOG_DAEMON,
	"auth":     native.LOG_AUTH,
	"syslog":   native.LOG_SYSLOG,
	"lpr":      native.LOG_LPR,
	"news":     native.LOG_NEWS,
	"uucp":     native.LOG_UUCP,
	"cron":     native.LOG_CRON,
	"authpriv": native.LOG_AUTHPRIV,
	"ftp":      native.LOG_FTP,
	"local0":   native.LOG_LOCAL0,
	"local1":   native.LOG_LOCAL1,
	"local2":   native.LOG_LOCAL2,
	"local3":   native.LOG_LOCAL3,
	"local4":   native.LOG_LOCAL4,
	"local5":   native.LOG_LOCAL5,
	"local6":   native.LOG_LOCAL6,
	"local7":   native.LOG_LOCAL7,
}

func syslogSuitable() bool {
	return true
}

func newSyslogWriter(tag string, facility string) (syslogWriter, error) {
	fac, ok := syslogFacilities[facility]
	if !ok {
		return nil, fmt.Errorf("invalid syslog facility '%s'", facility)
	}

	return native.New(fac|native.LOG_INFO, tag)
}
