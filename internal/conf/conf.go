// Package conf contains the struct that holds the configuration of the
// software.
package conf

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v2"

	"github.com/kleopatra999/puppetlabs-puppet/internal/logger"
)

// LogDestination is one parsed logDestinations entry.
type LogDestination struct {
	// Kind is the destination kind name; empty when the entry is a bare
	// target that the registry resolves implicitly.
	Kind string

	// Target is the raw target value, empty for singleton kinds.
	Target string
}

// kinds that may appear as a "kind" or "kind:target" entry.
var knownKinds = map[string]struct{}{
	"console":  {},
	"term":     {},
	"syslog":   {},
	"eventlog": {},
	"file":     {},
	"remote":   {},
}

func parseLogDestination(entry string) (LogDestination, error) {
	if entry == "" {
		return LogDestination{}, fmt.Errorf("empty log destination")
	}

	if _, ok := knownKinds[entry]; ok {
		return LogDestination{Kind: entry}, nil
	}

	if i := strings.Index(entry, ":"); i > 0 {
		if _, ok := knownKinds[entry[:i]]; ok {
			if entry[i+1:] == "" {
				return LogDestination{}, fmt.Errorf("log destination '%s' has an empty target", entry)
			}
			return LogDestination{Kind: entry[:i], Target: entry[i+1:]}, nil
		}
	}

	// a bare target, resolved implicitly by the registry.
	return LogDestination{Target: entry}, nil
}

// Conf is the configuration of the daemon.
type Conf struct {
	// logging
	LogLevel              string           `yaml:"logLevel" env:"PUPPET_LOG_LEVEL"`
	LogLevelParsed        logger.Level     `yaml:"-" env:"-"`
	LogDestinations       []string         `yaml:"logDestinations" env:"PUPPET_LOG_DESTINATIONS" env-separator:","`
	LogDestinationsParsed []LogDestination `yaml:"-" env:"-"`
	ProcessName           string           `yaml:"processName" env:"PUPPET_PROCESS_NAME"`
	SyslogFacility        string           `yaml:"syslogFacility" env:"PUPPET_SYSLOG_FACILITY"`
	LogAutoFlush          bool             `yaml:"logAutoFlush" env:"PUPPET_LOG_AUTOFLUSH"`
	LogFileMaxSize        int              `yaml:"logFileMaxSize" env:"PUPPET_LOG_FILE_MAX_SIZE"`
	LogFileMaxBackups     int              `yaml:"logFileMaxBackups" env:"PUPPET_LOG_FILE_MAX_BACKUPS"`
	LogFileMaxAge         int              `yaml:"logFileMaxAge" env:"PUPPET_LOG_FILE_MAX_AGE"`
	RemoteTimeout         Duration         `yaml:"remoteTimeout" env:"PUPPET_REMOTE_TIMEOUT"`
	TraceOnError          bool             `yaml:"traceOnError" env:"PUPPET_TRACE_ON_ERROR"`

	// collector
	CollectorAddress string `yaml:"collectorAddress" env:"PUPPET_COLLECTOR_ADDRESS"`

	// metrics
	Metrics        bool   `yaml:"metrics" env:"PUPPET_METRICS"`
	MetricsAddress string `yaml:"metricsAddress" env:"PUPPET_METRICS_ADDRESS"`
	Pprof          bool   `yaml:"pprof" env:"PUPPET_PPROF"`
	PprofAddress   string `yaml:"pprofAddress" env:"PUPPET_PPROF_ADDRESS"`
}

func (conf *Conf) setDefaults() {
	conf.LogLevel = "notice"
	conf.LogDestinations = []string{"console"}
	conf.ProcessName = "puppet"
	conf.SyslogFacility = "daemon"
	conf.RemoteTimeout = Duration(10 * time.Second)
	conf.CollectorAddress = ":9514"
	conf.MetricsAddress = "127.0.0.1:9998"
	conf.PprofAddress = "127.0.0.1:9999"
}

// CheckAndFillMissing parses raw fields and validates the configuration.
func (conf *Conf) CheckAndFillMissing() error {
	level, err := logger.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	conf.LogLevelParsed = level

	conf.LogDestinationsParsed = nil
	for _, entry := range conf.LogDestinations {
		parsed, err := parseLogDestination(entry)
		if err != nil {
			return err
		}
		conf.LogDestinationsParsed = append(conf.LogDestinationsParsed, parsed)
	}

	if conf.LogFileMaxSize < 0 {
		return fmt.Errorf("logFileMaxSize cannot be negative")
	}

	return nil
}

// LoggerOptions converts the logging settings into destination options.
func (conf *Conf) LoggerOptions() logger.Options {
	return logger.Options{
		ProcessName:    conf.ProcessName,
		SyslogFacility: conf.SyslogFacility,
		AutoFlush:      conf.LogAutoFlush,
		FileMaxSize:    conf.LogFileMaxSize,
		FileMaxBackups: conf.LogFileMaxBackups,
		FileMaxAge:     conf.LogFileMaxAge,
		RemoteTimeout:  time.Duration(conf.RemoteTimeout),
	}
}

// Load loads a Conf. It returns the configuration, whether the file was
// found, and an error.
func Load(fpath string, defaultPath bool) (*Conf, bool, error) {
	conf := &Conf{}
	conf.setDefaults()

	found := false

	// the config file is optional when running with the default path.
	byts, err := os.ReadFile(fpath)
	switch {
	case err == nil:
		found = true
		if err := yaml.UnmarshalStrict(byts, conf); err != nil {
			return nil, true, err
		}

	case os.IsNotExist(err) && defaultPath:

	default:
		return nil, false, err
	}

	// environment overrides the file.
	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, found, err
	}

	if err := conf.CheckAndFillMissing(); err != nil {
		return nil, found, err
	}

	return conf, found, nil
}
