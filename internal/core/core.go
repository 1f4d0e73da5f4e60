// Package core contains the main struct of the software.
package core

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"

	"github.com/kleopatra999/puppetlabs-puppet/internal/conf"
	"github.com/kleopatra999/puppetlabs-puppet/internal/confwatcher"
	"github.com/kleopatra999/puppetlabs-puppet/internal/logger"
)

var version = "v0.0.0"

const defaultConfPath = "puppet-logd.yml"

var cli struct {
	Version  bool   `help:"print version"`
	Confpath string `arg:"" default:"puppet-logd.yml"`
}

// Core is an instance of puppet-logd.
type Core struct {
	ctx         context.Context
	ctxCancel   func()
	confPath    string
	conf        *conf.Conf
	confFound   bool
	registry    *logger.Registry
	router      *logger.Router
	collector   *collector
	metrics     *metrics
	pprof       *pprof
	confWatcher *confwatcher.ConfWatcher

	// out
	done chan struct{}
}

// New allocates a Core.
func New(args []string) (*Core, bool) {
	parser, err := kong.New(&cli,
		kong.Description("puppet-logd "+version),
		kong.UsageOnError(),
		kong.ValueFormatter(func(value *kong.Value) string {
			switch value.Name {
			case "confpath":
				return "path to a config file. The default is puppet-logd.yml."

			default:
				return kong.DefaultHelpValueFormatter(value)
			}
		}))
	if err != nil {
		panic(err)
	}

	_, err = parser.Parse(args)
	parser.FatalIfErrorf(err)

	if cli.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	ctx, ctxCancel := context.WithCancel(context.Background())

	p := &Core{
		ctx:       ctx,
		ctxCancel: ctxCancel,
		confPath:  cli.Confpath,
		done:      make(chan struct{}),
	}

	p.conf, p.confFound, err = conf.Load(p.confPath, p.confPath == defaultConfPath)
	if err != nil {
		fmt.Printf("ERR: %s\n", err)
		return nil, false
	}

	err = p.createResources(true)
	if err != nil {
		if p.router != nil {
			p.Log(logger.Err, "%s", err)
		} else {
			fmt.Printf("ERR: %s\n", err)
		}
		p.closeResources(nil)
		return nil, false
	}

	go p.run()

	return p, true
}

// Close closes Core and waits for all goroutines to return.
func (p *Core) Close() {
	p.ctxCancel()
	<-p.done
}

// Wait waits for the Core to exit.
func (p *Core) Wait() {
	<-p.done
}

// Log is the main logging function: messages at or above the configured
// level threshold are fanned out to every active destination.
func (p *Core) Log(level logger.Level, format string, args ...interface{}) {
	if level < p.conf.LogLevelParsed {
		return
	}
	p.router.Dispatch(logger.NewMessage(level, "", fmt.Sprintf(format, args...)))
}

// DispatchRemote fans out a message received from a remote agent.
func (p *Core) DispatchRemote(m *logger.Message) {
	if m.Level < p.conf.LogLevelParsed {
		return
	}
	p.router.Dispatch(m)
}

func (p *Core) run() {
	defer close(p.done)

	confChanged := func() chan struct{} {
		if p.confWatcher != nil {
			return p.confWatcher.Watch()
		}
		return make(chan struct{})
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

outer:
	for {
		select {
		case <-confChanged:
			p.Log(logger.Info, "reloading configuration (file changed)")

			newConf, _, err := conf.Load(p.confPath, p.confPath == defaultConfPath)
			if err != nil {
				p.Log(logger.Err, "%s", err)
				break outer
			}

			err = p.reloadConf(newConf)
			if err != nil {
				p.Log(logger.Err, "%s", err)
				break outer
			}

		case <-interrupt:
			p.Log(logger.Notice, "shutting down gracefully")
			break outer

		case <-p.ctx.Done():
			break outer
		}
	}

	p.ctxCancel()

	p.closeResources(nil)
}

func (p *Core) createResources(initial bool) error {
	var err error

	if p.router == nil {
		p.registry = logger.NewRegistry(p.conf.LoggerOptions())
		p.router = logger.NewRouter(p.registry)

		for _, dest := range p.conf.LogDestinationsParsed {
			var target interface{}
			if dest.Target != "" {
				target = dest.Target
			}

			if err := p.router.Activate(dest.Kind, target); err != nil {
				label := dest.Kind
				if label == "" {
					label = dest.Target
				} else if dest.Target != "" {
					label += ":" + dest.Target
				}
				return fmt.Errorf("could not activate log destination '%s': %w", label, err)
			}
		}
	}

	if initial {
		p.Log(logger.Notice, "puppet-logd %s", version)
		if !p.confFound {
			p.Log(logger.Warning, "configuration file not found, using defaults")
		}

		gin.SetMode(gin.ReleaseMode)
	}

	if p.conf.Metrics && p.metrics == nil {
		p.metrics, err = newMetrics(p.conf.MetricsAddress, p)
		if err != nil {
			return err
		}
	}

	if p.conf.Pprof && p.pprof == nil {
		p.pprof, err = newPPROF(p.conf.PprofAddress, p)
		if err != nil {
			return err
		}
	}

	if p.conf.CollectorAddress != "" && p.collector == nil {
		p.collector, err = newCollector(p.conf.CollectorAddress, p.conf.TraceOnError, p)
		if err != nil {
			return err
		}
	}

	if initial && p.confFound {
		p.confWatcher, err = confwatcher.New(p.confPath)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Core) closeResources(newConf *conf.Conf) {
	// the collector dispatches into the router from its own goroutines,
	// so it never outlives the router it was created with.
	closeCollector := true

	closeMetrics := newConf == nil ||
		!newConf.Metrics ||
		newConf.MetricsAddress != p.conf.MetricsAddress

	closePprof := newConf == nil ||
		!newConf.Pprof ||
		newConf.PprofAddress != p.conf.PprofAddress

	if closeCollector && p.collector != nil {
		p.collector.close()
		p.collector = nil
	}

	if closeMetrics && p.metrics != nil {
		p.metrics.close()
		p.metrics = nil
	}

	if closePprof && p.pprof != nil {
		p.pprof.close()
		p.pprof = nil
	}

	// the destination set always follows the new configuration.
	if p.router != nil {
		p.router.Flush()
		p.router.Shutdown()
		p.router = nil
		p.registry = nil
	}

	if newConf == nil && p.confWatcher != nil {
		p.confWatcher.Close()
		p.confWatcher = nil
	}
}

func (p *Core) reloadConf(newConf *conf.Conf) error {
	p.closeResources(newConf)
	p.conf = newConf
	return p.createResources(false)
}
