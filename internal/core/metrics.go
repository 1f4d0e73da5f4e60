package core

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kleopatra999/puppetlabs-puppet/internal/logger"
)

type metricsParent interface {
	Log(logger.Level, string, ...interface{})
}

// metrics exposes the fan-out counters in Prometheus format.
type metrics struct {
	ln     net.Listener
	server *http.Server
}

func newMetrics(address string, parent metricsParent) (*metrics, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	m := &metrics{
		ln: ln,
	}

	router := gin.New()
	router.SetTrustedProxies(nil) //nolint:errcheck
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	m.server = &http.Server{Handler: router}

	parent.Log(logger.Info, "[metrics] listener opened on %s", address)

	go m.run()

	return m, nil
}

func (m *metrics) close() {
	m.server.Shutdown(context.Background()) //nolint:errcheck
}

func (m *metrics) run() {
	err := m.server.Serve(m.ln)
	if err != http.ErrServerClosed {
		panic(err)
	}
}
