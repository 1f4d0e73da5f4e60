package core

import (
	"context"
	"net"
	"net/http"

	ginpprof "github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/kleopatra999/puppetlabs-puppet/internal/logger"
)

type pprofParent interface {
	Log(logger.Level, string, ...interface{})
}

type pprof struct {
	ln     net.Listener
	server *http.Server
}

func newPPROF(address string, parent pprofParent) (*pprof, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	pp := &pprof{
		ln: ln,
	}

	router := gin.New()
	router.SetTrustedProxies(nil) //nolint:errcheck
	ginpprof.Register(router)

	pp.server = &http.Server{Handler: router}

	parent.Log(logger.Info, "[pprof] listener opened on %s", address)

	go pp.run()

	return pp, nil
}

func (pp *pprof) close() {
	pp.server.Shutdown(context.Background()) //nolint:errcheck
}

func (pp *pprof) run() {
	err := pp.server.Serve(pp.ln)
	if err != http.ErrServerClosed {
		panic(err)
	}
}
