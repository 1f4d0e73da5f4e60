package core

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"

	"github.com/kleopatra999/puppetlabs-puppet/internal/logger"
)

type collectorParent interface {
	Log(logger.Level, string, ...interface{})
	DispatchRemote(*logger.Message)
}

// collector receives forwarded log messages from remote agents, one JSON
// document per line, and fans them out locally. Received messages are
// marked as remote so they are never forwarded again.
type collector struct {
	parent       collectorParent
	traceOnError bool

	ln    net.Listener
	wg    sync.WaitGroup
	mutex sync.Mutex
	conns map[net.Conn]struct{}
}

func newCollector(address string, traceOnError bool, parent collectorParent) (*collector, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	c := &collector{
		parent:       parent,
		traceOnError: traceOnError,
		ln:           ln,
		conns:        make(map[net.Conn]struct{}),
	}

	parent.Log(logger.Info, "[collector] listener opened on %s", address)

	c.wg.Add(1)
	go c.run()

	return c, nil
}

func (c *collector) close() {
	c.ln.Close()

	c.mutex.Lock()
	for conn := range c.conns {
		conn.Close()
	}
	c.mutex.Unlock()

	c.wg.Wait()
}

func (c *collector) run() {
	defer c.wg.Done()

	for {
		conn, err := c.ln.Accept()
		if err != nil {
			return
		}

		c.mutex.Lock()
		c.conns[conn] = struct{}{}
		c.mutex.Unlock()

		c.wg.Add(1)
		go c.handleConn(conn)
	}
}

func (c *collector) handleConn(conn net.Conn) {
	defer c.wg.Done()
	defer func() {
		c.mutex.Lock()
		delete(c.conns, conn)
		c.mutex.Unlock()
		conn.Close()
	}()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		var m logger.Message
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			c.parent.Log(logger.Warning, "[collector] could not decode message from %s: %v",
				conn.RemoteAddr(), err)
			if c.traceOnError {
				c.parent.Log(logger.Debug, "[collector] offending line: %q", sc.Text())
			}
			continue
		}

		m.Remote = true
		c.parent.DispatchRemote(&m)
	}
}
