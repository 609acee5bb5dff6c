package orchestrator

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"time"

	mapset "github.com/deckarep/golang-set"

	"hsring/configs"
	"hsring/network"
)

// collector binds the orchestrator's report-listener port and accumulates
// REPORT messages until N have arrived or the scenario deadline elapses.
type collector struct {
	ln      net.Listener
	reports chan network.Message
	seen    mapset.Set // of UID, dedups REPORTs
}

// newCollector binds loopback:orchPort. It must be called BEFORE nodes are
// spawned, so callers should call this first and spawnAll second.
func newCollector(orchPort int) (*collector, error) {
	ln, err := net.Listen("tcp", addr(orchPort))
	if err != nil {
		return nil, err
	}
	c := &collector{
		ln:      ln,
		reports: make(chan network.Message, 64),
		seen:    mapset.NewThreadSafeSet(),
	}
	go c.acceptLoop()
	return c, nil
}

func (c *collector) acceptLoop() {
	for {
		conn, err := c.ln.Accept()
		if err != nil {
			return
		}
		go c.handleConn(conn)
	}
}

func (c *collector) handleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			c.dispatch(line)
		}
		if err != nil {
			if err != io.EOF {
				configs.Log.WithError(err).Debug("report connection read error")
			}
			return
		}
	}
}

func (c *collector) dispatch(line []byte) {
	if line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	msg, err := network.Decode(line)
	if err != nil || !msg.IsReportComplete() {
		return // malformed or partial REPORT, dropped
	}
	if !c.seen.Add(msg.UID) {
		configs.Log.WithField("uid", msg.UID).Warn("duplicate REPORT received, ignoring")
		return
	}
	c.reports <- msg
}

// collect waits for exactly n reports or the scenario deadline, whichever
// comes first.
func (c *collector) collect(ctx context.Context, n int) []network.Message {
	out := make([]network.Message, 0, n)
	deadline := time.NewTimer(configs.ScenarioDeadline)
	defer deadline.Stop()
	for len(out) < n {
		select {
		case m := <-c.reports:
			out = append(out, m)
		case <-deadline.C:
			return out
		case <-ctx.Done():
			return out
		}
	}
	return out
}

func (c *collector) close() {
	c.ln.Close()
}

func addr(port int) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}
