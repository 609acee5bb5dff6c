package node

import (
	"bufio"
	"context"
	"io"
	"net"

	"golang.org/x/sync/semaphore"

	"hsring/configs"
	"hsring/network"
)

// nodeListener binds basePort+index and serves every accepted connection
// concurrently, enqueueing parsed messages onto the node's inbox.
// Concurrency is bounded by a semaphore.Weighted rather than a bare
// `chan struct{}` gate.
type nodeListener struct {
	n    *Node
	ln   net.Listener
	sem  *semaphore.Weighted
	closing chan struct{}
}

func newListener(n *Node, ln net.Listener) *nodeListener {
	return &nodeListener{
		n:     n,
		ln:    ln,
		sem:   semaphore.NewWeighted(configs.MaxListenerConcurrency),
		closing: make(chan struct{}),
	}
}

// run is the accept loop. It terminates when stop() has been called and
// Accept subsequently errors; other transient accept errors are
// logged and skipped so the loop keeps serving.
func (l *nodeListener) run() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.closing:
				return
			default:
				l.n.log.WithError(err).Debug("transient accept error")
				continue
			}
		}
		if err := l.sem.Acquire(context.Background(), 1); err != nil {
			conn.Close()
			continue
		}
		go func() {
			defer l.sem.Release(1)
			l.handleConn(conn)
		}()
	}
}

func (l *nodeListener) handleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			l.dispatchLine(line)
		}
		if err != nil {
			if err != io.EOF {
				l.n.log.WithError(err).Debug("connection read error")
			}
			return
		}
	}
}

// dispatchLine parses one line and enqueues it; parse failures are
// silently dropped and line-reading continues.
func (l *nodeListener) dispatchLine(line []byte) {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	msg, err := network.Decode(line)
	if err != nil {
		l.n.log.WithError(err).Debug("dropped malformed line")
		return
	}
	switch msg.Type {
	case network.MsgOut, network.MsgIn, network.MsgAnnounce, network.MsgReport:
	default:
		return // unknown discriminant, dropped
	}
	l.n.inbox.push(envelope{msg: msg, from: l.n.sideOf(msg.SenderIndex)})
}

func (l *nodeListener) stop() {
	close(l.closing)
	l.ln.Close()
}
