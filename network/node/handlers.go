package node

import (
	"github.com/sirupsen/logrus"

	"hsring/configs"
	"hsring/network"
)

// runInboxDispatcher is the single-consumer loop draining the inbox. It
// processes envelopes strictly in FIFO arrival order and terminates
// immediately once the completion transition has fired, even with a
// non-empty queue (any in-flight message after victory is ignorable).
func (n *Node) runInboxDispatcher() {
	for {
		e, ok := n.inbox.pop()
		if !ok {
			return
		}
		if n.state.completion.Load() {
			return
		}
		n.handle(e)
	}
}

func (n *Node) handle(e envelope) {
	switch e.msg.Type {
	case network.MsgOut:
		n.handleOut(e.msg)
	case network.MsgIn:
		n.handleIn(e.msg)
	case network.MsgAnnounce:
		n.handleAnnounce(e.msg)
	case network.MsgReport:
		// REPORT is only ever addressed to the Orchestrator; a node
		// receiving one is a misrouted message and is ignored.
	}
}

// handleOut processes an inbound OUT(uid, phase, ttl, dir) probe: smaller
// UIDs are swallowed, a probe carrying this node's own UID triggers
// self-recognition, and anything else is forwarded or reflected depending
// on remaining TTL.
func (n *Node) handleOut(m network.Message) {
	u := m.UID
	p := deref(m.Phase)
	t := deref(m.TTL)
	d := m.Dir

	if u < n.UID {
		n.log.WithFields(logrus.Fields{"uid": u, "phase": p, "dir": d}).Debug("OUT swallowed: smaller uid")
		return // smaller probe swallowed
	}
	if u == n.UID {
		n.enterVictory(p)
		return
	}
	// u > n.UID
	if t > 1 {
		n.log.WithFields(logrus.Fields{"uid": u, "phase": p, "ttl": t, "dir": d}).Debug("OUT forwarded")
		n.forwardOut(u, p, t-1, d)
		return
	}
	n.log.WithFields(logrus.Fields{"uid": u, "phase": p, "dir": d}).Debug("OUT reflected as IN")
	n.reflectIn(u, p, d)
}

// enterVictory implements self-recognition: a node declares itself the
// winner the moment its own probe returns to it as an OUT, rather than
// waiting for the matching IN acknowledgement.
func (n *Node) enterVictory(p int) {
	if !n.state.setWinnerOnce(n.UID) {
		return
	}
	uid, ok := n.state.winner()
	configs.Assert(ok && uid == n.UID, "winner must be this node's own UID right after self-recognition")
	n.state.bumpRounds(p + 1)
	n.log.WithFields(logrus.Fields{"phase": p}).Info("won the election")

	n.sendAnnounce(n.UID, network.DirLeft)
	n.sendAnnounce(n.UID, network.DirRight)
	n.complete()
}

func (n *Node) forwardOut(uid int64, phase, ttl int, dir network.Dir) {
	msg := network.NewOut(uid, phase, ttl, dir, n.Index)
	addr := n.addrForDir(dir)
	n.sender.sendProtocol(addr, msg)
}

func (n *Node) reflectIn(uid int64, phase int, dir network.Dir) {
	msg := network.NewIn(uid, phase, dir, n.Index)
	addr := n.addrForDir(dir.Opposite())
	n.sender.sendProtocol(addr, msg)
}

// handleIn processes an inbound IN(uid, phase, dir) acknowledgement,
// relaying it onward if it belongs to another originator or setting this
// node's own ack bit if it's the reflection of its own probe.
func (n *Node) handleIn(m network.Message) {
	u := m.UID
	p := deref(m.Phase)
	d := m.Dir

	if u != n.UID {
		// relay another node's acknowledgement back to its originator.
		n.log.WithFields(logrus.Fields{"uid": u, "phase": p, "dir": d}).Debug("IN relayed")
		msg := network.NewIn(u, p, d, n.Index)
		n.sender.sendProtocol(n.addrForDir(d.Opposite()), msg)
		return
	}
	n.log.WithFields(logrus.Fields{"phase": p, "dir": d}).Debug("IN acked")
	n.state.ack(p, d)
}

// handleAnnounce processes an inbound ANNOUNCE(originator, winner, dir),
// relaying it onward before this node completes. Re-emission precedes the
// completion transition so neighbors receive the relay even if this node
// is about to shut down.
func (n *Node) handleAnnounce(m network.Message) {
	w := deref64(m.Winner)
	d := m.Dir

	n.log.WithFields(logrus.Fields{"winner": w, "dir": d}).Debug("ANNOUNCE relayed")
	n.state.setWinnerOnce(w)
	n.sendAnnounce(w, d)
	n.complete()
}

func (n *Node) sendAnnounce(winner int64, dir network.Dir) {
	msg := network.NewAnnounce(n.UID, winner, dir, n.Index)
	n.sender.sendProtocol(n.addrForDir(dir), msg)
}

func (n *Node) addrForDir(dir network.Dir) string {
	if dir == network.DirLeft {
		return n.leftAddr()
	}
	return n.rightAddr()
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func deref64(p *int64) int64 {
	if p == nil {
		return -1
	}
	return *p
}
