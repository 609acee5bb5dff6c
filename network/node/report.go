package node

import (
	"hsring/network"
	"hsring/utils"
)

// complete is the completion transition: a single-shot compare-and-set
// guarding "send exactly one REPORT, then exit". A second call is a
// no-op.
func (n *Node) complete() {
	if !n.state.tryComplete() {
		return
	}

	winner, _ := n.state.winner()
	rounds := n.state.rounds()
	sent := n.state.sentCount()

	report := network.NewReport(n.UID, winner, rounds, sent)
	n.sender.sendReport(report)

	n.finish()
}

// timeoutShutdown is the other, REPORT-less way a node can end its life:
// a phase timeout. It shares the completion flag with complete so the two
// can never both run for the same node.
func (n *Node) timeoutShutdown() {
	if !n.state.tryComplete() {
		return
	}
	n.log.WithError(utils.ErrTimeout).Warn("phase timeout, shutting down without a report")
	n.finish()
}

func (n *Node) finish() {
	n.inbox.close()
	close(n.done)
}
