package node

import (
	"time"

	"github.com/sirupsen/logrus"

	"hsring/configs"
	"hsring/network"
	"hsring/utils"
)

// runPhaseDriver is the algorithmic heart of the node: after the startup
// grace, run phases 0, 1, 2, ... until a winner is set or the node goes
// inactive.
func (n *Node) runPhaseDriver() {
	for p := 0; ; p++ {
		if _, won := n.state.winner(); won || n.state.completion.Load() {
			return
		}
		n.state.beginPhase(p)

		distance := 1 << uint(p)
		n.log.WithFields(logrus.Fields{"phase": p, "distance": distance}).Debug("emitting probes")

		n.sender.sendProtocol(n.leftAddr(), network.NewOut(n.UID, p, distance, network.DirLeft, n.Index))
		n.sender.sendProtocol(n.rightAddr(), network.NewOut(n.UID, p, distance, network.DirRight, n.Index))

		ok := n.awaitAcks(p)
		if !ok {
			n.state.setInactive()
			n.timeoutShutdown()
			return
		}
		if n.state.completion.Load() {
			return
		}
		n.state.advancePhase(p)
	}
}

// awaitAcks polls phaseAcks[p] at coarse intervals until both bits are set
// or the phase timeout elapses. Each poll attempt takes the CASMutex with
// a bounded timeout rather than blocking indefinitely, so a stuck lock
// holder can't wedge the driver.
func (n *Node) awaitAcks(p int) bool {
	deadline := time.Now().Add(configs.PhaseTimeout)
	for {
		if n.state.completion.Load() {
			return true // victory arrived mid-wait; driver should just exit
		}
		if n.state.mu.TryLockWithTimeout(configs.PhasePollInterval) {
			a, ok := n.state.phaseAcks[p]
			done := ok && a.Both()
			n.state.mu.Unlock()
			if done {
				return true
			}
		} else {
			configs.DPrintf(nil, "node %d: %v polling phase %d acks", n.Index, utils.ErrLockTimeout, p)
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(configs.PhasePollInterval)
	}
}
