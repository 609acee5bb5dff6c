package node

import (
	"net"
	"time"

	"hsring/configs"
	"hsring/network"
)

// sender dials one fresh TCP connection per message, with a bounded
// retry/backoff policy tuned separately for protocol traffic (to ring
// peers) and the terminal REPORT (to the orchestrator).
type sender struct {
	n *Node
}

func newSender(n *Node) *sender {
	return &sender{n: n}
}

// sendTo dials addr, writes one encoded message line, and retries on I/O
// failure up to attempts times with the given delay between attempts.
// On success it increments messagesSent once and returns true; on
// exhaustion it returns false and the message is lost,
// which the caller's upper-layer timeout (phase driver or completion
// transition) is expected to tolerate.
func (s *sender) sendTo(addr string, msg network.Message, attempts int, delay time.Duration) bool {
	line, err := network.Encode(msg)
	if err != nil {
		// A message that can't even be marshaled is a programming error,
		// not a transient I/O failure; it never makes it onto the wire.
		configs.Log.WithError(err).WithField("node", s.n.Index).Error("failed to encode outbound message")
		return false
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if s.tryOnce(addr, line) {
			s.n.state.recordSend()
			return true
		}
		configs.DPrintf(nil, "node %d: attempt %d failed sending %s to %s", s.n.Index, attempt, configs.JToString(msg), addr)
		if attempt < attempts-1 {
			time.Sleep(delay)
		}
	}
	configs.Warn(false, nil, "exhausted retry budget sending to "+addr)
	return false
}

func (s *sender) tryOnce(addr string, line []byte) bool {
	conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
	if err != nil {
		return false
	}
	defer conn.Close()
	if _, err := conn.Write(line); err != nil {
		return false
	}
	return true
}

// sendProtocol sends a ring-protocol message (OUT/IN/ANNOUNCE) using the
// protocol retry budget.
func (s *sender) sendProtocol(addr string, msg network.Message) bool {
	return s.sendTo(addr, msg, configs.ProtocolRetryAttempts, configs.ProtocolRetryDelay)
}

// sendReport sends the terminal REPORT using the report retry budget.
func (s *sender) sendReport(msg network.Message) bool {
	return s.sendTo(s.n.orchAddr(), msg, configs.ReportRetryAttempts, configs.ReportRetryDelay)
}
