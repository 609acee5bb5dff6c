package node

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"hsring/configs"
	"hsring/network"
)

// Node is one ring election participant. It owns the ring identity, the
// phase state machine, and three concurrent tasks: the Listener's accept
// loop, the Inbox dispatcher, and the phase driver.
type Node struct {
	N           int
	Index       int
	LeftIndex   int
	RightIndex  int
	UID         int64
	BasePort    int
	OrchPort    int

	state   *state
	inbox   *inbox
	sender  *sender
	log     *logrus.Entry
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs a Node for ring position index out of N, listening on
// basePort+index and reporting to orchPort on loopback.
//
// UID is sourced from os.Getpid(): an OS-assigned per-process identifier
// that is stable for the process lifetime and distinct across the N
// sibling processes the Orchestrator spawns for one scenario. The
// Orchestrator independently asserts this uniqueness from its own
// bookkeeping of spawned child PIDs rather than trusting the OS guarantee
// blindly.
func New(n, index, basePort, orchPort int) *Node {
	ctx, cancel := context.WithCancel(context.Background())
	nd := &Node{
		N:          n,
		Index:      index,
		LeftIndex:  (index - 1 + n) % n,
		RightIndex: (index + 1) % n,
		UID:        int64(os.Getpid()),
		BasePort:   basePort,
		OrchPort:   orchPort,
		state:      newState(),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	nd.inbox = newInbox()
	nd.sender = newSender(nd)
	nd.log = configs.Log.WithFields(logrus.Fields{
		"node": index, "uid": nd.UID, "n": n,
	})
	return nd
}

func (n *Node) listenAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", n.BasePort+n.Index)
}

func (n *Node) leftAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", n.BasePort+n.LeftIndex)
}

func (n *Node) rightAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", n.BasePort+n.RightIndex)
}

func (n *Node) orchAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", n.OrchPort)
}

// sideOf resolves the ring Side of an inbound senderIndex.
func (n *Node) sideOf(senderIndex *int) network.Side {
	if senderIndex == nil {
		return network.SideUnknown
	}
	switch *senderIndex {
	case n.LeftIndex:
		return network.SideLeft
	case n.RightIndex:
		return network.SideRight
	default:
		return network.SideUnknown
	}
}

// Run brings the node to life: binds the listener and starts the inbox
// dispatcher, waits the startup grace, then runs the phase driver
// concurrently with them until the completion transition fires.
func (n *Node) Run() error {
	ln, err := net.Listen("tcp", n.listenAddr())
	if err != nil {
		return fmt.Errorf("node %d: bind %s: %w", n.Index, n.listenAddr(), err)
	}
	lsn := newListener(n, ln)
	go lsn.run()

	go n.runInboxDispatcher()

	select {
	case <-time.After(configs.StartupGrace):
	case <-n.ctx.Done():
	}

	go n.runPhaseDriver()

	<-n.done
	lsn.stop()
	n.cancel()
	return nil
}
