package node

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsring/network"
)

// newTestRing builds a 3-node logical ring (index 1 in the middle) with
// real loopback listeners standing in for the left/right neighbors, so
// handler tests can assert on what actually goes out on the wire.
func newTestRing(t *testing.T, basePort int) (n *Node, left, right net.Listener) {
	t.Helper()
	n = New(3, 1, basePort, basePort+99)

	var err error
	left, err = net.Listen("tcp", n.leftAddr())
	require.NoError(t, err)
	right, err = net.Listen("tcp", n.rightAddr())
	require.NoError(t, err)
	t.Cleanup(func() {
		left.Close()
		right.Close()
	})
	return n, left, right
}

func recvOne(t *testing.T, ln net.Listener) network.Message {
	t.Helper()
	ln.(*net.TCPListener).SetDeadline(time.Now().Add(2 * time.Second))
	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)
	m, err := network.Decode(line[:len(line)-1])
	require.NoError(t, err)
	return m
}

func TestHandleOutSmallerUIDIsDropped(t *testing.T) {
	n, left, right := newTestRing(t, 24100)
	_ = right
	n.handleOut(network.NewOut(n.UID-1, 0, 1, network.DirLeft, 0))

	// nothing should arrive; a short accept deadline on left ends the wait quickly.
	left.(*net.TCPListener).SetDeadline(time.Now().Add(100 * time.Millisecond))
	_, err := left.Accept()
	assert.Error(t, err)
}

func TestHandleOutForwardsWhenTTLRemains(t *testing.T) {
	n, left, right := newTestRing(t, 24110)
	bigger := n.UID + 1000
	n.handleOut(network.NewOut(bigger, 2, 4, network.DirLeft, 0))

	got := recvOne(t, left)
	assert.Equal(t, network.MsgOut, got.Type)
	assert.Equal(t, bigger, got.UID)
	assert.Equal(t, 3, *got.TTL)
	assert.Equal(t, network.DirLeft, got.Dir)
	_ = right
}

func TestHandleOutReflectsAtTTLOne(t *testing.T) {
	n, left, right := newTestRing(t, 24120)
	bigger := n.UID + 1000
	n.handleOut(network.NewOut(bigger, 1, 1, network.DirLeft, 0))

	// dir=L reflects back via Right.
	got := recvOne(t, right)
	assert.Equal(t, network.MsgIn, got.Type)
	assert.Equal(t, bigger, got.UID)
	assert.Equal(t, network.DirLeft, got.Dir)
	_ = left
}

func TestHandleOutSelfRecognitionEntersVictoryAndAnnounces(t *testing.T) {
	n, left, right := newTestRing(t, 24130)
	n.handleOut(network.NewOut(n.UID, 2, 4, network.DirLeft, 0))

	leftMsg := recvOne(t, left)
	rightMsg := recvOne(t, right)
	assert.Equal(t, network.MsgAnnounce, leftMsg.Type)
	assert.Equal(t, network.MsgAnnounce, rightMsg.Type)
	assert.Equal(t, n.UID, *leftMsg.Winner)
	assert.Equal(t, n.UID, *rightMsg.Winner)

	uid, ok := n.state.winner()
	assert.True(t, ok)
	assert.Equal(t, n.UID, uid)
	assert.True(t, n.state.completion.Load())
}

func TestHandleInForeignUIDIsRelayed(t *testing.T) {
	n, left, right := newTestRing(t, 24140)
	other := n.UID + 7
	n.handleIn(network.NewIn(other, 1, network.DirLeft, 0))

	// dir=L relays to the opposite side: Right.
	got := recvOne(t, right)
	assert.Equal(t, network.MsgIn, got.Type)
	assert.Equal(t, other, got.UID)
	_ = left
}

func TestHandleInOwnUIDSetsAckBit(t *testing.T) {
	n, _, _ := newTestRing(t, 24150)
	n.state.beginPhase(0)
	n.handleIn(network.NewIn(n.UID, 0, network.DirLeft, 0))
	assert.False(t, n.state.bothAcked(0))
	n.handleIn(network.NewIn(n.UID, 0, network.DirRight, 0))
	assert.True(t, n.state.bothAcked(0))
}

func TestHandleAnnounceRelaysThenCompletes(t *testing.T) {
	n, left, right := newTestRing(t, 24160)
	n.handleAnnounce(network.NewAnnounce(99, 555, network.DirRight, 0))

	got := recvOne(t, right)
	assert.Equal(t, network.MsgAnnounce, got.Type)
	assert.Equal(t, int64(555), *got.Winner)

	uid, ok := n.state.winner()
	assert.True(t, ok)
	assert.Equal(t, int64(555), uid)
	assert.True(t, n.state.completion.Load())
	_ = left
}
