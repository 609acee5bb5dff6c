// Package node implements the per-process ring-election phase state
// machine, its Listener, Inbox dispatcher and retrying Sender.
package node

import (
	"sync/atomic"

	lock "github.com/viney-shih/go-lock"

	"hsring/network"
	"hsring/utils"
)

// AckState tracks, for one phase, whether the left and right
// acknowledgements have arrived.
type AckState struct {
	Left  bool
	Right bool
}

func (a AckState) Both() bool { return a.Left && a.Right }

// state is the mutable phase state of a node. phaseAcks and its
// co-varying scalars (phase, roundsForReport) share a single mutex
// covering the map and the counters it co-varies with. The lock is a
// CASMutex (github.com/viney-shih/go-lock) rather than a bare sync.Mutex,
// so the phase driver's ack poll can use TryLockWithTimeout instead of
// blocking indefinitely on contention.
//
// winnerUID, messagesSent and completion are not guarded by mu: the first
// transitions exactly once guarded by a CAS below, the second is a plain
// atomic counter, and the third is a single-shot atomic flag.
type state struct {
	mu    lock.RWMutex
	phase int
	active bool
	phaseAcks       map[int]*AckState
	roundsForReport int

	winnerUID    atomic.Int64 // sentinel unset value is -1
	winnerIsSet  atomic.Bool
	messagesSent atomic.Int64
	completion   atomic.Bool
}

const unsetWinner = int64(-1)

func newState() *state {
	s := &state{
		mu:        lock.NewCASMutex(),
		active:    true,
		phaseAcks: make(map[int]*AckState),
	}
	s.winnerUID.Store(unsetWinner)
	return s
}

// beginPhase creates a fresh AckState for p.
func (s *state) beginPhase(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phaseAcks[p] = &AckState{}
}

// ack sets the left or right bit for phase p, creating the entry lazily if
// the IN arrived before this node's own OUT emission recorded it.
func (s *state) ack(p int, dir network.Dir) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.phaseAcks[p]
	if !ok {
		a = &AckState{}
		s.phaseAcks[p] = a
	}
	if dir == network.DirLeft {
		a.Left = true
	} else {
		a.Right = true
	}
}

// bothAcked reports whether phase p has both ack bits set.
func (s *state) bothAcked(p int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.phaseAcks[p]
	return ok && a.Both()
}

// advancePhase moves from phase `from` to from+1 and bumps roundsForReport
// if the node is still in phase `from`; a stale call changes nothing. It
// returns the current phase.
func (s *state) advancePhase(from int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == from {
		s.phase = from + 1
		s.roundsForReport = utils.Max(s.roundsForReport, s.phase)
	}
	return s.phase
}

func (s *state) currentPhase() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *state) bumpRounds(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roundsForReport = utils.Max(s.roundsForReport, p)
}

func (s *state) rounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roundsForReport
}

func (s *state) setInactive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

func (s *state) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// setWinnerOnce sets winnerUID the first time it's called and reports
// whether this call was the one that set it; winnerUID, once set, is
// never overwritten.
func (s *state) setWinnerOnce(uid int64) bool {
	if !s.winnerIsSet.CompareAndSwap(false, true) {
		return false
	}
	s.winnerUID.Store(uid)
	return true
}

func (s *state) winner() (int64, bool) {
	if !s.winnerIsSet.Load() {
		return unsetWinner, false
	}
	return s.winnerUID.Load(), true
}

// recordSend increments messagesSent; called once per successfully
// delivered outbound write.
func (s *state) recordSend() {
	s.messagesSent.Add(1)
}

func (s *state) sentCount() int64 {
	return s.messagesSent.Load()
}

// tryComplete is the completion transition's compare-and-set: returns
// true exactly once, on the call that flips completion from false to
// true.
func (s *state) tryComplete() bool {
	return s.completion.CompareAndSwap(false, true)
}
