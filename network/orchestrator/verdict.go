package orchestrator

import "hsring/network"

// Verdict is the Orchestrator's pass/fail result for one scenario.
type Verdict struct {
	N              int
	ExpectedUIDs   []int64
	GotAllReports  bool
	AllExited      bool
	SameWinner     bool
	WinnerIsExpected bool
	Winner         int64
	Rounds         int
	TotalMessages  int64
}

// Pass reports whether every one of the four checks held.
func (v Verdict) Pass() bool {
	return v.GotAllReports && v.AllExited && v.SameWinner && v.WinnerIsExpected
}

// validate cross-checks a scenario's reports against its expected UIDs
// and builds the resulting Verdict.
func validate(n int, expectedUIDs []int64, allExited bool, reports []network.Message) Verdict {
	v := Verdict{
		N:            n,
		ExpectedUIDs: expectedUIDs,
		AllExited:    allExited,
	}
	v.GotAllReports = len(reports) == n
	if len(reports) == 0 {
		return v
	}

	sameWinner := true
	first := *reports[0].Winner
	var totalMessages int64
	maxRounds := 0
	var winningRounds int
	haveWinningRounds := false

	for _, r := range reports {
		if *r.Winner != first {
			sameWinner = false
		}
		totalMessages += *r.Messages
		if *r.Rounds > maxRounds {
			maxRounds = *r.Rounds
		}
		if *r.Winner == r.UID && !haveWinningRounds {
			// this report came from the winner itself; prefer its rounds
			// count.
			winningRounds = *r.Rounds
			haveWinningRounds = true
		}
	}

	v.SameWinner = sameWinner
	v.Winner = first
	v.TotalMessages = totalMessages
	if haveWinningRounds {
		v.Rounds = winningRounds
	} else {
		v.Rounds = maxRounds
	}

	expectedMax := int64(-1)
	for _, uid := range expectedUIDs {
		if uid > expectedMax {
			expectedMax = uid
		}
	}
	v.WinnerIsExpected = sameWinner && first == expectedMax

	return v
}
