package orchestrator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintScenarioFormat(t *testing.T) {
	var buf bytes.Buffer
	v := Verdict{
		N: 3, ExpectedUIDs: []int64{1, 2, 3},
		Winner: 3, Rounds: 2, TotalMessages: 18,
		GotAllReports: true, AllExited: true, SameWinner: true, WinnerIsExpected: true,
	}
	PrintScenario(&buf, v)
	out := buf.String()

	assert.Contains(t, out, "N=3\n")
	assert.Contains(t, out, "WinnerUID=3\n")
	assert.Contains(t, out, "Rounds=2\n")
	assert.Contains(t, out, "TotalMessages=18\n")
	assert.Contains(t, out, "SelfCheck=PASS\n")
}

func TestPrintScenarioFail(t *testing.T) {
	var buf bytes.Buffer
	PrintScenario(&buf, Verdict{N: 2})
	assert.Contains(t, buf.String(), "SelfCheck=FAIL\n")
}

func TestPrintOverall(t *testing.T) {
	var buf bytes.Buffer
	PrintOverall(&buf, true)
	assert.Equal(t, "OverallSelfCheck=PASS\n", buf.String())

	buf.Reset()
	PrintOverall(&buf, false)
	assert.Equal(t, "OverallSelfCheck=FAIL\n", buf.String())
}
