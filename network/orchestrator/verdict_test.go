package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hsring/network"
)

func report(uid, winner int64, rounds int, messages int64) network.Message {
	return network.NewReport(uid, winner, rounds, messages)
}

func TestValidateAllAgreeAndExpected(t *testing.T) {
	expected := []int64{10, 30, 20}
	reports := []network.Message{
		report(10, 30, 2, 6),
		report(20, 30, 2, 6),
		report(30, 30, 2, 6), // winner's own report: its Rounds is the one used
	}
	v := validate(3, expected, true, reports)

	assert.True(t, v.GotAllReports)
	assert.True(t, v.SameWinner)
	assert.True(t, v.WinnerIsExpected)
	assert.Equal(t, int64(30), v.Winner)
	assert.Equal(t, int64(18), v.TotalMessages)
	assert.Equal(t, 2, v.Rounds)
	assert.True(t, v.Pass())
}

func TestValidateDisagreeingWinnersFail(t *testing.T) {
	expected := []int64{10, 30, 20}
	reports := []network.Message{
		report(10, 30, 2, 1),
		report(20, 20, 2, 1),
		report(30, 30, 2, 1),
	}
	v := validate(3, expected, true, reports)

	assert.False(t, v.SameWinner)
	assert.False(t, v.WinnerIsExpected)
	assert.False(t, v.Pass())
}

func TestValidateMissingReportsFail(t *testing.T) {
	expected := []int64{10, 30, 20}
	reports := []network.Message{
		report(10, 30, 2, 1),
		report(20, 30, 2, 1),
	}
	v := validate(3, expected, true, reports)

	assert.False(t, v.GotAllReports)
	assert.False(t, v.Pass())
}

func TestValidateUsesMaxRoundsWhenWinnerSelfReportMissing(t *testing.T) {
	expected := []int64{10, 30, 20}
	reports := []network.Message{
		report(10, 30, 3, 1),
		report(20, 30, 5, 1),
	}
	v := validate(2, expected, true, reports)
	assert.Equal(t, 5, v.Rounds)
}

func TestValidateNonExitFailsEvenWithGoodReports(t *testing.T) {
	expected := []int64{10, 30}
	reports := []network.Message{
		report(10, 30, 1, 1),
		report(30, 30, 1, 1),
	}
	v := validate(2, expected, false, reports)
	assert.False(t, v.AllExited)
	assert.False(t, v.Pass())
}
