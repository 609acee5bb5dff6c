package orchestrator

import (
	"fmt"
	"io"
)

// PrintScenario writes the per-scenario console block.
func PrintScenario(w io.Writer, v Verdict) {
	fmt.Fprintf(w, "N=%d\n", v.N)
	fmt.Fprintf(w, "UIDs=%v\n", v.ExpectedUIDs)
	fmt.Fprintf(w, "WinnerUID=%d\n", v.Winner)
	fmt.Fprintf(w, "Rounds=%d\n", v.Rounds)
	fmt.Fprintf(w, "TotalMessages=%d\n", v.TotalMessages)
	fmt.Fprintf(w, "SelfCheck=%s\n", passFail(v.Pass()))
}

// PrintOverall writes the sweep-level rollup line.
func PrintOverall(w io.Writer, overallPass bool) {
	fmt.Fprintf(w, "OverallSelfCheck=%s\n", passFail(overallPass))
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
