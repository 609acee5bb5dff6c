// Command orchestrator runs one scenario, or the default scenario sweep,
// and reports a pass/fail verdict per scenario plus an overall verdict.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"hsring/configs"
	"hsring/network/orchestrator"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: orchestrator [--n <int>] [--basePort <int>] [--orchPort <int>] [--nodeBin <path>]")
	pflag.PrintDefaults()
}

func main() {
	var n int
	var basePort, orchPort int
	var nodeBin string
	var debug bool

	pflag.IntVar(&n, "n", -1, "ring size; 0 runs the default scenario sweep; absent prompts interactively")
	pflag.IntVar(&basePort, "basePort", configs.DefaultBasePort, "ring listener base port")
	pflag.IntVar(&orchPort, "orchPort", configs.DefaultOrchPort, "orchestrator report-listener port")
	pflag.StringVar(&nodeBin, "nodeBin", "", "path to the compiled node binary (defaults to a sibling 'node' binary)")
	pflag.BoolVar(&debug, "debug", false, "log per-message protocol tracing")
	pflag.Usage = usage
	pflag.Parse()

	configs.SetDebug(debug)

	if !pflag.Lookup("n").Changed {
		n = promptForN()
	}

	if nodeBin == "" {
		nodeBin = orchestrator.DefaultNodeBinary()
	}
	o := orchestrator.New(nodeBin)

	stats := orchestrator.NewSweepStats()
	ctx := context.Background()

	scenarios := scenariosFor(n, basePort, orchPort)
	for _, sc := range scenarios {
		v, err := o.RunScenario(ctx, sc)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scenario launch failed:", err)
			os.Exit(1)
		}
		stats.Append(v)
		orchestrator.PrintScenario(os.Stdout, v)
	}

	overall := stats.OverallPass()
	orchestrator.PrintOverall(os.Stdout, overall)
	if !overall {
		os.Exit(1)
	}
}

func scenariosFor(n, basePort, orchPort int) []configs.Scenario {
	if n == 0 {
		return configs.DefaultScenarios
	}
	return []configs.Scenario{{N: n, BasePort: basePort, OrchPort: orchPort}}
}

func promptForN() int {
	fmt.Fprint(os.Stderr, "N (0 for the default scenario sweep): ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	v, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid N, defaulting to the scenario sweep")
		return 0
	}
	return v
}
