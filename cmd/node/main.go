// Command node runs a single ring election participant.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"hsring/configs"
	"hsring/network/node"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: node --n <int> --index <int> --basePort <int> --orchPort <int>")
	pflag.PrintDefaults()
}

func main() {
	var n, index, basePort, orchPort int
	var debug bool

	pflag.IntVar(&n, "n", -1, "total number of nodes in the ring")
	pflag.IntVar(&index, "index", -1, "this node's ring index in [0,n)")
	pflag.IntVar(&basePort, "basePort", -1, "ring listener base port; this node binds basePort+index")
	pflag.IntVar(&orchPort, "orchPort", -1, "orchestrator report-listener port")
	pflag.BoolVar(&debug, "debug", false, "log per-message protocol tracing")
	pflag.Usage = usage
	pflag.Parse()

	if n <= 0 || index < 0 || index >= n || basePort <= 0 || orchPort <= 0 {
		usage()
		os.Exit(1)
	}

	configs.SetDebug(debug)

	nd := node.New(n, index, basePort, orchPort)
	if err := nd.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
