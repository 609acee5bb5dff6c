package orchestrator

import (
	"context"

	mapset "github.com/deckarep/golang-set"
	"github.com/sirupsen/logrus"

	"hsring/configs"
)

// Orchestrator runs one or more scenarios end to end.
type Orchestrator struct {
	NodeBinary string
	log        *logrus.Entry
}

func New(nodeBinary string) *Orchestrator {
	return &Orchestrator{
		NodeBinary: nodeBinary,
		log:        configs.Log.WithField("component", "orchestrator"),
	}
}

// RunScenario runs a single (N, basePort, orchPort) scenario end to end:
// bind the report listener, spawn the nodes, collect their reports, wait
// for exit, then validate.
func (o *Orchestrator) RunScenario(ctx context.Context, sc configs.Scenario) (Verdict, error) {
	log := o.log.WithFields(logrus.Fields{"n": sc.N, "basePort": sc.BasePort, "orchPort": sc.OrchPort})
	log.Info("starting scenario")

	// Step 1: bind the report listener BEFORE spawning any node.
	col, err := newCollector(sc.OrchPort)
	if err != nil {
		return Verdict{}, err
	}
	defer col.close()

	// Step 2: spawn N node processes in parallel.
	children, err := o.spawnAll(ctx, o.NodeBinary, sc)
	if err != nil {
		log.WithError(err).Error("launch failure")
		return Verdict{N: sc.N}, err
	}
	expectedUIDs := make([]int64, sc.N)
	for _, c := range children {
		expectedUIDs[c.index] = c.expectedUID
	}
	assertUniqueUIDs(log, expectedUIDs)

	// Step 3: collect reports until N arrive or the scenario deadline elapses.
	reports := col.collect(ctx, sc.N)

	// Step 4: wait for children to exit, killing survivors.
	allExited := o.waitAll(children)

	// Steps 5-6: validate and aggregate.
	v := validate(sc.N, expectedUIDs, allExited, reports)

	log.WithFields(logrus.Fields{
		"pass": v.Pass(), "winner": v.Winner, "rounds": v.Rounds, "totalMessages": v.TotalMessages,
	}).Info("scenario finished")
	return v, nil
}

// assertUniqueUIDs is the Orchestrator's own cross-check of the uniqueness
// the OS is expected to give every spawned child process via its PID: it
// never trusts that guarantee blindly, instead scanning its own launch
// bookkeeping and logging loudly (never silently continuing) if two
// children were assigned the same expected UID.
func assertUniqueUIDs(log *logrus.Entry, expectedUIDs []int64) {
	seen := mapset.NewThreadSafeSet()
	for _, uid := range expectedUIDs {
		if !seen.Add(uid) {
			log.WithField("uid", uid).Error("collision in expected UIDs across spawned children")
		}
	}
}
