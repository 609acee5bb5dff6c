package configs

import "time"

// Debugging toggles, one flag per concern, backing a logrus.Logger
// instead of ad-hoc fmt/log calls.
var (
	ShowDebugInfo = false
	ShowWarnings  = true
)

// System parameters that govern the ring election's phase state machine
// and the surrounding harness.
const (
	// StartupGrace is how long a node waits after binding its listener
	// before emitting its first OUT probe.
	StartupGrace = 2 * time.Second

	// PhaseTimeout bounds how long a node waits for both ack bits of a
	// phase before it gives up and marks itself inactive.
	PhaseTimeout = 5 * time.Second

	// PhasePollInterval is the coarse interval at which the phase driver
	// re-checks phaseAcks.
	PhasePollInterval = 50 * time.Millisecond

	// ProtocolRetryAttempts/ProtocolRetryDelay bound the sender's retry of
	// OUT/IN/ANNOUNCE deliveries to ring peers.
	ProtocolRetryAttempts = 200
	ProtocolRetryDelay    = 50 * time.Millisecond

	// ReportRetryAttempts/ReportRetryDelay bound the sender's retry of the
	// terminal REPORT delivery to the orchestrator.
	ReportRetryAttempts = 100
	ReportRetryDelay    = 100 * time.Millisecond

	// MaxListenerConcurrency bounds how many inbound connections a node's
	// listener services at once.
	MaxListenerConcurrency = 32

	// ScenarioDeadline bounds how long the Orchestrator waits for all N
	// reports before declaring the scenario a failure.
	ScenarioDeadline = 30 * time.Second

	// ChildExitWait bounds how long the Orchestrator waits for a spawned
	// node process to exit normally before it is killed.
	ChildExitWait = 5 * time.Second
)

// DefaultBasePort/DefaultOrchPort are the orchestrator CLI defaults.
const (
	DefaultBasePort = 50000
	DefaultOrchPort = 40000
)

// Scenario describes one entry of the default scenario sweep.
type Scenario struct {
	N        int
	BasePort int
	OrchPort int
}

// DefaultScenarios is the literal sweep run when --n is given as 0.
var DefaultScenarios = []Scenario{
	{N: 10, BasePort: 51000, OrchPort: 41000},
	{N: 20, BasePort: 52000, OrchPort: 42000},
	{N: 50, BasePort: 53000, OrchPort: 43000},
	{N: 100, BasePort: 54000, OrchPort: 44000},
	{N: 200, BasePort: 55000, OrchPort: 45000},
}
