// Package orchestrator launches N node processes for a scenario, listens
// for their REPORTs, cross-checks them, and emits a pass/fail verdict.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"hsring/configs"
)

// child tracks one spawned node process: its OS process handle and the
// UID the Orchestrator expects it to report for cross-check.
type child struct {
	index      int
	cmd        *exec.Cmd
	expectedUID int64
}

// DefaultNodeBinary locates the compiled node binary when --nodeBin is not
// given: a "node" binary alongside the orchestrator's own executable, else
// a "node" found on PATH, else "./node".
func DefaultNodeBinary() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "node")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if path, err := exec.LookPath("node"); err == nil {
		return path
	}
	return "./node"
}

// spawnAll launches N node processes in parallel, passing each its
// (n, index, basePort, orchPort) arguments. It returns once every process
// has been started (not exited); launch failures abort the whole
// scenario.
func (o *Orchestrator) spawnAll(ctx context.Context, nodeBinary string, sc configs.Scenario) ([]*child, error) {
	children := make([]*child, sc.N)
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < sc.N; i++ {
		i := i
		g.Go(func() error {
			cmd := exec.Command(nodeBinary,
				"--n", strconv.Itoa(sc.N),
				"--index", strconv.Itoa(i),
				"--basePort", strconv.Itoa(sc.BasePort),
				"--orchPort", strconv.Itoa(sc.OrchPort),
			)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if err := cmd.Start(); err != nil {
				return fmt.Errorf("spawn node %d: %w", i, err)
			}
			children[i] = &child{
				index:       i,
				cmd:         cmd,
				expectedUID: int64(cmd.Process.Pid),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Best-effort teardown of whatever already started.
		for _, c := range children {
			if c != nil {
				_ = c.cmd.Process.Kill()
			}
		}
		return nil, err
	}
	return children, nil
}

// waitAll waits up to configs.ChildExitWait per child for a normal exit,
// then kills survivors. It returns whether every child exited with
// status 0.
func (o *Orchestrator) waitAll(children []*child) bool {
	allExited := true
	done := make(chan struct {
		idx  int
		code int
	}, len(children))

	for _, c := range children {
		c := c
		go func() {
			err := c.cmd.Wait()
			code := 0
			if err != nil {
				if ee, ok := err.(*exec.ExitError); ok {
					code = ee.ExitCode()
				} else {
					code = -1
				}
			}
			done <- struct {
				idx  int
				code int
			}{c.index, code}
		}()
	}

	deadline := time.After(configs.ChildExitWait)
	received := 0
	for received < len(children) {
		select {
		case r := <-done:
			received++
			if r.code != 0 {
				allExited = false
			}
		case <-deadline:
			for _, c := range children {
				_ = c.cmd.Process.Kill()
			}
			return false
		}
	}
	return allExited
}
