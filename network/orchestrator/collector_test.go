package orchestrator

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsring/network"
)

func sendLine(t *testing.T, addr string, m network.Message) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	line, err := network.Encode(m)
	require.NoError(t, err)
	_, err = conn.Write(line)
	require.NoError(t, err)
}

func TestCollectorCollectsExpectedCount(t *testing.T) {
	col, err := newCollector(34100)
	require.NoError(t, err)
	defer col.close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		sendLine(t, "127.0.0.1:34100", network.NewReport(1, 3, 1, 2))
		sendLine(t, "127.0.0.1:34100", network.NewReport(2, 3, 1, 2))
		sendLine(t, "127.0.0.1:34100", network.NewReport(3, 3, 1, 2))
	}()

	reports := col.collect(context.Background(), 3)
	assert.Len(t, reports, 3)
}

func TestCollectorDropsIncompleteReports(t *testing.T) {
	col, err := newCollector(34110)
	require.NoError(t, err)
	defer col.close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		sendLine(t, "127.0.0.1:34110", network.NewOut(1, 0, 1, network.DirLeft, 0))
		sendLine(t, "127.0.0.1:34110", network.NewReport(1, 3, 1, 2))
	}()

	reports := col.collect(context.Background(), 1)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(1), reports[0].UID)
}

func TestCollectorDedupsDuplicateReports(t *testing.T) {
	col, err := newCollector(34120)
	require.NoError(t, err)
	defer col.close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		sendLine(t, "127.0.0.1:34120", network.NewReport(1, 3, 1, 2))
		sendLine(t, "127.0.0.1:34120", network.NewReport(1, 3, 1, 2))
		sendLine(t, "127.0.0.1:34120", network.NewReport(2, 3, 1, 2))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	reports := col.collect(ctx, 2)
	assert.Len(t, reports, 2)
}
