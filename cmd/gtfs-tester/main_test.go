package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Re-executes the test binary as gtfs-tester so init-time panics in any
// linked package surface as a failed process.
func TestMain(m *testing.M) {
	if os.Getenv("GTFS_TESTER_RUN_MAIN") == "1" {
		os.Args = append([]string{"gtfs-tester"}, os.Args[1:]...)
		main()
		return
	}
	os.Exit(m.Run())
}

func TestVersionStartsCleanly(t *testing.T) {
	command := exec.Command(os.Args[0], "-version")
	command.Env = append(os.Environ(), "GTFS_TESTER_RUN_MAIN=1")

	output, err := command.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "gtfs-tester: version dev")
	assert.NotContains(t, string(output), "panic")
}
