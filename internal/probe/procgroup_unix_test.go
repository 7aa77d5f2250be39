//go:build !windows

package probe

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processGone reports whether pid has exited. A zombie counts as gone.
func processGone(t *testing.T, pid int) bool {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	if err != nil {
		return errors.Is(syscall.Kill(pid, 0), syscall.ESRCH)
	}
	// Field 3 follows the parenthesized command name.
	rest := string(data[strings.LastIndexByte(string(data), ')')+1:])
	fields := strings.Fields(rest)
	return len(fields) > 0 && (fields[0] == "Z" || fields[0] == "X")
}

func readPID(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	return pid
}

func requireProcFS(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	if _, err := os.Stat("/proc/self/stat"); err != nil {
		t.Skip("procfs not available")
	}
}

func TestExecRunner_KillsBackgroundGrandchild(t *testing.T) {
	requireProcFS(t)
	pidFile := filepath.Join(t.TempDir(), "pid")

	script := "sleep 100 >/dev/null 2>&1 </dev/null & echo $! >" + pidFile + "; exit 0"
	code, err := ExecRunner{}.Run(context.Background(), "sh", []string{"-c", script}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	pid := readPID(t, pidFile)
	require.Eventually(t, func() bool { return processGone(t, pid) }, 2*time.Second, 10*time.Millisecond,
		"grandchild %d outlived the call", pid)
}

func TestExecRunner_GrandchildHoldingStdout(t *testing.T) {
	requireProcFS(t)
	pidFile := filepath.Join(t.TempDir(), "pid")

	script := "sleep 100 & echo $! >" + pidFile + "; exit 0"
	r := ExecRunner{WaitDelay: 200 * time.Millisecond}

	start := time.Now()
	code, err := r.Run(context.Background(), "sh", []string{"-c", script}, nil)
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Less(t, elapsed, 5*time.Second)

	pid := readPID(t, pidFile)
	require.Eventually(t, func() bool { return processGone(t, pid) }, 2*time.Second, 10*time.Millisecond,
		"grandchild %d outlived the call", pid)
}
