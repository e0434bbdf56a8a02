//go:build linux

package script

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installFakeSudo puts a sudo on PATH that forks its command instead of
// exec'ing it, the way the real one does.
func installFakeSudo(t *testing.T) string {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sudo"), []byte("#!/bin/sh\n\"$@\"\nexit $?\n"), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return dir
}

func writePlayer(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "player.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

// alive reports whether pid is a running, non-zombie process.
func alive(pid int) bool {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return false
	}
	fields := strings.Fields(string(data[strings.LastIndexByte(string(data), ')')+1:]))
	return len(fields) > 0 && fields[0] != "Z"
}

func TestProcessHandleCloseStopsForkedPlayer(t *testing.T) {
	dir := installFakeSudo(t)
	pidFile := filepath.Join(dir, "player.pid")
	player := writePlayer(t, dir, "echo $$ > "+pidFile+"\n"+
		"for i in 1 2 3 4 5 6; do echo \"progress $i/6\"; sleep 1; done\n")
	path := writeScript(t, "STRING hi", "ENTER")

	handle, err := NewProcessEngine(player, nil).Open(path, Options{LayoutPath: "/l.kl"})
	require.NoError(t, err)
	require.NoError(t, handle.Toggle())

	var pid int
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(pidFile)
		if err != nil {
			return false
		}
		pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
		return err == nil && pid > 0
	}, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)

	start := time.Now()
	require.NoError(t, handle.Close())

	assert.Less(t, time.Since(start), time.Second+500*time.Millisecond)
	assert.Eventually(t, func() bool { return !alive(pid) }, time.Second, 20*time.Millisecond, "player still running")
}

func TestProcessHandleRunsToDone(t *testing.T) {
	dir := installFakeSudo(t)
	player := writePlayer(t, dir, "echo 'progress 1/2'\necho 'progress 2/2'\n")
	path := writeScript(t, "STRING hi", "ENTER")

	handle, err := NewProcessEngine(player, nil).Open(path, Options{})
	require.NoError(t, err)
	require.NoError(t, handle.Toggle())

	require.Eventually(t, func() bool { return handle.Status().Finished() }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, Status{State: Done, Line: 2, Total: 2}, handle.Status())
	assert.NoError(t, handle.Close())
}
