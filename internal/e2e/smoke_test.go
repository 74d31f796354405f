package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeSessionsFixture(home))

	stdout, stderr, err := runHoard(t, binaryPath, home, "status", "--session", "s-1")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "day 2/3")
	assert.Contains(t, stdout, "You: Back again.")
	assert.Contains(t, stdout, "Day 1: 1 exchanges, earned +1200 gold")

	_, stderr, err = runHoard(t, binaryPath, home, "restart", "--session", "s-1")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runHoard(t, binaryPath, home, "status", "--session", "s-1", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "\"Day\": 1")
	assert.Contains(t, stdout, "\"Gold\": 0")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "hoard-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/hoard")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build hoard binary: %s", string(output))
	return binaryPath
}

func runHoard(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeSessionsFixture(home string) error {
	configDir := filepath.Join(home, ".hoard")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	sessions := `version = 1

[[sessions]]
id = "s-1"
day = 2
turn = 1
gold = 1350
gold_at_day_start = 1200
relationship = 2
phase = "playing"
started_at = "2026-02-14T11:00:00Z"
updated_at = "2026-02-14T11:30:00Z"

[[sessions.conversation]]
speaker = "user"
text = "Back again."

[[sessions.conversation]]
speaker = "character"
text = "Hm. Speak."

[[sessions.memories]]
day = 1
mode = "summary"
condensed_text = "Traveler: hi | Dragon: hello"
exchanges = 1
gold_earned = 1200
`

	return os.WriteFile(filepath.Join(configDir, "sessions.toml"), []byte(sessions), 0o600)
}
