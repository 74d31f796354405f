package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bnema/dragon-hoard/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestAuthSetRequiresSecretValueFlag(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "auth", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"secret-value\" not set")
}

func TestRestartRequiresSessionFlag(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "restart")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"session\" not set")
}

func TestStatusWithoutSavedSessionReturnsError(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "status")
	require.ErrorIs(t, err, errNoSavedSession)
}

func TestPlayWithoutAPIKeyReturnsError(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, _, err := executeCLIWithInput(t, t.TempDir(), "hello\n", "play")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api key is not configured")
}

func TestScoresEmptyBoard(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "scores")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No finished runs yet.")
}

func TestPlayFullRunRecordsScore(t *testing.T) {
	requests := fakeGemini(t, `{"gold": 100, "message": "Take it.", "relationship_change": 1}`)
	home := t.TempDir()

	day := "one\ntwo\nthree\n"
	stdout, stderr, err := executeCLIWithInput(t, home, day+"\n"+day+"\n"+day+"\n", "play")
	require.NoError(t, err)
	assert.Equal(t, int32(9), requests.Load())
	assert.Contains(t, stdout, "Dragon: Take it.")
	assert.Contains(t, stdout, "💰 +100 gold coins (Total: 100)")
	assert.Contains(t, stdout, "Day 1: 3 exchanges, earned +100 gold")
	assert.Contains(t, stdout, "Day 1 is over.")
	assert.Contains(t, stdout, "The last exchange is done.")
	assert.Contains(t, stdout, "Final gold: 900")
	assert.Contains(t, stderr, "The dragon is thinking")

	stdout, _, err = executeCLI(t, home, "scores")
	require.NoError(t, err)
	assert.Contains(t, stdout, "runs: 1")
	assert.Contains(t, stdout, "900 gold")

	stdout, _, err = executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"Phase\": \"game_over\"")
	assert.Contains(t, stdout, "\"Relationship\": 9")
}

func TestPlayQuitThenResume(t *testing.T) {
	requests := fakeGemini(t, `{"gold": -5, "message": "Pay up."}`)
	home := t.TempDir()

	stdout, _, err := executeCLIWithInput(t, home, "hello\n/quit\n", "play")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dragon: Pay up.")
	assert.Contains(t, stdout, "saved")

	stdout, _, err = executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "You: hello")
	assert.Contains(t, stdout, "-5 today")

	stdout, _, err = executeCLIWithInput(t, home, "", "play")
	require.NoError(t, err)
	assert.Contains(t, stdout, "You: hello")
	assert.Contains(t, stdout, "turn 2/3")
	assert.Equal(t, int32(1), requests.Load())
}

func TestPlayKeepsSessionWhenModelFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("HOARD_MODEL_BASE_URL", server.URL)

	stdout, _, err := executeCLIWithInput(t, t.TempDir(), "hello\n", "play")
	require.NoError(t, err)
	assert.Contains(t, stdout, "The dragon did not answer")
	assert.NotContains(t, stdout, "Dragon: ")
}

func TestRestartResetsSavedSession(t *testing.T) {
	fakeGemini(t, `{"gold": 250, "message": "Fine."}`)
	home := t.TempDir()

	_, _, err := executeCLIWithInput(t, home, "hello\n", "play")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	var view struct {
		ID   string
		Gold int64
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, int64(250), view.Gold)

	stdout, _, err = executeCLI(t, home, "restart", "--session", view.ID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "restarted at day 1")

	stdout, _, err = executeCLI(t, home, "status", "--session", view.ID, "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"Gold\": 0")
}

// fakeGemini serves reply as the text of every generateContent call and
// points the CLI at it.
func fakeGemini(t *testing.T, reply string) *atomic.Int32 {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": reply}},
				},
			},
		},
	})
	require.NoError(t, err)

	requests := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("HOARD_MODEL_BASE_URL", server.URL)

	return requests
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home string, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
