package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingBinaryYieldsNoIssues(t *testing.T) {
	r := New(WithCommand("pyscope-no-such-linter"))
	issues := r.Check(context.Background(), "whatever.py")
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestOutputLinesBecomeIssues(t *testing.T) {
	// echo prints its arguments; the single output line passes through
	// as one issue.
	r := New(WithCommand("echo"), WithMaxLineLength(99))
	issues := r.Check(context.Background(), "file.py")
	assert.Len(t, issues, 1)
	assert.Contains(t, issues[0], "--max-line-length=99")
	assert.Contains(t, issues[0], "file.py")
}

func TestNonZeroExitWithoutOutputYieldsNoIssues(t *testing.T) {
	r := New(WithCommand("false"))
	issues := r.Check(context.Background(), "file.py")
	assert.Empty(t, issues)
}

func TestCancelledContextYieldsNoIssues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(WithTimeout(time.Second))
	assert.Empty(t, r.Check(ctx, "file.py"))
}

func TestTimeoutDiscardsPartialOutput(t *testing.T) {
	// A checker that reports an issue and then hangs must not leak the
	// partial output past the timeout, and the call itself must return
	// promptly.
	script := filepath.Join(t.TempDir(), "slow-linter")
	content := "#!/bin/sh\necho 'file.py:1:1: E999 unfinished'\nsleep 5\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0o755))

	r := New(WithCommand(script), WithTimeout(200*time.Millisecond))
	start := time.Now()
	issues := r.Check(context.Background(), "file.py")

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}
