package shell

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestOutputReturnsStdout(t *testing.T) {
	requireShell(t)

	out, err := NewRunner(time.Second).Output(context.Background(), "sh", "-c", "echo hello; echo noise >&2")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestOutputReportsExitStatus(t *testing.T) {
	requireShell(t)

	_, err := NewRunner(time.Second).Output(context.Background(), "sh", "-c", "echo 'interface en9 does not exist' >&2; exit 1")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "sh", exitErr.Command)
	assert.Equal(t, "interface en9 does not exist", exitErr.Stderr)
}

func TestOutputMissingBinary(t *testing.T) {
	_, err := NewRunner(time.Second).Output(context.Background(), "produce-no-such-binary")
	require.Error(t, err)

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestOutputTimeout(t *testing.T) {
	requireShell(t)

	_, err := NewRunner(50*time.Millisecond).Output(context.Background(), "sh", "-c", "exec sleep 2")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRunnerDefaultsTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewRunner(0).timeout)
}
