package nginx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nginxadmin/backend/internal/metrics"
)

// DefaultCommandTimeout bounds how long a test/reload script may block the
// calling request.
const DefaultCommandTimeout = 30 * time.Second

// failedCommandSentinel is reported as the command when the invocation never
// got as far as producing process output.
const failedCommandSentinel = "Command execution failed"

// ScriptRunner executes operator-supplied shell scripts against the host.
// The script text is opaque; it is written to a uniquely named temp file,
// executed via bash and cleaned up afterwards. Success is judged by the
// absence of stderr output, not the exit code. nginx writes its diagnostics to
// stderr even on success, so "test is successful" on stderr also counts as a
// pass. The exit code is reported alongside for callers that want it.
type ScriptRunner struct {
	timeout time.Duration
}

// NewScriptRunner creates a runner; a non-positive timeout falls back to
// DefaultCommandTimeout.
func NewScriptRunner(timeout time.Duration) *ScriptRunner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &ScriptRunner{timeout: timeout}
}

// Run writes the script to a temp file, executes it and reports the outcome.
// Failures of any kind become a structured result, never an error: command
// failure is an expected operational outcome.
func (r *ScriptRunner) Run(ctx context.Context, script string) CommandResult {
	scriptPath := filepath.Join(os.TempDir(), fmt.Sprintf("nginx-cmd-%s.sh", uuid.NewString()))

	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		metrics.IncCommandRun(false)
		return executionFailure(err)
	}
	// Best effort cleanup; a leftover temp script is not fatal.
	defer func() { _ = os.Remove(scriptPath) }()

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "bash", scriptPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		metrics.IncCommandRun(false)
		return executionFailure(fmt.Errorf("command timed out after %s", r.timeout))
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The script ran and exited non-zero; its streams were
			// captured, so report them instead of a generic failure.
			exitCode = exitErr.ExitCode()
		} else {
			metrics.IncCommandRun(false)
			return executionFailure(err)
		}
	}

	out := stdout.String()
	errOut := stderr.String()

	logs := out
	if errOut != "" {
		logs = out + "\n" + errOut
	}

	success := strings.TrimSpace(errOut) == "" || strings.Contains(errOut, "test is successful")

	result := CommandResult{
		Success:  success,
		Output:   out,
		Logs:     logs,
		Command:  script,
		ExitCode: exitCode,
	}
	if errOut != "" {
		result.Error = errOut
	}

	metrics.IncCommandRun(success)
	return result
}

func executionFailure(err error) CommandResult {
	msg := err.Error()
	return CommandResult{
		Success:  false,
		Output:   "",
		Error:    msg,
		Logs:     "Error: " + msg,
		Command:  failedCommandSentinel,
		ExitCode: -1,
	}
}
