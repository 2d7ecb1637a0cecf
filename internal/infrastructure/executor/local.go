// Package executor runs single commands on the local host and turns every
// outcome, including launch failures, into a domain.ExecutionResult.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/rs/zerolog"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the direct child has exited or been killed.
const waitDelay = 2 * time.Second

var (
	shellOperators = []string{"|", "&&", "||", ";", ">", "<", "$(", "`"}

	aptWarningRe = regexp.MustCompile(`(?i)^WARNING: apt does not have a stable CLI interface\.`)

	pagerEnv = []string{"SYSTEMD_PAGER=cat", "SYSTEMD_LESS=FRSXMK"}
)

// LocalExecutor runs commands on the host, either directly or through a
// login shell when the text uses shell syntax.
type LocalExecutor struct {
	shell   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewLocalExecutor builds a new executor. An empty shell defaults to bash;
// a zero timeout lets children run until they exit.
func NewLocalExecutor(shell string, timeout time.Duration, log zerolog.Logger) *LocalExecutor {
	if shell == "" {
		shell = domain.DefaultShell
	}
	return &LocalExecutor{shell: shell, timeout: timeout, log: log}
}

// Normalize disables pagers on the status commands that page by default.
// Applying it twice yields the same text.
func Normalize(command string) string {
	c := strings.TrimSpace(command)
	if strings.HasPrefix(c, "systemctl status ") && !strings.Contains(c, "--no-pager") {
		c += " --no-pager --full"
	}
	if strings.HasPrefix(c, "journalctl ") && !strings.Contains(c, "--no-pager") {
		c += " --no-pager"
	}
	return c
}

// NeedsShell reports whether the command uses pipes, redirection, command
// lists or substitution and therefore has to go through an interpreter.
func NeedsShell(command string) bool {
	for _, op := range shellOperators {
		if strings.Contains(command, op) {
			return true
		}
	}
	return false
}

// ScrubStderr drops known benign warning lines.
func ScrubStderr(stderr string) string {
	var kept []string
	for _, line := range strings.Split(stderr, "\n") {
		if aptWarningRe.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Execute implements ports.CommandExecutor.
func (e *LocalExecutor) Execute(ctx context.Context, command string) domain.ExecutionResult {
	command = Normalize(command)
	result := domain.ExecutionResult{Command: command}
	if command == "" {
		result.ExitCode = domain.ExitFailure
		result.Stderr = "alex: empty command"
		return result
	}

	viaShell := NeedsShell(command)
	var argv []string
	if viaShell {
		argv = []string{e.shell, "-lc", command}
	} else {
		args, err := shlex.Split(command)
		if err != nil || len(args) == 0 {
			result.ExitCode = domain.ExitFailure
			result.Stderr = fmt.Sprintf("alex: failed to run command: cannot split %q: %v", command, err)
			return result
		}
		argv = args
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	c.Env = append(os.Environ(), pagerEnv...)
	c.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	result.DurationMS = time.Since(start).Milliseconds()
	result.Stdout = stdout.String()
	result.Stderr = ScrubStderr(stderr.String())

	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		result.ExitCode = domain.ExitTimeout
		result.Stderr = appendLine(result.Stderr, fmt.Sprintf("alex: command timed out after %s", e.timeout))
	case ctx.Err() != nil:
		result.ExitCode = domain.ExitFailure
		result.Stderr = appendLine(result.Stderr, fmt.Sprintf("alex: command interrupted: %v", ctx.Err()))
	case isNotFound(err):
		result.ExitCode = domain.ExitCommandNotFound
		result.Stdout = ""
		result.Stderr = fmt.Sprintf("alex: %s: command not found", argv[0])
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = domain.ExitFailure
			result.Stderr = appendLine(result.Stderr, fmt.Sprintf("alex: failed to run command: %v", err))
		}
	}

	e.log.Debug().
		Str("command", command).
		Bool("shell", viaShell).
		Int("exit_code", result.ExitCode).
		Int64("duration_ms", result.DurationMS).
		Msg("command finished")
	return result
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

func appendLine(text, line string) string {
	if text == "" {
		return line
	}
	return text + "\n" + line
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
