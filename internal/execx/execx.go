package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// RunOptions adjusts how a command is executed.
type RunOptions struct {
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult carries captured output and the process exit code.
type RunResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ExitError reports a command that ran but exited non-zero. Captured output
// is retained for post-mortem logging.
type ExitError struct {
	Command  string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
	if detail := strings.TrimSpace(string(e.Stderr)); detail != "" {
		msg += ": " + firstLine(detail)
	}
	return msg
}

// StatusLogger receives one line per command invocation.
type StatusLogger interface {
	Printf(format string, v ...any)
}

// Runner executes external commands. Run takes an explicit argv so paths and
// versions never pass through shell quoting; RunShell exists for probe
// commands that deliberately rely on shell features such as pipes.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
	RunShell(ctx context.Context, script string, opts RunOptions) (RunResult, error)
}

// CmdRunner is the production Runner backed by os/exec.
type CmdRunner struct {
	Log StatusLogger
}

func (r CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	display := command
	if len(args) > 0 {
		display += " " + strings.Join(args, " ")
	}
	return r.run(ctx, exec.CommandContext(ctx, command, args...), display, opts)
}

func (r CmdRunner) RunShell(ctx context.Context, script string, opts RunOptions) (RunResult, error) {
	return r.run(ctx, exec.CommandContext(ctx, "sh", "-c", script), script, opts)
}

func (r CmdRunner) run(ctx context.Context, cmd *exec.Cmd, display string, opts RunOptions) (RunResult, error) {
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	stdoutWriter := io.Writer(&stdoutBuf)
	if opts.Stdout != nil {
		stdoutWriter = io.MultiWriter(&stdoutBuf, opts.Stdout)
	}
	stderrWriter := io.Writer(&stderrBuf)
	if opts.Stderr != nil {
		stderrWriter = io.MultiWriter(&stderrBuf, opts.Stderr)
	}

	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	err := cmd.Run()
	result := RunResult{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.logf("command failed (exit %d): %s", result.ExitCode, display)
			return result, &ExitError{
				Command:  display,
				ExitCode: result.ExitCode,
				Stdout:   result.Stdout,
				Stderr:   result.Stderr,
			}
		}
		r.logf("command error: %s: %v", display, err)
		return result, fmt.Errorf("run %q: %w", display, err)
	}

	r.logf("command ok: %s", display)
	return result, nil
}

func (r CmdRunner) logf(format string, v ...any) {
	if r.Log != nil {
		r.Log.Printf(format, v...)
	}
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

var _ Runner = CmdRunner{}
