package execx

import (
	"context"
	"strings"
)

// FakeResponse scripts the outcome of one matched command.
type FakeResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// FakeRunner is a scripted Runner for tests. Responses are matched by the
// longest prefix of the rendered command line; unmatched commands succeed
// with empty output.
type FakeRunner struct {
	Responses map[string]FakeResponse
	Calls     []string
}

func (f *FakeRunner) Run(_ context.Context, command string, args []string, _ RunOptions) (RunResult, error) {
	display := command
	if len(args) > 0 {
		display += " " + strings.Join(args, " ")
	}
	return f.respond(display)
}

func (f *FakeRunner) RunShell(_ context.Context, script string, _ RunOptions) (RunResult, error) {
	return f.respond(script)
}

func (f *FakeRunner) respond(display string) (RunResult, error) {
	f.Calls = append(f.Calls, display)

	var (
		best    string
		matched bool
		resp    FakeResponse
	)
	for prefix, candidate := range f.Responses {
		if strings.HasPrefix(display, prefix) && len(prefix) > len(best) {
			best = prefix
			resp = candidate
			matched = true
		}
	}
	if !matched {
		return RunResult{}, nil
	}

	result := RunResult{
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}
	if resp.ExitCode != 0 {
		return result, &ExitError{
			Command:  display,
			ExitCode: resp.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}
	return result, nil
}

// CalledWith reports whether any recorded call starts with the given prefix.
func (f *FakeRunner) CalledWith(prefix string) bool {
	for _, call := range f.Calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

var _ Runner = (*FakeRunner)(nil)
