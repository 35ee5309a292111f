package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ezrta/internal/deps"
)

// prompter reads operator answers from a shared scanner so multi-question
// flows consume input in order. Every confirmation defaults to no; an
// unreadable or unrecognized answer is a refusal.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	if !p.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

// line asks a free-form question and returns the trimmed answer.
func (p *prompter) line(prompt string) string {
	fmt.Fprintf(p.out, "%s: ", prompt)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

func (p *prompter) decisions() deps.Decisions {
	return deps.Decisions{
		InstallMissing:              p.confirm,
		ContinueWithoutInstall:      p.confirm,
		ContinueStillMissing:        p.confirm,
		ContinueBelowMinimum:        p.confirm,
		ContinueAfterUpdateFailure:  p.confirm,
		ApplyUpgrades:               p.confirm,
		ContinueAfterUpgradeFailure: p.confirm,
	}
}

// parseSkipSelection turns a whitespace-separated list of menu numbers into
// a skip set. Tokens that are not numbers in [1, max] are ignored, matching
// the forgiving behaviour operators expect from a quick menu.
func parseSkipSelection(input string, max int) map[int]bool {
	skipped := make(map[int]bool)
	for _, token := range strings.Fields(input) {
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > max {
			continue
		}
		skipped[n] = true
	}
	return skipped
}
