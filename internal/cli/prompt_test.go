package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirmAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"", false}, // closed stdin
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := newPrompter(strings.NewReader(tt.input), &out)
		if got := p.confirm("Proceed?"); got != tt.want {
			t.Errorf("confirm with input %q = %t, want %t", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "[y/N]") {
			t.Errorf("prompt missing default marker: %q", out.String())
		}
	}
}

func TestConfirmConsumesInputInOrder(t *testing.T) {
	p := newPrompter(strings.NewReader("y\nn\ny\n"), &bytes.Buffer{})
	want := []bool{true, false, true}
	for i, w := range want {
		if got := p.confirm("?"); got != w {
			t.Errorf("answer %d = %t, want %t", i, got, w)
		}
	}
}

func TestLineTrimsAnswer(t *testing.T) {
	p := newPrompter(strings.NewReader("  CIPT  \n"), &bytes.Buffer{})
	if got := p.line("Component"); got != "CIPT" {
		t.Errorf("line() = %q, want CIPT", got)
	}
}

func TestParseSkipSelection(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  []int
	}{
		{"", 5, nil},
		{"1 3", 5, []int{1, 3}},
		{"2 2 2", 5, []int{2}},
		{"0 6 abc 4", 5, []int{4}},
		{"  1\t5 ", 5, []int{1, 5}},
	}
	for _, tt := range tests {
		got := parseSkipSelection(tt.input, tt.max)
		if len(got) != len(tt.want) {
			t.Errorf("parseSkipSelection(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for _, n := range tt.want {
			if !got[n] {
				t.Errorf("parseSkipSelection(%q) missing %d", tt.input, n)
			}
		}
	}
}

func TestDecisionsDefaultToNo(t *testing.T) {
	p := newPrompter(strings.NewReader(""), &bytes.Buffer{})
	d := p.decisions()
	if d.InstallMissing.Ask("install?") {
		t.Error("exhausted input answered yes")
	}
}
