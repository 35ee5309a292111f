package platform

import "testing"

func TestMapMachine(t *testing.T) {
	tests := []struct {
		machine string
		arch    string
		guessed bool
	}{
		{"x86_64", "x86_64", false},
		{"amd64", "x86_64", false},
		{"aarch64", "arm64", false},
		{"arm64", "arm64", false},
		{"armv7l", "arm", false},
		{"armhf", "arm", false},
		{"riscv64", "x86_64", true},
		{"", "x86_64", true},
	}

	for _, tt := range tests {
		arch, guessed := MapMachine(tt.machine)
		if arch != tt.arch || guessed != tt.guessed {
			t.Errorf("MapMachine(%q) = (%q, %v), want (%q, %v)",
				tt.machine, arch, guessed, tt.arch, tt.guessed)
		}
	}
}

func TestDetectNeverEmpty(t *testing.T) {
	spec := Detect()
	if spec.OS == "" || spec.Arch == "" {
		t.Errorf("Detect returned empty field: %+v", spec)
	}
}
