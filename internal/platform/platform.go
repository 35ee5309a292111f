package platform

import (
	"runtime"
	"strings"
)

// Spec is the canonical platform pair used for artifact URL templating.
type Spec struct {
	OS          string
	Arch        string
	ArchGuessed bool
}

// Linux reports whether the host OS is supported for artifact installs.
func (s Spec) Linux() bool {
	return s.OS == "linux"
}

// MapMachine maps a raw machine string to a canonical release architecture.
// Unknown machines default to x86_64 with the guessed flag set; this is a
// warning condition, not an error.
func MapMachine(machine string) (arch string, guessed bool) {
	switch machine {
	case "x86_64", "amd64":
		return "x86_64", false
	case "aarch64", "arm64":
		return "arm64", false
	}
	if strings.Contains(machine, "arm") {
		return "arm", false
	}
	return "x86_64", true
}

// Detect derives the platform spec from the running process. Callers
// re-derive it per install rather than caching.
func Detect() Spec {
	arch, guessed := MapMachine(runtime.GOARCH)
	return Spec{OS: runtime.GOOS, Arch: arch, ArchGuessed: guessed}
}
