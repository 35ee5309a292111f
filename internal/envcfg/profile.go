package envcfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ezrta/internal/execx"
	"ezrta/internal/paths"
)

const pipxCompletionLine = `eval "$(register-python-argcomplete pipx)"`

// Registrar appends PATH and completion lines to shell profile files. The
// environment is an explicit snapshot so the check never depends on
// process-global state; the caller applies changes to the real environment
// at the boundary.
type Registrar struct {
	Environ     []string
	PrimaryRC   string
	SecondaryRC string
	Log         execx.StatusLogger
}

// NewRegistrar builds a registrar over the given environment snapshot with
// zsh as the primary profile and bash as the best-effort mirror.
func NewRegistrar(environ []string, p paths.HostPaths) *Registrar {
	return &Registrar{
		Environ:     environ,
		PrimaryRC:   p.ZshRC,
		SecondaryRC: p.BashRC,
	}
}

// EnsurePathEntry registers dir on PATH via the shell profiles. The primary
// rc file is created when absent; the secondary is touched only if it
// already exists. Appending is guarded by an exact-substring scan, so
// repeated runs insert the export line exactly once.
func (r *Registrar) EnsurePathEntry(dir string) (added bool, err error) {
	if r.pathContains(dir) {
		r.logf("%s already on PATH, skipping profile update", dir)
		return false, nil
	}

	line := fmt.Sprintf("export PATH=\"$PATH:%s\"", dir)

	primaryAdded, err := appendLineIfMissing(r.PrimaryRC, line, dir, true)
	if err != nil {
		return false, fmt.Errorf("update %s: %w", r.PrimaryRC, err)
	}
	if primaryAdded {
		r.logf("added %s to PATH in %s", dir, r.PrimaryRC)
	}

	secondaryAdded, err := appendLineIfMissing(r.SecondaryRC, line, dir, false)
	if err != nil {
		return primaryAdded, fmt.Errorf("update %s: %w", r.SecondaryRC, err)
	}
	if secondaryAdded {
		r.logf("added %s to PATH in %s", dir, r.SecondaryRC)
	}

	return primaryAdded || secondaryAdded, nil
}

// EnsurePipxCompletion appends the pipx argcomplete hook under the same
// duplicate-guard rule as PATH entries.
func (r *Registrar) EnsurePipxCompletion() error {
	if _, err := appendLineIfMissing(r.PrimaryRC, pipxCompletionLine, "register-python-argcomplete pipx", true); err != nil {
		return fmt.Errorf("update %s: %w", r.PrimaryRC, err)
	}
	if _, err := appendLineIfMissing(r.SecondaryRC, pipxCompletionLine, "register-python-argcomplete pipx", false); err != nil {
		return fmt.Errorf("update %s: %w", r.SecondaryRC, err)
	}
	return nil
}

// RegisterPipx performs the post-install follow-up for a freshly installed
// pipx: PATH registration for the user bin directory plus shell completion.
func (r *Registrar) RegisterPipx(home string) error {
	if _, err := r.EnsurePathEntry(filepath.Join(home, ".local", "bin")); err != nil {
		return err
	}
	return r.EnsurePipxCompletion()
}

func (r *Registrar) pathContains(dir string) bool {
	for _, entry := range r.Environ {
		value, ok := strings.CutPrefix(entry, "PATH=")
		if !ok {
			continue
		}
		for _, element := range strings.Split(value, ":") {
			if element == dir {
				return true
			}
		}
	}
	return false
}

func appendLineIfMissing(path, line, guard string, create bool) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
		if !create {
			return false, nil
		}
	}
	if strings.Contains(string(contents), guard) {
		return false, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, err
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "\n%s\n", line); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Registrar) logf(format string, v ...any) {
	if r.Log != nil {
		r.Log.Printf(format, v...)
	}
}
