package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ezrta/internal/execx"
)

// DefaultSubdirs is the working layout created inside every engagement
// directory.
var DefaultSubdirs = []string{"nmap", "hosts", "nxc", "loot", "web"}

// Descriptor identifies one engagement. Component, Quarter, and Initials are
// free-form operator input; naming conventions vary between teams, so no
// validation beyond non-emptiness is applied.
type Descriptor struct {
	Component string `json:"component"`
	Quarter   string `json:"quarter"`
	Initials  string `json:"initials"`
	Year      string `json:"year"`
}

// DirName renders the engagement directory name, component-quarter-year-initials.
func (d Descriptor) DirName() string {
	return fmt.Sprintf("%s-%s-%s-%s", d.Component, d.Quarter, d.Year, d.Initials)
}

func (d Descriptor) validate() error {
	if d.Component == "" || d.Quarter == "" || d.Initials == "" {
		return fmt.Errorf("component, quarter, and initials are all required")
	}
	return nil
}

// CurrentYear is the default when the operator leaves the year blank.
func CurrentYear() string {
	return strconv.Itoa(time.Now().Year())
}

// Provisioner creates engagement directories and their tmux sessions.
type Provisioner struct {
	Runner  execx.Runner
	Log     execx.StatusLogger
	Out     io.Writer
	Root    string
	Subdirs []string
}

// CreateDirs builds the engagement directory and its working subdirectories
// under the provisioner root. Existing directories are left as they are, so
// re-running for the same engagement is a no-op.
func (p *Provisioner) CreateDirs(d Descriptor) (string, error) {
	if err := d.validate(); err != nil {
		return "", err
	}
	if d.Year == "" {
		d.Year = CurrentYear()
	}

	subdirs := p.Subdirs
	if len(subdirs) == 0 {
		subdirs = DefaultSubdirs
	}

	dir := filepath.Join(p.Root, d.DirName())
	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", filepath.Join(dir, sub), err)
		}
	}

	p.printf("[+] Engagement directory structure created at %s\n", dir)
	return dir, nil
}

func (p *Provisioner) printf(format string, v ...any) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, format, v...)
	}
	if p.Log != nil {
		p.Log.Printf("%s", fmt.Sprintf(format, v...))
	}
}
