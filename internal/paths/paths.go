package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultToolsDir = "/root/ez-rta-tools"

// HostPaths captures canonical locations ezrta reads and writes on the host.
type HostPaths struct {
	Home        string
	MetaDir     string
	ConfigFile  string
	LogsDir     string
	ToolsDir    string
	TmuxConf    string
	TmuxLogsDir string
	TPMDir      string
	ZshRC       string
	BashRC      string
}

// Resolve determines host paths from the user's home directory. The tools
// directory honours the optional --tools-dir flag, then the EZRTA_TOOLS_DIR
// environment variable, then the fixed default.
func Resolve(toolsFlag string) (HostPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return HostPaths{}, fmt.Errorf("detect user home: %w", err)
	}

	tools := defaultToolsDir
	if override := os.Getenv("EZRTA_TOOLS_DIR"); override != "" {
		tools = override
	}
	if toolsFlag != "" {
		tools = toolsFlag
	}
	tools, err = filepath.Abs(tools)
	if err != nil {
		return HostPaths{}, fmt.Errorf("resolve tools dir: %w", err)
	}

	return newHostPaths(home, tools), nil
}

func newHostPaths(home, tools string) HostPaths {
	metaDir := filepath.Join(home, ".ezrta")
	return HostPaths{
		Home:        home,
		MetaDir:     metaDir,
		ConfigFile:  filepath.Join(metaDir, "ezrta.yaml"),
		LogsDir:     filepath.Join(metaDir, "logs"),
		ToolsDir:    tools,
		TmuxConf:    filepath.Join(home, ".tmux.conf"),
		TmuxLogsDir: filepath.Join(home, "tmux-logs"),
		TPMDir:      filepath.Join(home, ".tmux", "plugins", "tpm"),
		ZshRC:       filepath.Join(home, ".zshrc"),
		BashRC:      filepath.Join(home, ".bashrc"),
	}
}

// EnsureMetaDirs creates the hidden .ezrta metadata directory and logs dir.
func (p HostPaths) EnsureMetaDirs() error {
	for _, dir := range []string{p.MetaDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureToolsDir makes sure the tools directory exists on disk.
func (p HostPaths) EnsureToolsDir() error {
	if err := os.MkdirAll(p.ToolsDir, 0o755); err != nil {
		return fmt.Errorf("create tools dir: %w", err)
	}
	return nil
}

// ToolDir returns the dedicated subdirectory for a managed tool.
func (p HostPaths) ToolDir(name string) string {
	return filepath.Join(p.ToolsDir, name)
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
