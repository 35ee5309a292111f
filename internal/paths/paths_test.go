package paths

import (
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	t.Setenv("EZRTA_TOOLS_DIR", "")

	p, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.ToolsDir != defaultToolsDir {
		t.Errorf("ToolsDir = %q, want %q", p.ToolsDir, defaultToolsDir)
	}
	if p.ConfigFile != filepath.Join(p.Home, ".ezrta", "ezrta.yaml") {
		t.Errorf("unexpected config file %q", p.ConfigFile)
	}
	if p.TmuxConf != filepath.Join(p.Home, ".tmux.conf") {
		t.Errorf("unexpected tmux conf %q", p.TmuxConf)
	}
}

func TestResolveEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EZRTA_TOOLS_DIR", dir)

	p, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.ToolsDir != dir {
		t.Errorf("ToolsDir = %q, want %q", p.ToolsDir, dir)
	}
}

func TestResolveFlagBeatsEnv(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv("EZRTA_TOOLS_DIR", envDir)

	p, err := Resolve(flagDir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.ToolsDir != flagDir {
		t.Errorf("ToolsDir = %q, want %q", p.ToolsDir, flagDir)
	}
}

func TestToolDir(t *testing.T) {
	p := newHostPaths("/root", "/root/ez-rta-tools")
	got := p.ToolDir("pretender")
	want := filepath.Join("/root/ez-rta-tools", "pretender")
	if got != want {
		t.Errorf("ToolDir = %q, want %q", got, want)
	}
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()

	ok, err := DirExists(dir)
	if err != nil || !ok {
		t.Fatalf("DirExists(%s) = %v, %v", dir, ok, err)
	}
	ok, err = FileExists(dir)
	if err != nil || ok {
		t.Fatalf("FileExists on dir = %v, %v, want false", ok, err)
	}
	ok, err = FileExists(filepath.Join(dir, "missing"))
	if err != nil || ok {
		t.Fatalf("FileExists on missing = %v, %v, want false", ok, err)
	}
}
