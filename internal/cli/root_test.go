package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCommand executes the root command against an isolated home directory
// and returns its combined output.
func runCommand(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("EZRTA_TOOLS_DIR", filepath.Join(home, "tools"))

	toolsDirFlag = ""
	outputJSON = false
	assumeYes = false
	noProgress = false

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToolsListReportsUninstalledTools(t *testing.T) {
	home := t.TempDir()
	output, err := runCommand(t, home, "tools", "list", "--json")
	if err != nil {
		t.Fatalf("tools list: %v\n%s", err, output)
	}

	var rows []toolRow
	if err := json.Unmarshal([]byte(output), &rows); err != nil {
		t.Fatalf("unmarshal output: %v\n%s", err, output)
	}

	byName := map[string]toolRow{}
	for _, row := range rows {
		byName[row.Name] = row
	}
	pretender, ok := byName["pretender"]
	if !ok {
		t.Fatalf("pretender missing from %v", rows)
	}
	if pretender.Installed {
		t.Error("pretender reported installed on a fresh host")
	}
	if pretender.Version != "latest" {
		t.Errorf("pretender version = %q, want latest (no pin configured)", pretender.Version)
	}
	if _, ok := byName["dc-lookup"]; !ok {
		t.Errorf("dc-lookup missing from %v", rows)
	}
}

func TestToolsListHonoursVersionPin(t *testing.T) {
	home := t.TempDir()
	writeTestConfig(t, home, "version: 1\ntools:\n  pretender:\n    version: v1.2.0\n")

	output, err := runCommand(t, home, "tools", "list", "--json")
	if err != nil {
		t.Fatalf("tools list: %v\n%s", err, output)
	}

	var rows []toolRow
	if err := json.Unmarshal([]byte(output), &rows); err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		if row.Name == "pretender" && row.Version != "v1.2.0" {
			t.Errorf("pinned version = %q, want v1.2.0", row.Version)
		}
	}
}

func TestToolsInstallRejectsUnknownTool(t *testing.T) {
	home := t.TempDir()
	_, err := runCommand(t, home, "tools", "install", "nonesuch", "--json")
	if err == nil || !strings.Contains(err.Error(), "nonesuch") {
		t.Fatalf("err = %v, want unknown tool error", err)
	}
}

func TestStatusReportsFreshHost(t *testing.T) {
	home := t.TempDir()
	output, err := runCommand(t, home, "status", "--json")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, output)
	}

	var checks []hostCheck
	if err := json.Unmarshal([]byte(output), &checks); err != nil {
		t.Fatalf("unmarshal output: %v\n%s", err, output)
	}

	found := map[string]bool{}
	for _, check := range checks {
		found[check.Name] = true
		if check.OK {
			t.Errorf("check %q reported OK on a fresh host", check.Name)
		}
	}
	for _, want := range []string{"tools directory", "pretender", "dc-lookup", "tmux configuration", "config file"} {
		if !found[want] {
			t.Errorf("check %q missing from report", want)
		}
	}
}

func TestEngagementNewCreatesDirectoryLayout(t *testing.T) {
	home := t.TempDir()
	engRoot := filepath.Join(home, "engagements")
	writeTestConfig(t, home, "version: 1\nengagement:\n  root: "+engRoot+"\n")

	output, err := runCommand(t, home,
		"engagement", "new", "--yes", "--no-session", "--json",
		"--component", "CIPT", "--quarter", "Q3", "--initials", "MB", "--year", "2024")
	if err != nil {
		t.Fatalf("engagement new: %v\n%s", err, output)
	}

	var result struct {
		Directory string `json:"directory"`
		Session   string `json:"session"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("unmarshal output: %v\n%s", err, output)
	}
	if want := filepath.Join(engRoot, "CIPT-Q3-2024-MB"); result.Directory != want {
		t.Errorf("directory = %q, want %q", result.Directory, want)
	}
	if result.Session != "" {
		t.Errorf("session created despite --no-session: %q", result.Session)
	}

	for _, sub := range []string{"nmap", "hosts", "nxc", "loot", "web"} {
		info, err := os.Stat(filepath.Join(result.Directory, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("subdir %s missing: %v", sub, err)
		}
	}
}

func TestSetupRefusesNonRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root")
	}
	home := t.TempDir()
	_, err := runCommand(t, home, "setup")
	if err == nil {
		t.Fatal("setup ran without root")
	}
}

func writeTestConfig(t *testing.T, home, contents string) {
	t.Helper()
	metaDir := filepath.Join(home, ".ezrta")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(metaDir, "ezrta.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
