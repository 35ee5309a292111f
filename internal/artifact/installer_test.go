package artifact

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ezrta/internal/execx"
)

func makeTarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		if err := tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(body)),
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func requireLinux(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("artifact installs are Linux-only")
	}
}

func TestInstallVerifiesExtractedBinary(t *testing.T) {
	requireLinux(t)
	archive := makeTarGz(t, map[string]string{
		"pretender": "#!/bin/sh\necho pretender\n",
		"LICENSE":   "license text",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	toolsDir := t.TempDir()
	def := testDefinition()
	def.Strategy = StrategyStatic
	def.URLTemplate = srv.URL + "/{version}/pretender_Linux_{arch}.tar.gz"

	ins := &Installer{ToolsDir: toolsDir}
	status, err := ins.Install(context.Background(), def)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !status.Installed {
		t.Fatalf("status = %+v, want installed", status)
	}

	binPath := filepath.Join(toolsDir, "pretender", "pretender")
	if status.Path != binPath {
		t.Errorf("path = %q, want %q", status.Path, binPath)
	}
	info, err := os.Stat(binPath)
	if err != nil {
		t.Fatalf("stat binary: %v", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Error("binary is not executable")
	}

	// The archive is removed after extraction regardless of outcome.
	if _, err := os.Stat(filepath.Join(toolsDir, "pretender", "pretender.tar.gz")); !os.IsNotExist(err) {
		t.Error("archive not cleaned up")
	}
}

func TestInstallMissingBinaryInArchiveFails(t *testing.T) {
	requireLinux(t)
	archive := makeTarGz(t, map[string]string{"README": "no binary here"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	def := testDefinition()
	def.Strategy = StrategyStatic
	def.URLTemplate = srv.URL + "/{version}/pretender_Linux_{arch}.tar.gz"

	ins := &Installer{ToolsDir: t.TempDir()}
	status, err := ins.Install(context.Background(), def)
	if err == nil {
		t.Fatal("expected error when executable is absent after extraction")
	}
	if status.Installed {
		t.Errorf("status = %+v, want not installed", status)
	}
}

func TestInstallDownloadFailureStops(t *testing.T) {
	requireLinux(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	def := testDefinition()
	def.Strategy = StrategyStatic
	def.URLTemplate = srv.URL + "/{version}/pretender_Linux_{arch}.tar.gz"

	toolsDir := t.TempDir()
	ins := &Installer{ToolsDir: toolsDir}
	status, err := ins.Install(context.Background(), def)
	if err == nil {
		t.Fatal("expected download failure")
	}
	if status.Installed {
		t.Errorf("status = %+v, want not installed", status)
	}
}

func TestInstallReinstallOverwritesInPlace(t *testing.T) {
	requireLinux(t)
	archive := makeTarGz(t, map[string]string{"pretender": "v2"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	toolsDir := t.TempDir()
	def := testDefinition()
	def.Strategy = StrategyStatic
	def.URLTemplate = srv.URL + "/{version}/pretender_Linux_{arch}.tar.gz"

	ins := &Installer{ToolsDir: toolsDir}
	for i := 0; i < 2; i++ {
		if _, err := ins.Install(context.Background(), def); err != nil {
			t.Fatalf("install %d: %v", i+1, err)
		}
	}
	body, err := os.ReadFile(filepath.Join(toolsDir, "pretender", "pretender"))
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "v2" {
		t.Errorf("binary contents = %q", body)
	}
}

func TestEnsureRepoClonesWhenAbsent(t *testing.T) {
	toolsDir := t.TempDir()
	dest := filepath.Join(toolsDir, "dc-lookup")

	fake := &execx.FakeRunner{}
	// Simulate git creating the checkout.
	fakeClone := &cloningRunner{inner: fake, dest: dest}

	ins := &Installer{ToolsDir: toolsDir, Runner: fakeClone}
	status, err := ins.EnsureRepo(context.Background(), DCLookup())
	if err != nil {
		t.Fatalf("EnsureRepo: %v", err)
	}
	if !status.Installed || status.Path != dest {
		t.Errorf("status = %+v", status)
	}
	if !fake.CalledWith("git clone") {
		t.Errorf("clone not invoked: %v", fake.Calls)
	}
}

func TestEnsureRepoPullsWhenPresent(t *testing.T) {
	toolsDir := t.TempDir()
	dest := filepath.Join(toolsDir, "dc-lookup")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	fake := &execx.FakeRunner{}
	ins := &Installer{ToolsDir: toolsDir, Runner: fake}
	status, err := ins.EnsureRepo(context.Background(), DCLookup())
	if err != nil {
		t.Fatalf("EnsureRepo: %v", err)
	}
	if !status.Installed {
		t.Errorf("status = %+v", status)
	}
	if !fake.CalledWith("git -C "+dest+" pull") {
		t.Errorf("pull not invoked: %v", fake.Calls)
	}
	if fake.CalledWith("git clone") {
		t.Errorf("clone invoked on existing checkout: %v", fake.Calls)
	}
}

func TestCloneIfAbsentLeavesExistingUntouched(t *testing.T) {
	dest := t.TempDir()
	fake := &execx.FakeRunner{}

	cloned, err := CloneIfAbsent(context.Background(), fake, "https://example.com/tpm.git", dest)
	if err != nil {
		t.Fatalf("CloneIfAbsent: %v", err)
	}
	if cloned {
		t.Error("reported clone for existing directory")
	}
	if len(fake.Calls) != 0 {
		t.Errorf("unexpected commands: %v", fake.Calls)
	}
}

type cloningRunner struct {
	inner *execx.FakeRunner
	dest  string
}

func (c *cloningRunner) Run(ctx context.Context, command string, args []string, opts execx.RunOptions) (execx.RunResult, error) {
	if command == "git" && len(args) > 0 && args[0] == "clone" {
		if err := os.MkdirAll(c.dest, 0o755); err != nil {
			return execx.RunResult{}, err
		}
	}
	return c.inner.Run(ctx, command, args, opts)
}

func (c *cloningRunner) RunShell(ctx context.Context, script string, opts execx.RunOptions) (execx.RunResult, error) {
	return c.inner.RunShell(ctx, script, opts)
}
