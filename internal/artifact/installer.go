package artifact

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"ezrta/internal/execx"
	"ezrta/internal/platform"
)

// ErrUnsupportedPlatform indicates a non-Linux host; fatal for the affected
// install only, not for the whole run.
var ErrUnsupportedPlatform = errors.New("unsupported operating system")

// ProgressReporter receives per-tool status transitions.
type ProgressReporter interface {
	StatusChanged(name, status string)
}

// Installer downloads, extracts and verifies managed tools under ToolsDir.
type Installer struct {
	ToolsDir string
	Runner   execx.Runner
	Log      execx.StatusLogger
	Client   *http.Client
	APIBase  string
	Reporter ProgressReporter
}

// Install fetches the tool's release archive and unpacks it into the tool's
// dedicated subdirectory. Success is determined solely by the existence of
// the expected executable afterwards, not by the download or extract exit
// status.
func (ins *Installer) Install(ctx context.Context, def ToolDefinition) (Status, error) {
	status := Status{Tool: def.Name}

	spec := platform.Detect()
	if !spec.Linux() {
		status.Error = fmt.Sprintf("%s requires Linux, host reports %s", def.Name, spec.OS)
		return status, fmt.Errorf("%s: %w", def.Name, ErrUnsupportedPlatform)
	}
	if spec.ArchGuessed {
		status.Notes = append(status.Notes, fmt.Sprintf("unknown architecture, defaulting to %s", spec.Arch))
		ins.logf("unknown architecture, defaulting to %s", spec.Arch)
	}

	ins.report(def.Name, "resolving")
	release, notes := ins.ResolveRelease(ctx, def, spec.Arch)
	status.Version = release.Version
	status.Notes = append(status.Notes, notes...)
	for _, note := range notes {
		ins.logf("%s: %s", def.Name, note)
	}

	toolDir := filepath.Join(ins.ToolsDir, def.Name)
	if err := os.MkdirAll(toolDir, 0o755); err != nil {
		status.Error = err.Error()
		return status, fmt.Errorf("prepare tool dir: %w", err)
	}

	archivePath := filepath.Join(toolDir, def.Name+".tar.gz")
	ins.report(def.Name, "downloading")
	ins.logf("%s: download URL %s", def.Name, release.DownloadURL)
	if err := ins.download(ctx, archivePath, release.DownloadURL); err != nil {
		status.Error = err.Error()
		ins.report(def.Name, "failed")
		return status, fmt.Errorf("download %s: %w", def.Name, err)
	}

	ins.report(def.Name, "extracting")
	extractErr := extractTarGz(archivePath, toolDir)
	// Archive cleanup is best-effort and happens regardless of the extract
	// outcome; the existence check below is the correctness gate.
	_ = os.Remove(archivePath)

	binPath := filepath.Join(toolDir, def.Executable)
	if err := os.Chmod(binPath, 0o755); err != nil && extractErr == nil {
		status.Notes = append(status.Notes, fmt.Sprintf("chmod: %v", err))
	}

	if _, err := os.Stat(binPath); err != nil {
		if extractErr != nil {
			status.Error = fmt.Sprintf("extract failed: %v", extractErr)
		} else {
			status.Error = "executable not found after installation"
		}
		ins.report(def.Name, "failed")
		return status, fmt.Errorf("install %s: %s", def.Name, status.Error)
	}

	status.Path = binPath
	status.Installed = true
	ins.report(def.Name, "installed")
	ins.logf("%s %s installed at %s", def.Name, release.Version, binPath)
	return status, nil
}

func (ins *Installer) download(ctx context.Context, dest, downloadURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "ezrta/1.0")

	client := ins.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", downloadURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch %s: unexpected status %s", downloadURL, resp.Status)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "download-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}
	return nil
}

func extractTarGz(archivePath, dest string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}
		target := filepath.Join(dest, filepath.FromSlash(header.Name))
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("prepare file %s: %w", target, err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("create file %s: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("write file %s: %w", target, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close file %s: %w", target, err)
			}
		default:
			// Other entry types are skipped.
		}
	}
	return nil
}

func (ins *Installer) report(name, status string) {
	if ins.Reporter != nil {
		ins.Reporter.StatusChanged(name, status)
	}
}

func (ins *Installer) logf(format string, v ...any) {
	if ins.Log != nil {
		ins.Log.Printf(format, v...)
	}
}
