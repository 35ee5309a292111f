package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirName(t *testing.T) {
	d := Descriptor{Component: "CIPT", Quarter: "Q3", Initials: "MB", Year: "2024"}
	if got, want := d.DirName(), "CIPT-Q3-2024-MB"; got != want {
		t.Errorf("DirName() = %q, want %q", got, want)
	}
}

func TestCreateDirsBuildsLayout(t *testing.T) {
	root := t.TempDir()
	p := &Provisioner{Root: root}

	dir, err := p.CreateDirs(Descriptor{Component: "TIPT", Quarter: "Q1", Initials: "AB", Year: "2026"})
	if err != nil {
		t.Fatalf("CreateDirs: %v", err)
	}
	if want := filepath.Join(root, "TIPT-Q1-2026-AB"); dir != want {
		t.Errorf("dir = %q, want %q", dir, want)
	}

	for _, sub := range DefaultSubdirs {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("subdir %s missing: %v", sub, err)
		}
	}
}

func TestCreateDirsIsIdempotent(t *testing.T) {
	root := t.TempDir()
	p := &Provisioner{Root: root}
	d := Descriptor{Component: "CPPT", Quarter: "Q2", Initials: "XY", Year: "2026"}

	dir, err := p.CreateDirs(d)
	if err != nil {
		t.Fatalf("first CreateDirs: %v", err)
	}
	marker := filepath.Join(dir, "loot", "creds.txt")
	if err := os.WriteFile(marker, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := p.CreateDirs(d); err != nil {
		t.Fatalf("second CreateDirs: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("re-run disturbed existing content: %v", err)
	}
}

func TestCreateDirsDefaultsYear(t *testing.T) {
	p := &Provisioner{Root: t.TempDir()}
	dir, err := p.CreateDirs(Descriptor{Component: "TIPT", Quarter: "Q4", Initials: "ZZ"})
	if err != nil {
		t.Fatalf("CreateDirs: %v", err)
	}
	want := "TIPT-Q4-" + CurrentYear() + "-ZZ"
	if filepath.Base(dir) != want {
		t.Errorf("dir = %q, want base %q", dir, want)
	}
}

func TestCreateDirsRejectsEmptyFields(t *testing.T) {
	p := &Provisioner{Root: t.TempDir()}
	if _, err := p.CreateDirs(Descriptor{Component: "TIPT"}); err == nil {
		t.Error("expected error for missing quarter and initials")
	}
}
