package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	if err := AppendToFile(p, "a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := AppendToFile(p, "c"); err != nil {
		t.Fatal(err)
	}
	bs, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != "a\nb\nc\n" {
		t.Errorf("unexpected contents %q", string(bs))
	}
}

func TestCleanDir(t *testing.T) {
	dir := t.TempDir()
	if err := WriteToFile(filepath.Join(dir, "keep.txt"), "x"); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0777); err != nil {
		t.Fatal(err)
	}
	if err := RemoveContents(dir, "keep.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep.txt")); err != nil {
		t.Errorf("expected keep.txt to be kept")
	}
	if _, err := os.Stat(filepath.Join(dir, "sub")); !os.IsNotExist(err) {
		t.Errorf("expected sub to be removed")
	}

	if err := CleanDir(dir); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an empty directory, got %d entries", len(entries))
	}

	fresh := filepath.Join(dir, "new", "nested")
	if err := CleanDir(fresh); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("expected the directory to be created")
	}
}
