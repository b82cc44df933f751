package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestMemoryFileSystem_CreateAndOpen(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/created.txt")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("created content")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := mfs.Open("/created.txt")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "created content" {
		t.Errorf("expected 'created content', got %q", data)
	}
}

func TestMemoryFileSystem_OpenNonExistent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.Open("/nonexistent.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_Rename(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/a.txt", []byte("a"))

	if err := mfs.Rename("/a.txt", "/b.txt"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if mfs.Exists("/a.txt") {
		t.Error("old path should be gone")
	}
	data, err := mfs.ReadFile("/b.txt")
	if err != nil || string(data) != "a" {
		t.Errorf("ReadFile(/b.txt) = %q, %v", data, err)
	}
	if err := mfs.Rename("/missing", "/c"); err == nil {
		t.Error("expected error renaming missing file")
	}
}

func TestMemoryFileSystem_RemoveAll(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.MkdirAll("/stage/frames", 0755)
	mfs.WriteFile("/stage/frames/000.png", []byte{1})
	mfs.WriteFile("/stage/frames/001.png", []byte{2})
	mfs.WriteFile("/keep.txt", []byte{3})

	if err := mfs.RemoveAll("/stage"); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if got := mfs.Files(); len(got) != 1 || got[0] != "/keep.txt" {
		t.Errorf("Files() = %v, want [/keep.txt]", got)
	}
	if mfs.Exists("/stage/frames") {
		t.Error("directory should be removed")
	}
}

func TestWriteAtomic_Success(t *testing.T) {
	mfs := NewMemoryFileSystem()

	err := WriteAtomic(mfs, "/out/plot.png", func(w io.Writer) error {
		_, err := w.Write([]byte("png"))
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	if got := mfs.Files(); len(got) != 1 || got[0] != "/out/plot.png" {
		t.Errorf("Files() = %v, want only the final path", got)
	}
}

func TestWriteAtomic_FailureLeavesNothing(t *testing.T) {
	mfs := NewMemoryFileSystem()
	boom := errors.New("encoder exploded")

	err := WriteAtomic(mfs, "/out/worm.gif", func(w io.Writer) error {
		w.Write([]byte("half a gif"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(mfs.Files()) != 0 {
		t.Errorf("expected no files, got %v", mfs.Files())
	}
}

func TestWriteAtomic_OSFileSystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	err := WriteAtomic(OSFileSystem{}, path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
	if _, err := os.Stat(path + ".partial"); !os.IsNotExist(err) {
		t.Errorf("temporary file should not remain: %v", err)
	}
}
