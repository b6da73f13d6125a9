package devfs

import (
	"bytes"
	"testing"

	"github.com/nor-sfs/norfs/filesystem"
)

func TestFormatCreatesRootDirectory(t *testing.T) {
	fs := New()
	if err := fs.Format(); err != nil {
		t.Fatal(err)
	}
	stat, err := fs.InodeStat(fs.RootInode())
	if err != nil {
		t.Fatal(err)
	}
	if stat.Type != filesystem.TypeDir {
		t.Fatalf("root type = %v, want DIR", stat.Type)
	}
}

func TestDevNodeReadWrite(t *testing.T) {
	fs := New()
	if err := fs.Format(); err != nil {
		t.Fatal(err)
	}
	addr, err := fs.InodeCreate(0, filesystem.TypeDev)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("tty0")
	if _, err := fs.InodeWrite(addr, 0, want); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, len(want))
	n, err := fs.InodeRead(addr, 0, got)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(want) || !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got[:n], want)
	}
	stat, err := fs.InodeStat(addr)
	if err != nil {
		t.Fatal(err)
	}
	if stat.Type != filesystem.TypeDev {
		t.Fatalf("type = %v, want DEV", stat.Type)
	}
}

func TestInodeDeleteRemovesNode(t *testing.T) {
	fs := New()
	if err := fs.Format(); err != nil {
		t.Fatal(err)
	}
	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.InodeDelete(addr); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.InodeStat(addr); err == nil {
		t.Fatal("expected InodeStat to fail on a deleted address")
	}
}

func TestDumpsAreUnsupported(t *testing.T) {
	fs := New()
	if err := fs.Format(); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.DumpSuperblock(); err != filesystem.ErrNotSupported {
		t.Fatalf("DumpSuperblock err = %v, want ErrNotSupported", err)
	}
	if _, err := fs.DumpInode(fs.RootInode()); err != filesystem.ErrNotSupported {
		t.Fatalf("DumpInode err = %v, want ErrNotSupported", err)
	}
}
