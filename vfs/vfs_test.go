package vfs

import (
	"bytes"
	"testing"

	"github.com/nor-sfs/norfs/backend/memory"
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem/sfs"
)

const (
	testSectorSize = 4096
	testWriteSize  = 256
	testTotalSize  = int64(testSectorSize) * 64
)

func newMountedSFS(t *testing.T, name, target string, v *VFS) *sfs.FS {
	t.Helper()
	dev, err := memory.New(name, testTotalSize, testSectorSize, testWriteSize)
	if err != nil {
		t.Fatal(err)
	}
	fs := sfs.New(dev)
	if err := fs.Format(); err != nil {
		t.Fatal(err)
	}
	if err := v.Mount(dev, target, fs); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestFormatCreateReadRoundTrip(t *testing.T) {
	v := New()
	newMountedSFS(t, "root", "/", v)

	if err := v.Mkdir("/a"); err != nil {
		t.Fatal(err)
	}
	fd, err := v.Open("/a/f", OCreat)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Write(fd, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := v.Close(fd); err != nil {
		t.Fatal(err)
	}

	fd2, err := v.Open("/a/f", 0)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 5)
	n, err := v.Read(fd2, buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || string(buf) != "hello" {
		t.Fatalf("got %q, want %q", buf[:n], "hello")
	}
}

func TestOpenCreateExistingDoesNotTruncate(t *testing.T) {
	v := New()
	newMountedSFS(t, "root", "/", v)

	fd, err := v.Open("/f", OCreat)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Write(fd, []byte("data")); err != nil {
		t.Fatal(err)
	}
	if err := v.Close(fd); err != nil {
		t.Fatal(err)
	}

	fd2, err := v.Open("/f", OCreat)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4)
	n, err := v.Read(fd2, buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 || string(buf) != "data" {
		t.Fatal("O_CREAT on an existing path truncated or lost content")
	}
}

func TestMountPointShadowing(t *testing.T) {
	v := New()
	newMountedSFS(t, "root", "/", v)
	if err := v.Mkdir("/dev"); err != nil {
		t.Fatal(err)
	}

	devDevice, err := memory.New("dev", testTotalSize, testSectorSize, testWriteSize)
	if err != nil {
		t.Fatal(err)
	}
	devFS := sfs.New(devDevice)
	if err := devFS.Format(); err != nil {
		t.Fatal(err)
	}
	if err := v.Mount(devDevice, "/dev", devFS); err != nil {
		t.Fatal(err)
	}
	if err := v.Mkdir("/dev/x"); err != nil {
		t.Fatal(err)
	}

	names, err := v.Lsdir("/dev")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "x" {
		t.Fatalf("lsdir(/dev) = %v, want [x]", names)
	}

	if err := v.Umount("/dev"); err != nil {
		t.Fatal(err)
	}
	names, err = v.Lsdir("/dev")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Fatalf("lsdir(/dev) after umount = %v, want empty (root fs never saw /dev/x)", names)
	}
}

func TestUnlinkRefusesMountPoint(t *testing.T) {
	v := New()
	newMountedSFS(t, "root", "/", v)
	if err := v.Mkdir("/dev"); err != nil {
		t.Fatal(err)
	}
	devDevice, err := memory.New("dev", testTotalSize, testSectorSize, testWriteSize)
	if err != nil {
		t.Fatal(err)
	}
	devFS := sfs.New(devDevice)
	if err := devFS.Format(); err != nil {
		t.Fatal(err)
	}
	if err := v.Mount(devDevice, "/dev", devFS); err != nil {
		t.Fatal(err)
	}
	if err := v.Unlink("/dev"); err != ferr.ErrIsMountPoint {
		t.Fatalf("Unlink(/dev) = %v, want ErrIsMountPoint", err)
	}
}

func TestMkdirUnlinkRoundTrip(t *testing.T) {
	v := New()
	newMountedSFS(t, "root", "/", v)
	if err := v.Mkdir("/a"); err != nil {
		t.Fatal(err)
	}
	names, err := v.Lsdir("/")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "a" {
		t.Fatalf("lsdir(/) = %v, want [a]", names)
	}
	if err := v.Unlink("/a"); err != nil {
		t.Fatal(err)
	}
	names, err = v.Lsdir("/")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Fatalf("lsdir(/) after unlink = %v, want empty", names)
	}
}

func TestCdDotDotAtRootIsNoop(t *testing.T) {
	v := New()
	newMountedSFS(t, "root", "/", v)
	if v.Cwd() != "/" {
		t.Fatalf("initial cwd = %q, want /", v.Cwd())
	}
	if err := v.Cd(".."); err != nil {
		t.Fatal(err)
	}
	if v.Cwd() != "/" {
		t.Fatalf("cwd after cd(..) at root = %q, want / (unchanged)", v.Cwd())
	}
}

func TestDescriptorExhaustion(t *testing.T) {
	v := New()
	newMountedSFS(t, "root", "/", v)

	var fds []int
	for i := 0; i < FDMax; i++ {
		fd, err := v.Open("/f"+string(rune('a'+i)), OCreat)
		if err != nil {
			t.Fatalf("open %d failed: %v", i, err)
		}
		fds = append(fds, fd)
	}
	if _, err := v.Open("/overflow", OCreat); err != ferr.ErrRunOutOfFD {
		t.Fatalf("open past FDMax = %v, want ErrRunOutOfFD", err)
	}
	if err := v.Close(fds[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Open("/overflow", OCreat); err != nil {
		t.Fatalf("open after close = %v, want success", err)
	}
}

func TestCrossSectorWriteThroughVFS(t *testing.T) {
	v := New()
	newMountedSFS(t, "root", "/", v)
	fd, err := v.Open("/big", OCreat)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]byte, 5000)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	if _, err := v.Write(fd, data); err != nil {
		t.Fatal(err)
	}
	if err := v.Close(fd); err != nil {
		t.Fatal(err)
	}

	fd2, err := v.Open("/big", 0)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]byte, len(data))
	n, err := v.Read(fd2, out)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) || !bytes.Equal(out, data) {
		t.Fatal("cross-sector content mismatch through the VFS layer")
	}
}
