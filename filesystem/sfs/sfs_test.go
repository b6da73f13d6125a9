package sfs

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/nor-sfs/norfs/backend/memory"
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
	"github.com/nor-sfs/norfs/testhelper"
)

func init() {
	sleep = func(time.Duration) {}
}

const (
	testSectorSize = 4096
	testWriteSize  = 256
	testTotalSize  = int64(testSectorSize) * 64
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	dev, err := memory.New("test", testTotalSize, testSectorSize, testWriteSize)
	require.NoError(t, err)
	fs := New(dev)
	require.NoError(t, fs.Format())
	return fs
}

func TestFormatCreatesRootDirectory(t *testing.T) {
	fs := newTestFS(t)
	require.NotZero(t, fs.RootInode(), "expected a non-zero root inode after Format")
	stat, err := fs.InodeStat(fs.RootInode())
	require.NoError(t, err)
	require.Equal(t, filesystem.TypeDir, stat.Type)
	require.NotZero(t, stat.Size, "expected root directory payload to hold at least a sentinel record")
}

func TestFormatTwiceLeavesFreeListsIdentical(t *testing.T) {
	dev, err := memory.New("test", testTotalSize, testSectorSize, testWriteSize)
	require.NoError(t, err)
	fs := New(dev)
	require.NoError(t, fs.Format())
	sb1, err := fs.DumpSuperblock()
	require.NoError(t, err)
	require.NoError(t, fs.Format())
	sb2, err := fs.DumpSuperblock()
	require.NoError(t, err)
	if diff := cmp.Diff(sb1, sb2); diff != "" {
		t.Fatalf("free lists diverged across two formats (-first +second):\n%s", diff)
	}
}

func TestInodeSetGetRoundTrip(t *testing.T) {
	fs := newTestFS(t)
	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	want := []byte("hello, nor-flash")
	require.NoError(t, fs.InodeSet(addr, want))
	got := make([]byte, len(want))
	n, err := fs.InodeGet(addr, got)
	require.NoError(t, err)
	require.Equal(t, len(want), n)
	require.True(t, bytes.Equal(got, want))
}

func TestInodeWriteReadRoundTrip(t *testing.T) {
	fs := newTestFS(t)
	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	data := make([]byte, 5000)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	n, err := fs.InodeWrite(addr, 0, data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	stat, err := fs.InodeStat(addr)
	require.NoError(t, err)
	dataPayloadSize := uint32(dataPayload(testSectorSize))
	wantAlloc := ceilDiv(uint32(len(data)), dataPayloadSize) * dataPayloadSize
	require.Equal(t, uint32(len(data)), stat.Size)
	info, err := fs.DumpInode(addr)
	require.NoError(t, err)
	require.Equal(t, wantAlloc, info.AllocSize)
	require.NotZero(t, info.Blocks[0], "expected both direct blocks populated for a 5000-byte file")
	require.NotZero(t, info.Blocks[1], "expected both direct blocks populated for a 5000-byte file")
	require.Zero(t, info.BlockIndirect, "expected no indirect block for a 5000-byte file at this geometry")

	out := make([]byte, len(data))
	rn, err := fs.InodeRead(addr, 0, out)
	require.NoError(t, err)
	require.Equal(t, len(data), rn)
	require.True(t, bytes.Equal(out, data), "read back data does not match what was written")
}

func TestInodeWriteIndirectAddressing(t *testing.T) {
	fs := newTestFS(t)
	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	data := make([]byte, 20000)
	for i := range data {
		data[i] = byte(i % 251)
	}
	_, err = fs.InodeWrite(addr, 0, data)
	require.NoError(t, err)

	info, err := fs.DumpInode(addr)
	require.NoError(t, err)
	dataPayloadSize := uint32(dataPayload(testSectorSize))
	wantAlloc := ceilDiv(uint32(len(data)), dataPayloadSize) * dataPayloadSize
	require.Equal(t, wantAlloc, info.AllocSize)
	require.NotZero(t, info.BlockIndirect, "expected an indirect block for a 20000-byte file at this geometry")

	out := make([]byte, len(data))
	n, err := fs.InodeRead(addr, 0, out)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.True(t, bytes.Equal(out, data), "read back data does not match what was written via indirect addressing")
}

func TestInodeReadPastEndReturnsZeroBytes(t *testing.T) {
	fs := newTestFS(t)
	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	require.NoError(t, fs.InodeSet(addr, []byte("abc")))
	buf := make([]byte, 10)
	n, err := fs.InodeRead(addr, 100, buf)
	require.NoError(t, err, "expected no error reading past end")
	require.Zero(t, n, "expected 0 bytes read past end")
}

func TestInodeWriteExtendsAtOffsetEqualToSize(t *testing.T) {
	fs := newTestFS(t)
	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	require.NoError(t, fs.InodeSet(addr, []byte("abc")))
	_, err = fs.InodeWrite(addr, 3, []byte("def"))
	require.NoError(t, err)
	out := make([]byte, 6)
	n, err := fs.InodeRead(addr, 0, out)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, "abcdef", string(out[:n]))
}

func TestInodeDeleteReturnsBlocksToFreeList(t *testing.T) {
	fs := newTestFS(t)
	before, err := fs.DumpSuperblock()
	require.NoError(t, err)

	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	_, err = fs.InodeWrite(addr, 0, make([]byte, 20000))
	require.NoError(t, err)
	info, err := fs.DumpInode(addr)
	require.NoError(t, err)
	require.NoError(t, fs.InodeDelete(addr))

	after, err := fs.DumpSuperblock()
	require.NoError(t, err)
	require.Equal(t, before.FreeInodes, after.FreeInodes, "free inode head should be the deleted slot")
	require.Equal(t, info.Blocks[0], after.FreeBlocks, "free block head should be the deleted file's first block")
	stat, err := fs.InodeStat(addr)
	require.NoError(t, err)
	require.Equal(t, filesystem.TypeEmpty, stat.Type)
}

func TestInodeStatWrongAddrRejected(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.InodeStat(1)
	require.Equal(t, ferr.ErrWrongAddr, err)
}

func TestResizeFailureLeavesInodeUnchanged(t *testing.T) {
	dev, err := memory.New("tiny", int64(testSectorSize)*17, testSectorSize, testWriteSize)
	require.NoError(t, err)
	fs := New(dev)
	require.NoError(t, fs.Format())

	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	before, err := fs.InodeStat(addr)
	require.NoError(t, err)

	huge := make([]byte, int(dev.TotalSize())*4)
	_, err = fs.InodeWrite(addr, 0, huge)
	require.Equal(t, ferr.ErrNoDataBlocks, err, "expected ErrNoDataBlocks exhausting the device")

	after, err := fs.InodeStat(addr)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("inode stat changed after a failed resize (-before +after):\n%s", diff)
	}
}

func TestCorruptionRetryRecoversFromSingleBitFlip(t *testing.T) {
	dev, err := memory.New("test", testTotalSize, testSectorSize, testWriteSize)
	require.NoError(t, err)
	stub := testhelper.NewStubDevice(dev)
	fs := New(stub)
	require.NoError(t, fs.Format())
	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	require.NoError(t, fs.InodeSet(addr, []byte("resilient")))

	flipped := false
	stub.ReadHook = func(readAddr uint32, data []byte, n int, err error) error {
		if err != nil || flipped || readAddr != addr {
			return err
		}
		flipped = true
		data[4] ^= 0x01
		return nil
	}

	stat, err := fs.InodeStat(addr)
	require.NoError(t, err, "expected corruption to be masked by retry")
	require.Equal(t, uint32(len("resilient")), stat.Size)
}

func TestCorruptionPersistentSurfacesAfterRetriesExhausted(t *testing.T) {
	dev, err := memory.New("test", testTotalSize, testSectorSize, testWriteSize)
	require.NoError(t, err)
	stub := testhelper.NewStubDevice(dev)
	fs := New(stub)
	require.NoError(t, fs.Format())
	addr, err := fs.InodeCreate(0, filesystem.TypeFile)
	require.NoError(t, err)
	payload := []byte("payload bytes for corruption scenario")
	require.NoError(t, fs.InodeSet(addr, payload))
	info, err := fs.DumpInode(addr)
	require.NoError(t, err)
	block := info.Blocks[0]

	stub.ReadHook = func(readAddr uint32, data []byte, n int, err error) error {
		if err == nil && readAddr == block && n > blockMetaSize {
			data[blockMetaSize] ^= 0xFF
		}
		return err
	}

	out := make([]byte, len(payload))
	n, err := fs.InodeRead(addr, 0, out)
	require.NoError(t, err, "inode_read does not itself fail on persistent corruption")
	require.Equal(t, len(payload), n)
	require.False(t, bytes.Equal(out, payload), "expected the corrupted byte to surface in the returned content")
}
