package sfs

import (
	"github.com/nor-sfs/norfs/backend"
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
)

// FS is the SFS storage engine bound to one backend.Device. It satisfies
// filesystem.FileSystem and is the only implementation of that interface
// backed by real persistent storage; devfs is the other.
type FS struct {
	dev  backend.Device
	root uint32
}

var _ filesystem.FileSystem = (*FS)(nil)

// New binds an SFS instance to dev. Call Format before any other
// operation on a freshly erased device; on a previously formatted device,
// call Mount to recover the root inode address from the inode table.
func New(dev backend.Device) *FS {
	return &FS{dev: dev}
}

// Mount reads the superblock and its own root directory's inode address
// back from an already-formatted device, so a filesystem.FileSystem can be
// reattached across process restarts. SFS itself does not persist the root
// address on-device beyond it always being the first inode Format creates;
// Mount re-derives it by scanning from the first inode slot for the first
// live DIR inode, which holds for any device this package formatted.
func (fs *FS) Mount() error {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return err
	}
	for addr := sb.inodeStart; addr < sb.inodeStart+sb.inodeCount*inodeSize; addr += inodeSize {
		n, err := readInode(fs.dev, addr)
		if err != nil {
			return err
		}
		if filesystem.InodeType(n.typ) == filesystem.TypeDir {
			fs.root = addr
			return nil
		}
	}
	return ferr.New(ferr.NoRoot)
}

func (fs *FS) Name() string      { return "sfs" }
func (fs *FS) RootInode() uint32 { return fs.root }

// DumpSuperblock decodes the on-device superblock for the REPL's raw-dump
// surface (spec §6.4) and for tests asserting on-device invariants.
func (fs *FS) DumpSuperblock() (filesystem.SuperblockInfo, error) {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return filesystem.SuperblockInfo{}, err
	}
	return filesystem.SuperblockInfo{
		InodeCount: sb.inodeCount,
		InodeSize:  sb.inodeSizeBytes,
		InodeStart: sb.inodeStart,
		FreeInodes: sb.freeInodes,
		BlockStart: sb.blockStart,
		FreeBlocks: sb.freeBlocks,
	}, nil
}

// DumpInode decodes the inode at addr without validating it against the
// superblock's address bounds, so a broken addr can still be inspected.
func (fs *FS) DumpInode(addr uint32) (filesystem.InodeInfo, error) {
	n, err := readInode(fs.dev, addr)
	if err != nil {
		return filesystem.InodeInfo{}, err
	}
	return filesystem.InodeInfo{
		Addr:          addr,
		NextFree:      n.nextFree,
		Size:          n.size,
		AllocSize:     n.allocSize,
		Type:          filesystem.InodeType(n.typ),
		Blocks:        n.block,
		BlockIndirect: n.blockIndirect,
	}, nil
}

// DumpBlockMeta decodes the meta prefix of the data-block sector at addr.
func (fs *FS) DumpBlockMeta(addr uint32) (filesystem.BlockMetaInfo, error) {
	meta, _, err := readBlock(fs.dev, addr)
	if err != nil {
		return filesystem.BlockMetaInfo{}, err
	}
	return filesystem.BlockMetaInfo{Addr: addr, Next: meta.next, DataSize: meta.datasize}, nil
}
