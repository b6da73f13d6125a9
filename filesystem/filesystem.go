// Package filesystem provides the capability-set interface every mountable
// filesystem implementation satisfies, and the shared inode-type vocabulary.
// The teacher's own filesystem package plays the same "depend on a trait,
// not a concrete package" role for ext4/fat32/squashfs; here the trait is
// the SFS façade from spec §9 ("a record of function pointers ... map this
// to a capability set") instead of a POSIX filesystem.FileSystem.
package filesystem

import "errors"

var (
	// ErrNotSupported is returned by implementations that satisfy the
	// interface but choose not to implement a given optional capability.
	ErrNotSupported = errors.New("filesystem: operation not supported by this implementation")
)

// InodeType is the type tag stored in an inode (spec §3 "Inode").
type InodeType uint32

const (
	TypeEmpty InodeType = iota
	TypeFile
	TypeDev
	TypeDir
)

func (t InodeType) String() string {
	switch t {
	case TypeEmpty:
		return "EMPTY"
	case TypeFile:
		return "FILE"
	case TypeDev:
		return "DEV"
	case TypeDir:
		return "DIR"
	default:
		return "UNKNOWN"
	}
}

// Stat is the subset of inode metadata inode_stat exposes to callers.
type Stat struct {
	Size uint32
	Type InodeType
}

// SuperblockInfo is the decoded form returned by DumpSuperblock, for the
// REPL's raw-dump surface (spec §6.4) and for tests asserting on-device
// invariants (spec §8).
type SuperblockInfo struct {
	InodeCount uint32
	InodeSize  uint32
	InodeStart uint32
	FreeInodes uint32
	BlockStart uint32
	FreeBlocks uint32
}

// InodeInfo is the decoded form returned by DumpInode.
type InodeInfo struct {
	Addr          uint32
	NextFree      uint32
	Size          uint32
	AllocSize     uint32
	Type          InodeType
	Blocks        [2]uint32
	BlockIndirect uint32
}

// BlockMetaInfo is the decoded form returned by DumpBlockMeta.
type BlockMetaInfo struct {
	Addr     uint32
	Next     uint32
	DataSize uint32
}

// FileSystem is the capability set a mount entry dispatches through,
// equivalent to the original's struct-of-function-pointers façade (spec §9
// "Polymorphism over filesystems"). VFS depends only on this interface;
// SFS and devfs are two implementations of it.
type FileSystem interface {
	// Name identifies the filesystem implementation, e.g. "sfs" or "devfs".
	Name() string
	// RootInode returns the address of the filesystem's root directory
	// inode, valid only after Format (or, for SFS, Mount) has run.
	RootInode() uint32

	Format() error

	InodeCreate(size uint32, typ InodeType) (addr uint32, err error)
	InodeDelete(addr uint32) error
	InodeSetType(addr uint32, typ InodeType) error
	InodeStat(addr uint32) (Stat, error)

	// InodeSet overwrites an inode's entire content with data, resizing
	// as needed. It walks the block chain by next-pointers only (spec
	// §4.6) — callers writing more than two blocks' worth of data should
	// prefer InodeWrite.
	InodeSet(addr uint32, data []byte) error
	// InodeGet reads an inode's entire content into a buffer of at least
	// its current size, returning the number of bytes copied.
	InodeGet(addr uint32, out []byte) (int, error)
	InodeRead(addr uint32, offset uint32, out []byte) (int, error)
	InodeWrite(addr uint32, offset uint32, data []byte) (int, error)

	DumpSuperblock() (SuperblockInfo, error)
	DumpInode(addr uint32) (InodeInfo, error)
	DumpBlockMeta(addr uint32) (BlockMetaInfo, error)
}
