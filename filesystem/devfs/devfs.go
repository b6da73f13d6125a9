// Package devfs is a second, minimal filesystem.FileSystem implementation
// backed by plain Go memory instead of a backend.Device. It exists to prove
// the capability-set interface (design note §9 "Polymorphism over
// filesystems") is genuinely pluggable, and to give the spec's DEV inode
// type somewhere to live (SPEC_FULL §3): mount it at "/dev" and its root
// directory holds DEV nodes the way SFS's root holds FILE/DIR nodes.
//
// It follows the same "everything is a byte blob behind an address" shape
// as SFS, but addresses are just a monotonically increasing counter into an
// in-memory map rather than offsets into erased flash — there is no
// checksum, retry, or free-list machinery here, because there is no flash
// to protect against.
package devfs

import (
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
)

type node struct {
	typ  filesystem.InodeType
	data []byte
}

// FS is an in-memory filesystem.FileSystem. The zero value is not usable;
// call Format first.
type FS struct {
	nodes  map[uint32]*node
	nextID uint32
	root   uint32
}

var _ filesystem.FileSystem = (*FS)(nil)

// New returns an unformatted devfs instance.
func New() *FS {
	return &FS{}
}

func (fs *FS) Name() string      { return "devfs" }
func (fs *FS) RootInode() uint32 { return fs.root }

// Format discards any existing content and creates a fresh, empty root
// directory, mirroring SFS's "format always creates root" semantics
// (SPEC_FULL Open Question decision 3) so the two implementations are
// interchangeable from VFS's point of view.
func (fs *FS) Format() error {
	fs.nodes = make(map[uint32]*node)
	fs.nextID = 1
	addr, err := fs.InodeCreate(0, filesystem.TypeDir)
	if err != nil {
		return err
	}
	fs.root = addr
	return nil
}

func (fs *FS) get(addr uint32) (*node, error) {
	n, ok := fs.nodes[addr]
	if !ok {
		return nil, ferr.New(ferr.WrongAddr)
	}
	return n, nil
}

// InodeCreate allocates a new node of typ with size zero-filled bytes.
func (fs *FS) InodeCreate(size uint32, typ filesystem.InodeType) (uint32, error) {
	addr := fs.nextID
	fs.nextID++
	fs.nodes[addr] = &node{typ: typ, data: make([]byte, size)}
	return addr, nil
}

// InodeDelete removes addr outright; devfs has no free list to return
// anything to.
func (fs *FS) InodeDelete(addr uint32) error {
	if _, err := fs.get(addr); err != nil {
		return err
	}
	delete(fs.nodes, addr)
	return nil
}

func (fs *FS) InodeSetType(addr uint32, typ filesystem.InodeType) error {
	n, err := fs.get(addr)
	if err != nil {
		return err
	}
	n.typ = typ
	return nil
}

func (fs *FS) InodeStat(addr uint32) (filesystem.Stat, error) {
	n, err := fs.get(addr)
	if err != nil {
		return filesystem.Stat{}, err
	}
	return filesystem.Stat{Size: uint32(len(n.data)), Type: n.typ}, nil
}

// InodeSet replaces addr's entire content with data.
func (fs *FS) InodeSet(addr uint32, data []byte) error {
	n, err := fs.get(addr)
	if err != nil {
		return err
	}
	n.data = append([]byte(nil), data...)
	return nil
}

func (fs *FS) InodeGet(addr uint32, out []byte) (int, error) {
	n, err := fs.get(addr)
	if err != nil {
		return 0, err
	}
	if len(out) < len(n.data) {
		return 0, ferr.New(ferr.WrongSize)
	}
	return copy(out, n.data), nil
}

func (fs *FS) InodeRead(addr uint32, offset uint32, out []byte) (int, error) {
	n, err := fs.get(addr)
	if err != nil {
		return 0, err
	}
	if int(offset) >= len(n.data) {
		return 0, nil
	}
	return copy(out, n.data[offset:]), nil
}

func (fs *FS) InodeWrite(addr uint32, offset uint32, data []byte) (int, error) {
	n, err := fs.get(addr)
	if err != nil {
		return 0, err
	}
	end := int(offset) + len(data)
	if end > len(n.data) {
		grown := make([]byte, end)
		copy(grown, n.data)
		n.data = grown
	}
	return copy(n.data[offset:end], data), nil
}

// DumpSuperblock, DumpInode and DumpBlockMeta are optional capabilities
// (filesystem.ErrNotSupported) that only make sense for a real on-device
// layout; devfs has no superblock, inode table, or block pool to dump.
func (fs *FS) DumpSuperblock() (filesystem.SuperblockInfo, error) {
	return filesystem.SuperblockInfo{}, filesystem.ErrNotSupported
}

func (fs *FS) DumpInode(addr uint32) (filesystem.InodeInfo, error) {
	return filesystem.InodeInfo{}, filesystem.ErrNotSupported
}

func (fs *FS) DumpBlockMeta(addr uint32) (filesystem.BlockMetaInfo, error) {
	return filesystem.BlockMetaInfo{}, filesystem.ErrNotSupported
}
