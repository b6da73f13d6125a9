// Package vfs composes one or more mounted filesystem.FileSystem instances
// into a single pathname hierarchy with a POSIX-like file-descriptor API
// (spec §4.8/§4.9). It owns the mount table, the current working
// directory, and the file-descriptor table; SFS (or any other
// filesystem.FileSystem) owns everything below one mount point.
package vfs

import "github.com/nor-sfs/norfs/bitset"

// VFS is the single process-wide instance described in design note "Cwd
// and path prefixing": the mount table, cwd, and descriptor table are
// genuinely global state, not threaded through every call.
type VFS struct {
	mountSlots *bitset.Set
	mounts     [MountMax]*mountEntry

	fdSlots *bitset.Set
	fds     [FDMax]*Descriptor

	cwd []string
}

// New returns an empty VFS with no mounts and cwd at "/".
func New() *VFS {
	return &VFS{
		mountSlots: bitset.New(MountMax),
		fdSlots:    bitset.New(FDMax),
	}
}
