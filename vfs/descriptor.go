package vfs

import (
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
)

// Descriptor is spec §3's "VFS file descriptor": the bookkeeping an open
// file carries between read/write/lseek calls.
type Descriptor struct {
	Path      string
	Name      string
	Flags     int
	Offset    uint64
	MountSlot int
	InodeAddr uint32
}

// Open resolves path and returns a file descriptor (spec §4.9). With
// OCreat set, a missing target is created as an empty FILE inode before
// the descriptor is allocated; an existing target is never truncated.
func (v *VFS) Open(path string, flags int) (int, error) {
	tokens, err := splitpath(path, v.cwd)
	if err != nil {
		return -1, err
	}
	slot, inode, name, err := v.dirlookup(tokens, flags)
	if err != nil {
		// dirlookup signals "missing, but creatable here" only for the
		// final token, by also returning the would-be parent and name;
		// every other failure path leaves name empty.
		if err != ferr.ErrNameNotFound || flags&OCreat == 0 || name == "" {
			return -1, err
		}
		fs := v.mounts[slot].FS
		newAddr, cerr := fs.InodeCreate(0, filesystem.TypeFile)
		if cerr != nil {
			return -1, cerr
		}
		if aerr := dirAdd(fs, inode, name, newAddr); aerr != nil {
			return -1, aerr
		}
		inode = newAddr
	}

	fd := v.fdSlots.Alloc()
	if fd < 0 {
		return -1, ferr.New(ferr.RunOutOfFD)
	}
	v.fds[fd] = &Descriptor{
		Path:      path,
		Name:      name,
		Flags:     flags,
		MountSlot: slot,
		InodeAddr: inode,
	}
	return fd, nil
}

func (v *VFS) descriptor(fd int) (*Descriptor, error) {
	if fd < 0 || fd >= len(v.fds) || v.fds[fd] == nil {
		return nil, ferr.New(ferr.FDNotSet)
	}
	return v.fds[fd], nil
}

// Close releases fd.
func (v *VFS) Close(fd int) error {
	if _, err := v.descriptor(fd); err != nil {
		return err
	}
	v.fds[fd] = nil
	return v.fdSlots.Free(fd)
}

// Read reads from fd's current offset and advances it by the number of
// bytes actually read.
func (v *VFS) Read(fd int, buf []byte) (int, error) {
	d, err := v.descriptor(fd)
	if err != nil {
		return 0, err
	}
	fs := v.mounts[d.MountSlot].FS
	n, err := fs.InodeRead(d.InodeAddr, uint32(d.Offset), buf)
	d.Offset += uint64(n)
	return n, err
}

// Write writes to fd's current offset, advances it, and marks the inode
// FILE (spec §4.9: "set inode type to FILE").
func (v *VFS) Write(fd int, data []byte) (int, error) {
	d, err := v.descriptor(fd)
	if err != nil {
		return 0, err
	}
	fs := v.mounts[d.MountSlot].FS
	n, err := fs.InodeWrite(d.InodeAddr, uint32(d.Offset), data)
	d.Offset += uint64(n)
	if err != nil {
		return n, err
	}
	return n, fs.InodeSetType(d.InodeAddr, filesystem.TypeFile)
}

// Lseek overwrites fd's offset outright; the core draws no SEEK_SET/CUR/END
// distinction, so callers compute the absolute offset themselves.
func (v *VFS) Lseek(fd int, offset uint64) error {
	d, err := v.descriptor(fd)
	if err != nil {
		return err
	}
	d.Offset = offset
	return nil
}

// Ioctl is reserved: no requests are defined in the core, so any call on a
// live descriptor succeeds as a no-op.
func (v *VFS) Ioctl(fd int, req int) error {
	_, err := v.descriptor(fd)
	return err
}
