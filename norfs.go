// Package norfs ties the block device, SFS storage engine, and VFS layer
// together behind two convenience entry points, the way the teacher's root
// diskfs.go wraps disk.Open/disk.Create around its own lower layers.
package norfs

import (
	"github.com/nor-sfs/norfs/backend"
	"github.com/nor-sfs/norfs/backend/memory"
	"github.com/nor-sfs/norfs/filesystem/sfs"
	"github.com/nor-sfs/norfs/vfs"
)

// Create formats a fresh in-memory device of the given geometry, mounts it
// at "/", and returns the VFS ready to use. This is the norfs equivalent of
// diskfs.Create followed by CreateFilesystem.
func Create(name string, totalSize int64, sectorSize, writeSize int) (*vfs.VFS, error) {
	dev, err := memory.New(name, totalSize, sectorSize, writeSize)
	if err != nil {
		return nil, err
	}
	fs := sfs.New(dev)
	if err := fs.Format(); err != nil {
		return nil, err
	}
	v := vfs.New()
	if err := v.Mount(dev, "/", fs); err != nil {
		return nil, err
	}
	return v, nil
}

// Open mounts an already-formatted device at "/", recovering the root
// inode from its on-device inode table (the norfs equivalent of
// diskfs.Open followed by GetFilesystem).
func Open(dev backend.Device) (*vfs.VFS, error) {
	fs := sfs.New(dev)
	if err := fs.Mount(); err != nil {
		return nil, err
	}
	v := vfs.New()
	if err := v.Mount(dev, "/", fs); err != nil {
		return nil, err
	}
	return v, nil
}
