package vfs

import (
	"github.com/nor-sfs/norfs/direntry"
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
)

// dirlookup walks tokens starting at the root mount (spec §4.8). On success
// it returns the mount slot and inode address the full path resolved to,
// and the final token as the effective name.
//
// When the final token is missing and flags has OCreat set, it does not
// fail: it returns the *parent's* mount slot and inode address with the
// missing token as name, and ferr.ErrNameNotFound, so the caller can create
// the entry there and re-resolve. Any other failure returns a zero mount
// slot and address alongside the error.
func (v *VFS) dirlookup(tokens []string, flags int) (mountSlot int, inodeAddr uint32, name string, err error) {
	rootSlot := v.findRoot()
	if rootSlot < 0 {
		return 0, 0, "", ferr.New(ferr.NoRoot)
	}
	curSlot := rootSlot
	curInode := v.mounts[curSlot].FS.RootInode()
	if len(tokens) == 0 {
		return curSlot, curInode, "", nil
	}

	var pathSoFar []string
	for i, t := range tokens {
		pathSoFar = append(pathSoFar, t)
		if slot := v.findMount(pathSoFar); slot >= 0 {
			curSlot = slot
			curInode = v.mounts[slot].FS.RootInode()
			continue
		}

		fs := v.mounts[curSlot].FS
		stat, serr := fs.InodeStat(curInode)
		if serr != nil {
			return 0, 0, "", serr
		}
		if stat.Type != filesystem.TypeDir {
			return 0, 0, "", ferr.New(ferr.NotADir)
		}
		payload, gerr := readDirPayload(fs, curInode, stat.Size)
		if gerr != nil {
			return 0, 0, "", gerr
		}
		addr, ok := direntry.Search(payload, t)
		if !ok {
			if flags&OCreat != 0 && i == len(tokens)-1 {
				return curSlot, curInode, t, ferr.New(ferr.NameNotFound)
			}
			return 0, 0, "", ferr.New(ferr.NameNotFound)
		}
		curInode = addr
	}
	return curSlot, curInode, tokens[len(tokens)-1], nil
}

// readDirPayload reads a directory inode's entire record array.
func readDirPayload(fs filesystem.FileSystem, addr uint32, size uint32) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := fs.InodeGet(addr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// mapDirErr translates direntry's generic record-array errors onto the
// shared ferr taxonomy; direntry itself stays filesystem-agnostic.
func mapDirErr(err error) error {
	switch err {
	case direntry.ErrExists:
		return ferr.New(ferr.AlreadyExists)
	case direntry.ErrFull:
		return ferr.New(ferr.NoDataBlocks)
	case direntry.ErrNotFound:
		return ferr.New(ferr.NameNotFound)
	default:
		return err
	}
}

// dirAdd appends a (name, childAddr) record to the directory at addr,
// growing its payload by one record if the current one has no room left
// for both the new entry and a trailing sentinel.
func dirAdd(fs filesystem.FileSystem, addr uint32, name string, childAddr uint32) error {
	stat, err := fs.InodeStat(addr)
	if err != nil {
		return err
	}
	buf, err := readDirPayload(fs, addr, stat.Size)
	if err != nil {
		return err
	}

	if err := direntry.Add(buf, name, childAddr); err != nil {
		if err != direntry.ErrFull {
			return mapDirErr(err)
		}
		grown := make([]byte, len(buf)+direntry.RecordSize)
		copy(grown, buf)
		if err := direntry.Add(grown, name, childAddr); err != nil {
			return mapDirErr(err)
		}
		buf = grown
	}
	return fs.InodeSet(addr, buf)
}

// dirRemove removes childAddr's record from the directory at addr.
func dirRemove(fs filesystem.FileSystem, addr uint32, childAddr uint32) error {
	stat, err := fs.InodeStat(addr)
	if err != nil {
		return err
	}
	buf, err := readDirPayload(fs, addr, stat.Size)
	if err != nil {
		return err
	}
	if err := direntry.DeleteInode(buf, childAddr); err != nil {
		return mapDirErr(err)
	}
	return fs.InodeSet(addr, buf)
}
