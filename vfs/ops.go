package vfs

import (
	"github.com/nor-sfs/norfs/direntry"
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
)

// Mkdir creates an empty directory at path (spec §4.9).
func (v *VFS) Mkdir(path string) error {
	tokens, err := splitpath(path, v.cwd)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return ferr.New(ferr.AlreadyExists)
	}
	parentTokens, name := tokens[:len(tokens)-1], tokens[len(tokens)-1]

	parentSlot, parentInode, _, err := v.dirlookup(parentTokens, 0)
	if err != nil {
		return err
	}
	fs := v.mounts[parentSlot].FS
	stat, err := fs.InodeStat(parentInode)
	if err != nil {
		return err
	}
	if stat.Type != filesystem.TypeDir {
		return ferr.New(ferr.NotADir)
	}

	newAddr, err := fs.InodeCreate(direntry.RecordSize, filesystem.TypeDir)
	if err != nil {
		return err
	}
	if err := fs.InodeSet(newAddr, direntry.NewSentinelPayload()); err != nil {
		return err
	}
	if err := dirAdd(fs, parentInode, name, newAddr); err != nil {
		_ = fs.InodeDelete(newAddr)
		return err
	}
	return nil
}

// Unlink removes an empty directory or a file at path (spec §4.9). A path
// that is itself a mount point is refused outright.
func (v *VFS) Unlink(path string) error {
	tokens, err := splitpath(path, v.cwd)
	if err != nil {
		return err
	}
	if v.findMount(tokens) >= 0 {
		return ferr.New(ferr.IsMountPoint)
	}
	if len(tokens) == 0 {
		return ferr.New(ferr.IsMountPoint)
	}
	parentTokens, name := tokens[:len(tokens)-1], tokens[len(tokens)-1]

	parentSlot, parentInode, _, err := v.dirlookup(parentTokens, 0)
	if err != nil {
		return err
	}
	fs := v.mounts[parentSlot].FS
	parentStat, err := fs.InodeStat(parentInode)
	if err != nil {
		return err
	}
	payload, err := readDirPayload(fs, parentInode, parentStat.Size)
	if err != nil {
		return err
	}
	childAddr, ok := direntry.Search(payload, name)
	if !ok {
		return ferr.New(ferr.NameNotFound)
	}

	childStat, err := fs.InodeStat(childAddr)
	if err != nil {
		return err
	}
	if childStat.Type == filesystem.TypeDir {
		childPayload, err := readDirPayload(fs, childAddr, childStat.Size)
		if err != nil {
			return err
		}
		if !direntry.IsEmpty(childPayload) {
			return ferr.New(ferr.DirNotEmpty)
		}
	}

	if err := dirRemove(fs, parentInode, childAddr); err != nil {
		return err
	}
	return fs.InodeDelete(childAddr)
}

// Lsdir lists the names directly under path, in on-disk order (spec §4.9:
// "preserves insertion order up to the swap-with-last deletion policy").
func (v *VFS) Lsdir(path string) ([]string, error) {
	tokens, err := splitpath(path, v.cwd)
	if err != nil {
		return nil, err
	}
	slot, addr, _, err := v.dirlookup(tokens, 0)
	if err != nil {
		return nil, err
	}
	fs := v.mounts[slot].FS
	stat, err := fs.InodeStat(addr)
	if err != nil {
		return nil, err
	}
	if stat.Type != filesystem.TypeDir {
		return nil, ferr.New(ferr.NotADir)
	}
	payload, err := readDirPayload(fs, addr, stat.Size)
	if err != nil {
		return nil, err
	}
	records := direntry.List(payload)
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names, nil
}

// DumpSuperblock decodes the on-device superblock of whatever is mounted at
// target, for the REPL's raw-dump commands (spec §6.4).
func (v *VFS) DumpSuperblock(target string) (filesystem.SuperblockInfo, error) {
	tokens, err := splitpath(target, nil)
	if err != nil {
		return filesystem.SuperblockInfo{}, err
	}
	slot := v.findMount(tokens)
	if slot < 0 {
		return filesystem.SuperblockInfo{}, ferr.New(ferr.MountNotFound)
	}
	return v.mounts[slot].FS.DumpSuperblock()
}

// DumpInode resolves path and decodes its raw inode record.
func (v *VFS) DumpInode(path string) (filesystem.InodeInfo, error) {
	tokens, err := splitpath(path, v.cwd)
	if err != nil {
		return filesystem.InodeInfo{}, err
	}
	slot, addr, _, err := v.dirlookup(tokens, 0)
	if err != nil {
		return filesystem.InodeInfo{}, err
	}
	return v.mounts[slot].FS.DumpInode(addr)
}

// Format formats the device already mounted at target and leaves its
// filesystem with a valid root directory (spec §4.9). The underlying
// filesystem's own Format already creates the root inode (SPEC_FULL Open
// Question decision 3), so there is no separate mkdir("/") step here.
func (v *VFS) Format(target string) error {
	tokens, err := splitpath(target, nil)
	if err != nil {
		return err
	}
	slot := v.findMount(tokens)
	if slot < 0 {
		return ferr.New(ferr.MountNotFound)
	}
	return v.mounts[slot].FS.Format()
}
