package vfs

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nor-sfs/norfs/backend"
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
)

// mountEntry is spec §3's "Mount table entry": a device, the filesystem
// façade bound to it, and the token vector naming where it is attached.
// ID has no on-device meaning; it is VFS-internal bookkeeping (SPEC_FULL
// §2 Domain Stack) so two mounts of the same device at different times are
// distinguishable in mountlist/log output, the way the teacher stamps GPT
// partitions with a uuid.UUID.
type mountEntry struct {
	ID     uuid.UUID
	Device backend.Device
	FS     filesystem.FileSystem
	Tokens []string
}

// MountInfo is the read-only view of a mountEntry returned by MountList.
type MountInfo struct {
	ID   uuid.UUID
	Path string
	Name string
}

// Mount attaches fs (already Format-ed or Mount-ed) at target in the VFS
// namespace (spec §4.8). The root mount is the one whose token vector is
// empty, i.e. target "/".
func (v *VFS) Mount(dev backend.Device, target string, fs filesystem.FileSystem) error {
	tokens, err := splitpath(target, nil)
	if err != nil {
		return err
	}
	slot := v.mountSlots.Alloc()
	if slot < 0 {
		return ferr.New(ferr.MountsFull)
	}
	v.mounts[slot] = &mountEntry{
		ID:     uuid.New(),
		Device: dev,
		FS:     fs,
		Tokens: tokens,
	}
	return nil
}

// Umount detaches whatever is mounted at target.
func (v *VFS) Umount(target string) error {
	tokens, err := splitpath(target, nil)
	if err != nil {
		return err
	}
	slot := v.findMount(tokens)
	if slot < 0 {
		return ferr.New(ferr.MountNotFound)
	}
	v.mounts[slot] = nil
	return v.mountSlots.Free(slot)
}

// findMount returns the slot whose token vector equals tokens, or -1.
func (v *VFS) findMount(tokens []string) int {
	for i, m := range v.mounts {
		if m == nil {
			continue
		}
		if tokensEqual(m.Tokens, tokens) {
			return i
		}
	}
	return -1
}

// findRoot returns the slot mounted at "/" (an empty token vector), or -1
// if nothing is mounted yet.
func (v *VFS) findRoot() int {
	return v.findMount(nil)
}

func tokensEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MountList reports every active mount, for the `mountlist` VFS op and the
// REPL command of the same name.
func (v *VFS) MountList() []MountInfo {
	var out []MountInfo
	for _, m := range v.mounts {
		if m == nil {
			continue
		}
		out = append(out, MountInfo{
			ID:   m.ID,
			Path: "/" + strings.Join(m.Tokens, "/"),
			Name: m.FS.Name(),
		})
	}
	return out
}
