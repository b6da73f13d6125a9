// Package sfs implements the on-device filesystem over a backend.Device:
// superblock, inode table, and data-block pool, each protected by an
// embedded checksum and a bounded retry-with-backoff protocol (spec §4.2).
// It satisfies filesystem.FileSystem, the capability set the VFS mounts.
package sfs

import "time"

const (
	// inodeSectors is the number of sectors reserved for the inode table,
	// starting immediately after the superblock sector (spec §6.2).
	inodeSectors = 15

	// inodeSize is the on-device size of one packed inode (spec §3):
	// checksum, next_free, size, alloc_size, type, two direct blocks,
	// one indirect block pointer — eight u32 fields.
	inodeSize = 32

	// blockMetaSize is the size of the meta prefix on every data-block
	// sector: checksum, next, datasize.
	blockMetaSize = 12

	// retryCount bounds every checksum-protected read or write.
	retryCount = 5

	// maxSectorSize and maxWriteSize are the implementation limits format
	// enforces (spec §4.3, §6.1).
	maxSectorSize = 4096
	maxWriteSize  = 256

	// dirRecordSize mirrors the directory record size; direntry owns the
	// format, and Format sizes the root directory with
	// direntry.RecordSize.
	dirRecordSize = 32
)

// backoffDelays is the fixed retry ladder from spec §4.2: "[0, 10, 100,
// 1000, 5000] time units". Deterministic and bounded so that a caller can
// reason about worst-case latency; never replace with unbounded retry.
var backoffDelays = [retryCount]time.Duration{
	0,
	10 * time.Millisecond,
	100 * time.Millisecond,
	1 * time.Second,
	5 * time.Second,
}
