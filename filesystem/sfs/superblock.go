package sfs

import "github.com/nor-sfs/norfs/backend"

// superblockAddr is the fixed device offset of the superblock (spec §6.2).
const superblockAddr uint32 = 0

// readSuperblock implements spec §4.2's Read(structure) for the
// superblock: up to retryCount attempts, accepting the first one whose
// embedded checksum is self-consistent.
func readSuperblock(dev backend.Device) (*superblock, error) {
	buf := make([]byte, superblockEncodedSize())
	valid := func(b []byte) bool {
		sb := decodeSuperblock(b)
		return sb.validChecksum(b)
	}
	if err := readRetry(dev, superblockAddr, buf, valid); err != nil {
		return nil, err
	}
	return decodeSuperblock(buf), nil
}

// writeSuperblock implements spec §4.2's Write(structure) for the
// superblock: fill the checksum, rewrite the sector, and verify by
// re-reading and recomputing the checksum.
func writeSuperblock(dev backend.Device, sb *superblock) error {
	encoded := sb.encode()
	sector := make([]byte, dev.SectorSize())
	copy(sector, encoded)

	verify := func() bool {
		b := make([]byte, len(encoded))
		if err := dev.Read(superblockAddr, b, len(b)); err != nil {
			return false
		}
		got := decodeSuperblock(b)
		return got.validChecksum(b)
	}
	return writeRetry(dev, superblockAddr, sector, verify)
}
