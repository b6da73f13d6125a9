package sfs

import (
	"github.com/nor-sfs/norfs/backend"
	"github.com/nor-sfs/norfs/direntry"
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
)

// Format implements spec §4.3. The canonical-semantics resolution of the
// "does format create a root directory" open question (spec §9) applies
// here: format always leaves behind a valid, empty root directory rather
// than requiring a caller's follow-up mkdir.
func (fs *FS) Format() error {
	dev := fs.dev
	if dev.SectorSize() > maxSectorSize {
		return ferr.New(ferr.SectorTooBig)
	}
	if dev.WriteSize() > maxWriteSize {
		return ferr.New(ferr.WriteTooBig)
	}
	if err := dev.EraseAll(); err != nil {
		return err
	}

	sectorSize := uint32(dev.SectorSize())
	sb := &superblock{
		inodeCount:     (inodeSectors * sectorSize) / inodeSize,
		inodeSizeBytes: inodeSize,
		inodeStart:     sectorSize,
		blockStart:     16 * sectorSize,
	}
	sb.freeInodes = sb.inodeStart
	sb.freeBlocks = sb.blockStart

	if err := formatInodeTable(dev, sb); err != nil {
		return err
	}
	if err := formatDataBlocks(dev, sb); err != nil {
		return err
	}
	if err := writeSuperblock(dev, sb); err != nil {
		return err
	}

	rootAddr, err := fs.InodeCreate(direntry.RecordSize, filesystem.TypeDir)
	if err != nil {
		return err
	}
	if err := fs.InodeSet(rootAddr, direntry.NewSentinelPayload()); err != nil {
		return err
	}
	fs.root = rootAddr
	return nil
}

// formatInodeTable writes every inode sector with a chain of EMPTY inodes
// threading the free-inode list (spec §4.3 step 3), caching each sector's
// whole-sector checksum into sb.inodeChecksums as it goes.
func formatInodeTable(dev backend.Device, sb *superblock) error {
	realSectorSize := dev.SectorSize()
	inodesPerSector := realSectorSize / inodeSize

	for sectorIdx := 0; sectorIdx < inodeSectors; sectorIdx++ {
		sectorAddr := sb.inodeStart + uint32(sectorIdx)*uint32(realSectorSize)
		sector := make([]byte, realSectorSize)

		for j := 0; j < inodesPerSector; j++ {
			globalIdx := sectorIdx*inodesPerSector + j
			if uint32(globalIdx) >= sb.inodeCount {
				break
			}
			addr := sb.inodeStart + uint32(globalIdx)*inodeSize
			next := addr + inodeSize
			if uint32(globalIdx+1) >= sb.inodeCount {
				next = 0
			}
			n := &inode{nextFree: next, typ: uint32(filesystem.TypeEmpty)}
			encoded := n.encode()
			copy(sector[j*inodeSize:(j+1)*inodeSize], encoded)
		}

		expected := checksumWords(sector)
		sb.inodeChecksums[sectorIdx] = expected

		verify := func() bool {
			b := make([]byte, realSectorSize)
			if err := dev.Read(sectorAddr, b, realSectorSize); err != nil {
				return false
			}
			return checksumWords(b) == expected
		}
		if err := writeRetry(dev, sectorAddr, sector, verify); err != nil {
			return err
		}
	}
	return nil
}

// formatDataBlocks threads every sector in the data pool onto the
// free-blocks list (spec §4.3 step 4).
func formatDataBlocks(dev backend.Device, sb *superblock) error {
	sectorSize := uint32(dev.SectorSize())
	totalSize := uint64(dev.TotalSize())
	numBlocks := (totalSize - uint64(sb.blockStart)) / uint64(sectorSize)

	for i := uint64(0); i < numBlocks; i++ {
		addr := sb.blockStart + uint32(i)*sectorSize
		next := addr + sectorSize
		if i+1 >= numBlocks {
			next = 0
		}
		if err := writeFreeBlock(dev, addr, next); err != nil {
			return err
		}
	}
	return nil
}
