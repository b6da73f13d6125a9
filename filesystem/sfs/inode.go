package sfs

import (
	"github.com/nor-sfs/norfs/backend"
	"github.com/nor-sfs/norfs/ferr"
	"github.com/nor-sfs/norfs/filesystem"
)

// validInodeAddr reports whether addr could name a live inode slot (spec
// §4.6: "All I/O paths fail with WRONG_ADDR when addr < inode_start or
// addr % inode_size != 0").
func validInodeAddr(sb *superblock, addr uint32) bool {
	if addr < sb.inodeStart {
		return false
	}
	if (addr-sb.inodeStart)%inodeSize != 0 {
		return false
	}
	tableEnd := sb.inodeStart + sb.inodeCount*inodeSize
	return addr < tableEnd
}

// readInode reads the inode at addr, retrying on checksum mismatch.
func readInode(dev backend.Device, addr uint32) (*inode, error) {
	buf := make([]byte, inodeSize)
	valid := func(b []byte) bool {
		n := decodeInode(b)
		return n.validChecksum(b)
	}
	if err := readRetry(dev, addr, buf, valid); err != nil {
		return nil, err
	}
	return decodeInode(buf), nil
}

// writeInode writes n back at addr: the containing sector is read,
// n's encoded bytes are spliced into place, the whole-sector checksum is
// cached into sb.inodeChecksums, and the sector is rewritten and verified
// against that cached value (spec §4.2's inode-sector verify path).
func writeInode(dev backend.Device, sb *superblock, addr uint32, n *inode) error {
	sectorSize := dev.SectorSize()
	sectorAddr := (addr / uint32(sectorSize)) * uint32(sectorSize)
	sectorIdx := (sectorAddr - sb.inodeStart) / uint32(sectorSize)
	offsetInSector := int(addr - sectorAddr)

	sector := make([]byte, sectorSize)
	if err := dev.Read(sectorAddr, sector, sectorSize); err != nil {
		return err
	}

	encoded := n.encode()
	copy(sector[offsetInSector:offsetInSector+inodeSize], encoded)

	expected := checksumWords(sector)
	sb.inodeChecksums[sectorIdx] = expected

	verify := func() bool {
		b := make([]byte, sectorSize)
		if err := dev.Read(sectorAddr, b, sectorSize); err != nil {
			return false
		}
		return checksumWords(b) == expected
	}
	return writeRetry(dev, sectorAddr, sector, verify)
}

// InodeCreate implements spec §4.4 inode_create.
func (fs *FS) InodeCreate(size uint32, typ filesystem.InodeType) (uint32, error) {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return 0, err
	}
	if sb.freeInodes == 0 {
		return 0, ferr.New(ferr.OutOfMemory)
	}

	addr := sb.freeInodes
	n, err := readInode(fs.dev, addr)
	if err != nil {
		return 0, err
	}
	sb.freeInodes = n.nextFree

	n.typ = uint32(typ)
	n.size = 0
	n.allocSize = 0
	n.nextFree = 0
	n.block = [2]uint32{}
	n.blockIndirect = 0

	if err := resize(fs.dev, sb, n, size); err != nil {
		return 0, err
	}

	if err := writeInode(fs.dev, sb, addr, n); err != nil {
		return 0, err
	}
	if err := writeSuperblock(fs.dev, sb); err != nil {
		return 0, err
	}
	return addr, nil
}

// InodeDelete implements spec §4.4 inode_delete.
func (fs *FS) InodeDelete(addr uint32) error {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return err
	}
	if !validInodeAddr(sb, addr) {
		return ferr.New(ferr.WrongAddr)
	}
	n, err := readInode(fs.dev, addr)
	if err != nil {
		return err
	}

	if err := freeChain(fs.dev, sb, n); err != nil {
		return err
	}

	n.typ = uint32(filesystem.TypeEmpty)
	n.size = 0
	n.allocSize = 0
	n.block = [2]uint32{}
	n.blockIndirect = 0
	n.nextFree = sb.freeInodes
	sb.freeInodes = addr

	if err := writeInode(fs.dev, sb, addr, n); err != nil {
		return err
	}
	return writeSuperblock(fs.dev, sb)
}

// InodeSetType implements spec §4.4 inode_set_type.
func (fs *FS) InodeSetType(addr uint32, typ filesystem.InodeType) error {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return err
	}
	if !validInodeAddr(sb, addr) {
		return ferr.New(ferr.WrongAddr)
	}
	n, err := readInode(fs.dev, addr)
	if err != nil {
		return err
	}
	n.typ = uint32(typ)
	return writeInode(fs.dev, sb, addr, n)
}

// InodeStat implements spec §4.4 inode_stat.
func (fs *FS) InodeStat(addr uint32) (filesystem.Stat, error) {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return filesystem.Stat{}, err
	}
	if !validInodeAddr(sb, addr) {
		return filesystem.Stat{}, ferr.New(ferr.WrongAddr)
	}
	n, err := readInode(fs.dev, addr)
	if err != nil {
		return filesystem.Stat{}, err
	}
	return filesystem.Stat{Size: n.size, Type: filesystem.InodeType(n.typ)}, nil
}
