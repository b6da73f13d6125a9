package sfs

import "encoding/binary"

// checksumWords computes the XOR-fold of all 32-bit little-endian words in
// data (spec §3: "a checksum_t is ... the bitwise XOR of all 32-bit words
// of a byte range"). len(data) must be a multiple of 4.
func checksumWords(data []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= len(data); i += 4 {
		sum ^= binary.LittleEndian.Uint32(data[i : i+4])
	}
	return sum
}

// superblock is the decoded in-memory form of the on-device superblock
// (spec §3 "Superblock").
type superblock struct {
	checksum       uint32
	inodeCount     uint32
	inodeSizeBytes uint32
	inodeStart     uint32
	freeInodes     uint32
	blockStart     uint32
	freeBlocks     uint32
	inodeChecksums [inodeSectors + 1]uint32
}

func superblockEncodedSize() int {
	return 4*7 + 4*(inodeSectors+1)
}

func (sb *superblock) encode() []byte {
	buf := make([]byte, superblockEncodedSize())
	binary.LittleEndian.PutUint32(buf[4:8], sb.inodeCount)
	binary.LittleEndian.PutUint32(buf[8:12], sb.inodeSizeBytes)
	binary.LittleEndian.PutUint32(buf[12:16], sb.inodeStart)
	binary.LittleEndian.PutUint32(buf[16:20], sb.freeInodes)
	binary.LittleEndian.PutUint32(buf[20:24], sb.blockStart)
	binary.LittleEndian.PutUint32(buf[24:28], sb.freeBlocks)
	for i, c := range sb.inodeChecksums {
		off := 28 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], c)
	}
	sb.checksum = checksumWords(buf[4:])
	binary.LittleEndian.PutUint32(buf[0:4], sb.checksum)
	return buf
}

func decodeSuperblock(buf []byte) *superblock {
	sb := &superblock{}
	sb.checksum = binary.LittleEndian.Uint32(buf[0:4])
	sb.inodeCount = binary.LittleEndian.Uint32(buf[4:8])
	sb.inodeSizeBytes = binary.LittleEndian.Uint32(buf[8:12])
	sb.inodeStart = binary.LittleEndian.Uint32(buf[12:16])
	sb.freeInodes = binary.LittleEndian.Uint32(buf[16:20])
	sb.blockStart = binary.LittleEndian.Uint32(buf[20:24])
	sb.freeBlocks = binary.LittleEndian.Uint32(buf[24:28])
	for i := range sb.inodeChecksums {
		off := 28 + i*4
		sb.inodeChecksums[i] = binary.LittleEndian.Uint32(buf[off : off+4])
	}
	return sb
}

func (sb *superblock) validChecksum(buf []byte) bool {
	return checksumWords(buf[4:]) == sb.checksum
}

// inode is the decoded in-memory form of one packed inode (spec §3
// "Inode").
type inode struct {
	checksum      uint32
	nextFree      uint32
	size          uint32
	allocSize     uint32
	typ           uint32
	block         [2]uint32
	blockIndirect uint32
}

func (n *inode) encode() []byte {
	buf := make([]byte, inodeSize)
	binary.LittleEndian.PutUint32(buf[4:8], n.nextFree)
	binary.LittleEndian.PutUint32(buf[8:12], n.size)
	binary.LittleEndian.PutUint32(buf[12:16], n.allocSize)
	binary.LittleEndian.PutUint32(buf[16:20], n.typ)
	binary.LittleEndian.PutUint32(buf[20:24], n.block[0])
	binary.LittleEndian.PutUint32(buf[24:28], n.block[1])
	binary.LittleEndian.PutUint32(buf[28:32], n.blockIndirect)
	n.checksum = checksumWords(buf[4:])
	binary.LittleEndian.PutUint32(buf[0:4], n.checksum)
	return buf
}

func decodeInode(buf []byte) *inode {
	n := &inode{}
	n.checksum = binary.LittleEndian.Uint32(buf[0:4])
	n.nextFree = binary.LittleEndian.Uint32(buf[4:8])
	n.size = binary.LittleEndian.Uint32(buf[8:12])
	n.allocSize = binary.LittleEndian.Uint32(buf[12:16])
	n.typ = binary.LittleEndian.Uint32(buf[16:20])
	n.block[0] = binary.LittleEndian.Uint32(buf[20:24])
	n.block[1] = binary.LittleEndian.Uint32(buf[24:28])
	n.blockIndirect = binary.LittleEndian.Uint32(buf[28:32])
	return n
}

func (n *inode) validChecksum(buf []byte) bool {
	return checksumWords(buf[4:]) == n.checksum
}

// blockMeta is the decoded meta prefix of one data-block sector (spec §3
// "Data block").
type blockMeta struct {
	checksum uint32
	next     uint32
	datasize uint32
}

func (m *blockMeta) encodeInto(sector []byte, payload []byte) {
	binary.LittleEndian.PutUint32(sector[4:8], m.next)
	binary.LittleEndian.PutUint32(sector[8:12], m.datasize)
	copy(sector[blockMetaSize:], payload)
	n := blockMetaSize + int(m.datasize)
	if n > len(sector) {
		n = len(sector)
	}
	m.checksum = checksumWords(sector[4:n])
	binary.LittleEndian.PutUint32(sector[0:4], m.checksum)
}

func decodeBlockMeta(sector []byte) *blockMeta {
	m := &blockMeta{}
	m.checksum = binary.LittleEndian.Uint32(sector[0:4])
	m.next = binary.LittleEndian.Uint32(sector[4:8])
	m.datasize = binary.LittleEndian.Uint32(sector[8:12])
	return m
}

func (m *blockMeta) validChecksum(sector []byte) bool {
	n := blockMetaSize + int(m.datasize)
	if n > len(sector) {
		n = len(sector)
	}
	return checksumWords(sector[4:n]) == m.checksum
}
