package sfs

import (
	"github.com/nor-sfs/norfs/backend"
	"github.com/nor-sfs/norfs/ferr"
)

// dataPayload returns the number of payload bytes available in one data
// block on a device with the given sector size (spec §3: "payload:
// [u8; sector_size - sizeof(meta)]").
func dataPayload(sectorSize int) int {
	return sectorSize - blockMetaSize
}

// readBlock reads the sector at addr and decodes its meta prefix, retrying
// on checksum mismatch per spec §4.2. The returned slice is the full
// payload capacity; only buf[:meta.datasize] holds live data.
func readBlock(dev backend.Device, addr uint32) (*blockMeta, []byte, error) {
	sector := make([]byte, dev.SectorSize())
	valid := func(b []byte) bool {
		m := decodeBlockMeta(b)
		return m.validChecksum(b)
	}
	if err := readRetry(dev, addr, sector, valid); err != nil {
		return nil, nil, err
	}
	meta := decodeBlockMeta(sector)
	return meta, sector[blockMetaSize:], nil
}

// writeBlock writes meta and payload (only payload[:meta.datasize] is
// used) to the sector at addr, with the rewrite-then-verify protocol.
func writeBlock(dev backend.Device, addr uint32, meta *blockMeta, payload []byte) error {
	sector := make([]byte, dev.SectorSize())
	meta.encodeInto(sector, payload)
	verify := func() bool {
		b := make([]byte, len(sector))
		if err := dev.Read(addr, b, len(b)); err != nil {
			return false
		}
		got := decodeBlockMeta(b)
		return got.validChecksum(b)
	}
	return writeRetry(dev, addr, sector, verify)
}

// writeFreeBlock marks the sector at addr as a free-list node pointing at
// next.
func writeFreeBlock(dev backend.Device, addr, next uint32) error {
	meta := &blockMeta{next: next, datasize: 0}
	return writeBlock(dev, addr, meta, nil)
}

// takeFreeBlocks walks up to count blocks from the head of the free-block
// list, returning their addresses in chain order and the free-blocks head
// that would follow them. It only reads the device: nothing is detached
// until the caller writes the new head back. It returns
// ferr.ErrNoDataBlocks if fewer than count blocks are available; the caller
// must then not commit a partial extension (spec §4.5: "resize does not
// commit when extension fails").
func takeFreeBlocks(dev backend.Device, freeBlocks uint32, count int) (taken []uint32, newFreeBlocks uint32, err error) {
	cur := freeBlocks
	for i := 0; i < count; i++ {
		if cur == 0 {
			return taken, cur, ferr.New(ferr.NoDataBlocks)
		}
		meta, _, rerr := readBlock(dev, cur)
		if rerr != nil {
			return taken, cur, rerr
		}
		taken = append(taken, cur)
		cur = meta.next
	}
	return taken, cur, nil
}

// splitDirectIndirect splits a chain of block addresses into the direct-blocks /
// indirect-block-payload split from spec §4.5: indices 0 and 1 live in
// inode.block, indices ≥2 live in the indirect block's payload.
func splitDirectIndirect(addrs []uint32) (direct [2]uint32, indirect []uint32) {
	for i, a := range addrs {
		switch {
		case i < 2:
			direct[i] = a
		default:
			indirect = append(indirect, a)
		}
	}
	return direct, indirect
}

// encodeIndirectPayload packs a list of block addresses into an indirect block's
// payload (a flat array of little-endian u32 addresses).
func encodeIndirectPayload(addrs []uint32, capacityBytes int) []byte {
	buf := make([]byte, capacityBytes)
	for i, a := range addrs {
		off := i * 4
		if off+4 > len(buf) {
			break
		}
		buf[off] = byte(a)
		buf[off+1] = byte(a >> 8)
		buf[off+2] = byte(a >> 16)
		buf[off+3] = byte(a >> 24)
	}
	return buf
}

func decodeIndirectPayload(buf []byte, count int) []uint32 {
	out := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		off := i * 4
		if off+4 > len(buf) {
			break
		}
		a := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
		out = append(out, a)
	}
	return out
}
