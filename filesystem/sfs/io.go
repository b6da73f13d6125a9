package sfs

import (
	"github.com/nor-sfs/norfs/ferr"
)

// blockAddrForIndex resolves the data-block address for logical block
// index idx via the direct/indirect addressing table (spec §4.5 tie-break):
// index 0 and 1 come from n.block, index >= 2 comes from the indirect
// block's payload.
func (fs *FS) blockAddrForIndex(n *inode, idx int) (uint32, error) {
	if idx == 0 {
		return n.block[0], nil
	}
	if idx == 1 {
		return n.block[1], nil
	}
	if n.blockIndirect == 0 {
		return 0, ferr.New(ferr.WrongAddr)
	}
	meta, payload, err := readBlock(fs.dev, n.blockIndirect)
	if err != nil {
		return 0, err
	}
	count := int(meta.datasize / 4)
	addrs := decodeIndirectPayload(payload, count)
	i := idx - 2
	if i < 0 || i >= len(addrs) {
		return 0, ferr.New(ferr.WrongAddr)
	}
	return addrs[i], nil
}

// InodeSet implements spec §4.6 inode_set: resize, then walk the chain
// purely by next pointers, ignoring the indirect table, per the resolved
// open question (callers should prefer InodeWrite for large payloads).
func (fs *FS) InodeSet(addr uint32, data []byte) error {
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

	if err := resize(fs.dev, sb, n, uint32(len(data))); err != nil {
		return err
	}

	payloadSize := dataPayload(fs.dev.SectorSize())
	block := n.block[0]
	for p := 0; p < len(data); p += payloadSize {
		if block == 0 {
			return ferr.New(ferr.BadDataBlock)
		}
		end := p + payloadSize
		if end > len(data) {
			end = len(data)
		}
		meta, _, err := readBlock(fs.dev, block)
		if err != nil {
			return err
		}
		meta.datasize = uint32(end - p)
		if err := writeBlock(fs.dev, block, meta, data[p:end]); err != nil {
			return err
		}
		block = meta.next
	}

	if err := writeSuperblock(fs.dev, sb); err != nil {
		return err
	}
	return writeInode(fs.dev, sb, addr, n)
}

// InodeGet implements spec §4.6 inode_get.
func (fs *FS) InodeGet(addr uint32, out []byte) (int, error) {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return 0, err
	}
	if !validInodeAddr(sb, addr) {
		return 0, ferr.New(ferr.WrongAddr)
	}
	n, err := readInode(fs.dev, addr)
	if err != nil {
		return 0, err
	}
	if uint32(len(out)) < n.size {
		return 0, ferr.New(ferr.WrongSize)
	}

	written := 0
	block := n.block[0]
	for written < int(n.size) && block != 0 {
		meta, payload, err := readBlock(fs.dev, block)
		if err != nil {
			return 0, err
		}
		l := int(meta.datasize)
		if written+l > int(n.size) {
			l = int(n.size) - written
		}
		copy(out[written:written+l], payload[:l])
		written += l
		block = meta.next
	}
	return written, nil
}

// InodeRead implements spec §4.6 inode_read, including the resolved
// boundary behavior for offset >= size: return zero bytes, not an error.
func (fs *FS) InodeRead(addr uint32, offset uint32, out []byte) (int, error) {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return 0, err
	}
	if !validInodeAddr(sb, addr) {
		return 0, ferr.New(ferr.WrongAddr)
	}
	n, err := readInode(fs.dev, addr)
	if err != nil {
		return 0, err
	}
	if offset >= n.size {
		return 0, nil
	}

	payloadSize := uint32(dataPayload(fs.dev.SectorSize()))
	remaining := n.size - offset
	if uint32(len(out)) < remaining {
		remaining = uint32(len(out))
	}

	read := 0
	for uint32(read) < remaining {
		cur := offset + uint32(read)
		idx := int(cur / payloadSize)
		within := cur % payloadSize

		block, err := fs.blockAddrForIndex(n, idx)
		if err != nil || block == 0 {
			break
		}
		meta, payload, err := readBlock(fs.dev, block)
		if err != nil {
			return read, err
		}
		if within >= meta.datasize {
			break
		}
		l := meta.datasize - within
		want := remaining - uint32(read)
		if l > want {
			l = want
		}
		copy(out[read:read+int(l)], payload[within:within+l])
		read += int(l)
	}
	return read, nil
}

// InodeWrite implements spec §4.6 inode_write.
func (fs *FS) InodeWrite(addr uint32, offset uint32, data []byte) (int, error) {
	sb, err := readSuperblock(fs.dev)
	if err != nil {
		return 0, err
	}
	if !validInodeAddr(sb, addr) {
		return 0, ferr.New(ferr.WrongAddr)
	}
	n, err := readInode(fs.dev, addr)
	if err != nil {
		return 0, err
	}

	end := offset + uint32(len(data))
	newSize := n.size
	if end > newSize {
		newSize = end
	}
	if err := resize(fs.dev, sb, n, newSize); err != nil {
		return 0, err
	}

	payloadSize := uint32(dataPayload(fs.dev.SectorSize()))
	written := 0
	for written < len(data) {
		cur := offset + uint32(written)
		idx := int(cur / payloadSize)
		within := cur % payloadSize

		block, err := fs.blockAddrForIndex(n, idx)
		if err != nil || block == 0 {
			return written, ferr.New(ferr.BadDataBlock)
		}
		meta, payload, err := readBlock(fs.dev, block)
		if err != nil {
			return written, err
		}
		l := payloadSize - within
		remaining := uint32(len(data) - written)
		if l > remaining {
			l = remaining
		}
		copy(payload[within:within+l], data[written:written+int(l)])
		writtenEnd := within + l
		if writtenEnd > meta.datasize {
			meta.datasize = writtenEnd
		}
		if err := writeBlock(fs.dev, block, meta, payload[:meta.datasize]); err != nil {
			return written, err
		}
		written += int(l)
	}

	if err := writeSuperblock(fs.dev, sb); err != nil {
		return written, err
	}
	if err := writeInode(fs.dev, sb, addr, n); err != nil {
		return written, err
	}
	return written, nil
}
