package sfs

import (
	"github.com/nor-sfs/norfs/backend"
	"github.com/nor-sfs/norfs/ferr"
)

func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// walkChainAddrs follows the occupied chain starting at head via each
// block's next pointer, returning every address visited in order (spec
// §4.5: "Count existing blocks by walking the chain from blocks.block[0]
// until next = 0"). It returns an empty slice for head == 0.
func walkChainAddrs(dev backend.Device, head uint32) ([]uint32, error) {
	var addrs []uint32
	cur := head
	for cur != 0 {
		addrs = append(addrs, cur)
		meta, _, err := readBlock(dev, cur)
		if err != nil {
			return nil, err
		}
		cur = meta.next
	}
	return addrs, nil
}

// resize implements spec §4.5. On NO_DATA_BLOCKS it leaves n untouched:
// the free-list walk below is read-only until every needed block has been
// confirmed available, so a failed extension never mutates the inode or
// commits any free-list blocks.
func resize(dev backend.Device, sb *superblock, n *inode, newSize uint32) error {
	if newSize <= n.allocSize {
		n.size = newSize
		return nil
	}

	payload := uint32(dataPayload(dev.SectorSize()))
	newAlloc := ceilDiv(newSize, payload) * payload
	neededTotal := int(newAlloc / payload)

	existing, err := walkChainAddrs(dev, n.block[0])
	if err != nil {
		return err
	}
	existingCount := len(existing)

	additional := neededTotal - existingCount
	if additional < 0 {
		additional = 0
	}

	needIndirect := neededTotal > 2 && n.blockIndirect == 0
	totalTake := additional
	if needIndirect {
		totalTake++
	}

	var taken []uint32
	var newFreeBlocks uint32
	if totalTake > 0 {
		taken, newFreeBlocks, err = takeFreeBlocks(dev, sb.freeBlocks, totalTake)
		if err != nil {
			return ferr.New(ferr.NoDataBlocks)
		}
	} else {
		newFreeBlocks = sb.freeBlocks
	}

	indirectAddr := n.blockIndirect
	dataTaken := taken
	if needIndirect {
		indirectAddr = taken[0]
		dataTaken = taken[1:]
	}

	// Chain the newly taken data blocks in order, capping the new tail.
	for i, addr := range dataTaken {
		next := uint32(0)
		if i+1 < len(dataTaken) {
			next = dataTaken[i+1]
		}
		if err := writeFreeBlock(dev, addr, next); err != nil {
			return err
		}
	}

	// Splice the new blocks onto the tail of the existing chain.
	if existingCount > 0 && len(dataTaken) > 0 {
		tail := existing[existingCount-1]
		meta, data, err := readBlock(dev, tail)
		if err != nil {
			return err
		}
		meta.next = dataTaken[0]
		if err := writeBlock(dev, tail, meta, data[:meta.datasize]); err != nil {
			return err
		}
	}

	allAddrs := append(append([]uint32{}, existing...), dataTaken...)

	if needIndirect || n.blockIndirect != 0 {
		var indirectAddrs []uint32
		if len(allAddrs) > 2 {
			indirectAddrs = allAddrs[2:]
		}
		indirectBuf := encodeIndirectPayload(indirectAddrs, int(payload))
		meta := &blockMeta{next: 0, datasize: uint32(len(indirectAddrs) * 4)}
		if err := writeBlock(dev, indirectAddr, meta, indirectBuf); err != nil {
			return err
		}
	}

	sb.freeBlocks = newFreeBlocks
	if len(allAddrs) > 0 {
		n.block[0] = allAddrs[0]
	}
	if len(allAddrs) > 1 {
		n.block[1] = allAddrs[1]
	}
	n.blockIndirect = indirectAddr
	n.size = newSize
	n.allocSize = newAlloc
	return nil
}

// freeChain returns every block in the inode's chain (and, recursively,
// its indirect block) to the free-blocks list, mirroring
// sfs_deletedatablock's recursive handling of the indirect pointer as a
// degenerate one-block chain.
func freeChain(dev backend.Device, sb *superblock, n *inode) error {
	if n.blockIndirect != 0 {
		indirect := &inode{block: [2]uint32{n.blockIndirect, 0}}
		if err := freeChain(dev, sb, indirect); err != nil {
			return err
		}
	}
	if n.block[0] == 0 {
		return nil
	}
	addrs, err := walkChainAddrs(dev, n.block[0])
	if err != nil {
		return err
	}
	tail := addrs[len(addrs)-1]
	if err := writeFreeBlock(dev, tail, sb.freeBlocks); err != nil {
		return err
	}
	sb.freeBlocks = n.block[0]
	return nil
}
