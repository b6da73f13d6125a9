package sfs

import (
	"time"

	"github.com/nor-sfs/norfs/backend"
)

// sleep is a package variable so tests can zero out the backoff ladder
// instead of a multi-second test run; production code leaves it as
// time.Sleep.
var sleep = time.Sleep

// rewriteSector implements spec §4.2's Rewrite-sector(addr, bytes, n):
// erase the sector, then program it back in writeSize-sized chunks. It
// deliberately does not call Device.WriteSector — that method exists for
// callers who already know their data fits one program op, but the
// checksum/retry protocol always walks the geometry explicitly so the
// chunk size used for verification later matches what was programmed.
func rewriteSector(dev backend.Device, addr uint32, data []byte) error {
	if err := dev.EraseSector(addr); err != nil {
		return err
	}
	n := len(data)
	ws := dev.WriteSize()
	for i := 0; i < n; i += ws {
		chunk := ws
		if i+chunk > n {
			chunk = n - i
		}
		if err := dev.Write(addr+uint32(i), data[i:i+chunk], chunk); err != nil {
			return err
		}
	}
	return nil
}

// readRetry implements spec §4.2's Read(structure): up to retryCount
// attempts, backing off between them, accepting on the first checksum
// match and returning the last attempt's bytes regardless if none match.
// Each attempt fills buf from the device at addr; valid reports whether buf
// now holds a structure whose embedded checksum is self-consistent.
func readRetry(dev backend.Device, addr uint32, buf []byte, valid func([]byte) bool) error {
	for attempt := 0; attempt < retryCount; attempt++ {
		if attempt > 0 {
			sleep(backoffDelays[attempt])
		}
		if err := dev.Read(addr, buf, len(buf)); err != nil {
			return err
		}
		if valid(buf) {
			return nil
		}
	}
	return nil
}

// writeRetry implements spec §4.2's Write(structure): rewrite the sector,
// then read back and verify, backing off and retrying on mismatch. verify
// re-reads the just-written structure from the device and reports whether
// it matches what was written; it is the caller's job to know whether that means
// a structure-checksum recompute (superblock, data block) or a cached
// whole-sector checksum (inode sectors).
func writeRetry(dev backend.Device, addr uint32, sector []byte, verify func() bool) error {
	var lastErr error
	for attempt := 0; attempt < retryCount; attempt++ {
		if attempt > 0 {
			sleep(backoffDelays[attempt])
		}
		if err := rewriteSector(dev, addr, sector); err != nil {
			lastErr = err
			continue
		}
		if verify() {
			return nil
		}
	}
	return lastErr
}
