package vfs

// Fixed limits, mirroring the teacher's const blocks of fixed sizes
// (filesystem/fat32's cluster/name limits) rather than a config file (spec
// design note "Configuration").
const (
	// PathMax is the maximum length in bytes of a resolved, cwd-prepended
	// path (spec §3 "VFS file descriptor", §4.8 splitpath).
	PathMax = 1024
	// PathMaxTokens bounds the number of '/'-separated tokens in a
	// resolved path.
	PathMaxTokens = 64
	// MountMax bounds the number of simultaneously active mounts.
	MountMax = 16
	// FDMax bounds the number of simultaneously open file descriptors.
	FDMax = 32
)

// OCreat mirrors POSIX O_CREAT: open() creates the target if it is missing
// (spec §4.9). No other open flags are defined in the core.
const OCreat = 1 << 0

