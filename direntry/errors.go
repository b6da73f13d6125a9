package direntry

import "errors"

// Package-local errors. The vfs package, the only caller that manipulates
// directory payloads, maps these onto the shared ferr taxonomy
// (ErrExists -> ferr.AlreadyExists, ErrFull -> ferr.NoDataBlocks,
// ErrNotFound -> ferr.NameNotFound) since direntry itself has no notion of
// the wider error taxonomy.
var (
	ErrExists   = errors.New("direntry: name already exists")
	ErrFull     = errors.New("direntry: no sentinel slot available")
	ErrNotFound = errors.New("direntry: inode not present in directory")
)
