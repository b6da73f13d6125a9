package vfs

import (
	"strings"

	"github.com/nor-sfs/norfs/ferr"
)

// splitpath tokenizes path on '/' (spec §4.8). A leading '/' makes it
// absolute; otherwise cwd's token vector is prepended. "." tokens are
// dropped; ".." pops the previous token, failing WrongPath if there is
// nothing to pop (so a relative path can't escape above empty cwd; Cd
// handles the root-is-a-no-op case separately).
func splitpath(path string, cwd []string) ([]string, error) {
	full := len(path)
	if !strings.HasPrefix(path, "/") {
		full += len("/"+strings.Join(cwd, "/")) + 1
	}
	if full > PathMax {
		return nil, ferr.New(ferr.PathTooBig)
	}
	var tokens []string
	if !strings.HasPrefix(path, "/") {
		tokens = append(tokens, cwd...)
	}
	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(tokens) == 0 {
				return nil, ferr.New(ferr.WrongPath)
			}
			tokens = tokens[:len(tokens)-1]
		default:
			tokens = append(tokens, part)
		}
	}
	if len(tokens) > PathMaxTokens {
		return nil, ferr.New(ferr.PathTooLong)
	}
	return tokens, nil
}

// Cwd returns the current working directory as an absolute path string.
func (v *VFS) Cwd() string {
	return "/" + strings.Join(v.cwd, "/")
}

// Cd changes the current working directory. Per spec Boundary behaviors,
// cd("..") at root leaves cwd unchanged rather than failing: splitpath
// would reject popping an empty vector, so that case is special-cased here
// instead of propagating WrongPath to an otherwise harmless no-op.
func (v *VFS) Cd(path string) error {
	if path == ".." && len(v.cwd) == 0 {
		return nil
	}
	tokens, err := splitpath(path, v.cwd)
	if err != nil {
		return err
	}
	_, _, _, err = v.dirlookup(tokens, 0)
	if err != nil {
		return err
	}
	v.cwd = tokens
	return nil
}
