// norfsctl is the informational REPL surface from spec §6.4: a
// line-oriented console over in-memory norfs devices, for poking
// at the VFS API by hand. It is not part of the core; the core's
// correctness is observable through the vfs package alone.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/nor-sfs/norfs"
	"github.com/nor-sfs/norfs/backend/memory"
	"github.com/nor-sfs/norfs/filesystem/sfs"
	"github.com/nor-sfs/norfs/vfs"
)

const (
	defaultSectorSize = 4096
	defaultWriteSize  = 256
	defaultTotalSize  = int64(defaultSectorSize) * 256
)

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	v, err := norfs.Create("norfsctl", defaultTotalSize, defaultSectorSize, defaultWriteSize)
	check(err)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("norfsctl> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			dispatch(v, strings.Fields(line))
		}
		fmt.Printf("norfsctl> ")
	}
}

func dispatch(v *vfs.VFS, args []string) {
	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "mkdir":
		err = cmdMkdir(v, rest)
	case "rm":
		err = cmdUnlink(v, rest)
	case "ls":
		err = cmdLsdir(v, rest)
	case "cd":
		err = cmdCd(v, rest)
	case "open":
		err = cmdOpen(v, rest)
	case "close":
		err = cmdClose(v, rest)
	case "read":
		err = cmdRead(v, rest)
	case "write":
		err = cmdWrite(v, rest)
	case "mount":
		err = cmdMount(v, rest)
	case "umount":
		err = v.Umount(arg0(rest))
	case "format":
		err = v.Format(arg0(rest))
	case "mountlist":
		cmdMountlist(v)
		return
	case "dumpsb":
		err = cmdDumpSuperblock(v, rest)
	case "dumpinode":
		err = cmdDumpInode(v, rest)
	case "help":
		printHelp()
		return
	default:
		fmt.Printf("unknown command %q (try: help)\n", cmd)
		return
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func arg0(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// cmdMount creates a fresh in-memory device of the default geometry,
// formats it, and mounts it at target: "mount <target>".
func cmdMount(v *vfs.VFS, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: mount <target>")
	}
	dev, err := memory.New(args[0], defaultTotalSize, defaultSectorSize, defaultWriteSize)
	if err != nil {
		return err
	}
	fs := sfs.New(dev)
	if err := fs.Format(); err != nil {
		return err
	}
	return v.Mount(dev, args[0], fs)
}

func cmdDumpSuperblock(v *vfs.VFS, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dumpsb <mount target>")
	}
	sb, err := v.DumpSuperblock(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%+v\n", sb)
	return nil
}

func cmdDumpInode(v *vfs.VFS, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dumpinode <path>")
	}
	info, err := v.DumpInode(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%+v\n", info)
	return nil
}

func cmdMkdir(v *vfs.VFS, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: mkdir <path>")
	}
	return v.Mkdir(args[0])
}

func cmdUnlink(v *vfs.VFS, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm <path>")
	}
	return v.Unlink(args[0])
}

func cmdLsdir(v *vfs.VFS, args []string) error {
	path := v.Cwd()
	if len(args) == 1 {
		path = args[0]
	}
	names, err := v.Lsdir(path)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func cmdCd(v *vfs.VFS, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cd <path>")
	}
	return v.Cd(args[0])
}

func cmdOpen(v *vfs.VFS, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: open <path> [create]")
	}
	flags := 0
	if len(args) > 1 && args[1] == "create" {
		flags = vfs.OCreat
	}
	fd, err := v.Open(args[0], flags)
	if err != nil {
		return err
	}
	fmt.Printf("fd %d\n", fd)
	return nil
}

func cmdClose(v *vfs.VFS, args []string) error {
	fd, err := parseFD(args)
	if err != nil {
		return err
	}
	return v.Close(fd)
}

func cmdRead(v *vfs.VFS, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: read <fd> <n>")
	}
	fd, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	got, err := v.Read(fd, buf)
	if err != nil {
		return err
	}
	fmt.Printf("%q\n", buf[:got])
	return nil
}

func cmdWrite(v *vfs.VFS, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: write <fd> <text>")
	}
	fd, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	n, err := v.Write(fd, []byte(args[1]))
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d bytes\n", n)
	return nil
}

func cmdMountlist(v *vfs.VFS) {
	for _, m := range v.MountList() {
		fmt.Printf("%s  %-8s %s\n", m.ID, m.Name, m.Path)
	}
}

func parseFD(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: close <fd>")
	}
	return strconv.Atoi(args[0])
}

func printHelp() {
	fmt.Println("commands: mount umount format mountlist mkdir rm ls cd open close read write dumpsb dumpinode help")
}
