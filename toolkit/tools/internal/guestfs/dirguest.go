// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package guestfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moby/sys/mountinfo"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/envfile"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/file"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
	"golang.org/x/sys/unix"
)

const (
	// Root ID used when the guest directory itself is the only root.
	singleRootID = "/"
)

// DirGuest implements Guest on top of an already-mounted guest filesystem
// tree. Mounting the disk image itself is out of scope for this tool; the
// tree is expected to be produced by external tooling (e.g. guestmount or
// a loopback mount).
//
// The tree is either a single guest root, or a directory whose immediate
// subdirectories are each a guest root (multi-boot layouts mounted
// side by side). An exclusive flock is held on the tree for the lifetime
// of the guest handle so that two sysprep runs cannot race on the same
// mount.
type DirGuest struct {
	guestDir string
	lockFile *os.File
	roots    map[string]string
}

func NewDirGuest(guestDir string) (*DirGuest, error) {
	absGuestDir, err := filepath.Abs(guestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve guest root directory (%s):\n%w", guestDir, err)
	}

	isDir, err := file.IsDir(absGuestDir)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, fmt.Errorf("guest root (%s) is not a directory", absGuestDir)
	}

	roots, err := discoverRoots(absGuestDir)
	if err != nil {
		return nil, err
	}

	lockFile, err := acquireLock(absGuestDir)
	if err != nil {
		return nil, err
	}

	return &DirGuest{
		guestDir: absGuestDir,
		lockFile: lockFile,
		roots:    roots,
	}, nil
}

func acquireLock(guestDir string) (*os.File, error) {
	lockFile, err := os.Open(guestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open guest root (%s) for locking:\n%w", guestDir, err)
	}

	err = unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("failed to lock guest root (%s): another process may be using it:\n%w",
			guestDir, err)
	}

	return lockFile, nil
}

func discoverRoots(guestDir string) (map[string]string, error) {
	if looksLikeRoot(guestDir) {
		return map[string]string{singleRootID: guestDir}, nil
	}

	entries, err := os.ReadDir(guestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read guest root directory (%s):\n%w", guestDir, err)
	}

	roots := make(map[string]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		subDir := filepath.Join(guestDir, entry.Name())
		if looksLikeRoot(subDir) {
			roots[entry.Name()] = subDir
		}
	}

	if len(roots) == 0 {
		return nil, fmt.Errorf("no guest OS roots found under (%s)", guestDir)
	}

	return roots, nil
}

// A directory is considered an OS root if it carries a Unix /etc tree or
// a Windows system directory.
func looksLikeRoot(dir string) bool {
	for _, marker := range []string{"etc", "Windows/System32", "windows/system32"} {
		exists, err := file.PathExists(filepath.Join(dir, marker))
		if err == nil && exists {
			return true
		}
	}

	return false
}

// IsMountpoint reports whether the guest tree is backed by a real mount.
func (g *DirGuest) IsMountpoint() (bool, error) {
	mounted, err := mountinfo.Mounted(g.guestDir)
	if err != nil {
		return false, fmt.Errorf("failed to check mount table for (%s):\n%w", g.guestDir, err)
	}

	return mounted, nil
}

func (g *DirGuest) ListRoots() ([]Root, error) {
	roots := []Root(nil)
	for id := range g.roots {
		roots = append(roots, Root{ID: id})
	}

	sort.Slice(roots, func(i, j int) bool {
		return roots[i].ID < roots[j].ID
	})

	return roots, nil
}

func (g *DirGuest) InspectOsFamily(root Root) (OsFamily, error) {
	rootDir, err := g.rootDir(root)
	if err != nil {
		return OsFamilyUnknown, err
	}

	for _, windowsMarker := range []string{"Windows/System32", "windows/system32"} {
		exists, err := file.PathExists(filepath.Join(rootDir, windowsMarker))
		if err != nil {
			return OsFamilyUnknown, err
		}
		if exists {
			return OsFamilyWindows, nil
		}
	}

	osReleasePath := filepath.Join(rootDir, "etc/os-release")
	exists, err := file.PathExists(osReleasePath)
	if err != nil {
		return OsFamilyUnknown, err
	}
	if exists {
		fields, err := envfile.ParseEnvFile(osReleasePath)
		if err != nil {
			logger.Log.Warnf("Failed to parse os-release of root (%s): %v", root.ID, err)
			return OsFamilyUnknown, nil
		}

		if fields["ID"] != "" || fields["NAME"] != "" {
			return OsFamilyLinux, nil
		}
	}

	// Older distros without os-release still carry an fstab.
	exists, err = file.PathExists(filepath.Join(rootDir, "etc/fstab"))
	if err != nil {
		return OsFamilyUnknown, err
	}
	if exists {
		return OsFamilyLinux, nil
	}

	return OsFamilyUnknown, nil
}

func (g *DirGuest) GlobExpand(root Root, pattern string) ([]string, error) {
	rootDir, err := g.rootDir(root)
	if err != nil {
		return nil, err
	}

	hostPattern := filepath.Join(rootDir, filepath.Clean("/"+pattern))

	hostMatches, err := filepath.Glob(hostPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern (%s):\n%w", pattern, err)
	}

	matches := []string(nil)
	for _, hostMatch := range hostMatches {
		guestPath, err := g.toGuestPath(rootDir, hostMatch)
		if err != nil {
			return nil, err
		}
		matches = append(matches, guestPath)
	}

	sort.Strings(matches)
	return matches, nil
}

func (g *DirGuest) PathExists(root Root, path string) (bool, error) {
	hostPath, err := g.resolvePath(root, path)
	if err != nil {
		return false, err
	}

	return file.PathExists(hostPath)
}

func (g *DirGuest) ReadFile(root Root, path string) (string, error) {
	hostPath, err := g.resolvePath(root, path)
	if err != nil {
		return "", err
	}

	return file.Read(hostPath)
}

func (g *DirGuest) Remove(root Root, path string) error {
	hostPath, err := g.resolvePath(root, path)
	if err != nil {
		return err
	}

	logger.Log.Debugf("Removing (%s) from root (%s)", path, root.ID)

	err = os.Remove(hostPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove (%s):\n%w", path, err)
	}

	return nil
}

func (g *DirGuest) RemoveRecursive(root Root, path string) error {
	hostPath, err := g.resolvePath(root, path)
	if err != nil {
		return err
	}

	logger.Log.Debugf("Removing tree (%s) from root (%s)", path, root.ID)

	err = os.RemoveAll(hostPath)
	if err != nil {
		return fmt.Errorf("failed to remove tree (%s):\n%w", path, err)
	}

	return nil
}

func (g *DirGuest) Truncate(root Root, path string) error {
	hostPath, err := g.resolvePath(root, path)
	if err != nil {
		return err
	}

	logger.Log.Debugf("Truncating (%s) in root (%s)", path, root.ID)

	err = os.Truncate(hostPath, 0)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate (%s):\n%w", path, err)
	}

	return nil
}

func (g *DirGuest) WriteFile(root Root, path string, content string) error {
	hostPath, err := g.resolvePath(root, path)
	if err != nil {
		return err
	}

	return file.Write(content, hostPath)
}

// ListDevices returns no devices: a mounted directory tree carries no raw
// block devices to operate on.
func (g *DirGuest) ListDevices() ([]string, error) {
	return nil, nil
}

func (g *DirGuest) SetFilesystemUuid(device string, uuid string) error {
	return fmt.Errorf("directory-backed guest has no raw device (%s)", device)
}

func (g *DirGuest) Close() error {
	if g.lockFile == nil {
		return nil
	}

	err := unix.Flock(int(g.lockFile.Fd()), unix.LOCK_UN)
	if err != nil {
		g.lockFile.Close()
		return fmt.Errorf("failed to unlock guest root (%s):\n%w", g.guestDir, err)
	}

	err = g.lockFile.Close()
	g.lockFile = nil
	return err
}

func (g *DirGuest) rootDir(root Root) (string, error) {
	rootDir, ok := g.roots[root.ID]
	if !ok {
		return "", fmt.Errorf("unknown guest root (%s)", root.ID)
	}

	return rootDir, nil
}

// Guest paths are confined to the root by cleaning them as absolute paths
// before joining, so that ".." segments cannot escape the tree.
func (g *DirGuest) resolvePath(root Root, path string) (string, error) {
	rootDir, err := g.rootDir(root)
	if err != nil {
		return "", err
	}

	return filepath.Join(rootDir, filepath.Clean("/"+path)), nil
}

func (g *DirGuest) toGuestPath(rootDir string, hostPath string) (string, error) {
	relPath, err := filepath.Rel(rootDir, hostPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", fmt.Errorf("path (%s) is outside the guest root", hostPath)
	}

	return "/" + filepath.ToSlash(relPath), nil
}
