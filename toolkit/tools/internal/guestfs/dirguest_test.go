// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package guestfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTree(t *testing.T, baseDir string, files map[string]string) {
	for name, content := range files {
		fullPath := filepath.Join(baseDir, name)

		err := os.MkdirAll(filepath.Dir(fullPath), 0o755)
		if !assert.NoError(t, err) {
			t.FailNow()
		}

		err = os.WriteFile(fullPath, []byte(content), 0o644)
		if !assert.NoError(t, err) {
			t.FailNow()
		}
	}
}

func TestDirGuestSingleRoot(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release": "ID=fedora\nNAME=\"Fedora Linux\"\n",
	})

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer guest.Close()

	roots, err := guest.ListRoots()
	if !assert.NoError(t, err) {
		return
	}
	if !assert.Len(t, roots, 1) {
		return
	}
	assert.Equal(t, "/", roots[0].ID)

	family, err := guest.InspectOsFamily(roots[0])
	assert.NoError(t, err)
	assert.Equal(t, OsFamilyLinux, family)
}

func TestDirGuestMultipleRoots(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"fedora/etc/os-release":             "ID=fedora\n",
		"win/Windows/System32/ntoskrnl.exe": "",
		"scratch/notes.txt":                 "not an OS root\n",
		"legacy/etc/fstab":                  "/dev/sda1 / ext4 defaults 0 1\n",
	})

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer guest.Close()

	roots, err := guest.ListRoots()
	if !assert.NoError(t, err) {
		return
	}

	ids := []string(nil)
	for _, root := range roots {
		ids = append(ids, root.ID)
	}
	assert.Equal(t, []string{"fedora", "legacy", "win"}, ids)

	families := map[string]OsFamily{}
	for _, root := range roots {
		family, err := guest.InspectOsFamily(root)
		assert.NoError(t, err)
		families[root.ID] = family
	}

	assert.Equal(t, OsFamilyLinux, families["fedora"])
	assert.Equal(t, OsFamilyLinux, families["legacy"])
	assert.Equal(t, OsFamilyWindows, families["win"])
}

func TestDirGuestNoRoots(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"notes.txt": "nothing bootable here\n",
	})

	_, err := NewDirGuest(guestDir)
	assert.Error(t, err)
}

func TestDirGuestUnknownFamily(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/hosts": "127.0.0.1 localhost\n",
	})

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer guest.Close()

	family, err := guest.InspectOsFamily(Root{ID: "/"})
	assert.NoError(t, err)
	assert.Equal(t, OsFamilyUnknown, family)
}

func TestDirGuestGlobExpand(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release":     "ID=fedora\n",
		"var/log/messages":   "a\n",
		"var/log/messages.1": "b\n",
		"var/log/secure":     "c\n",
	})

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer guest.Close()

	root := Root{ID: "/"}

	matches, err := guest.GlobExpand(root, "/var/log/messages*")
	assert.NoError(t, err)
	assert.Equal(t, []string{"/var/log/messages", "/var/log/messages.1"}, matches)

	matches, err = guest.GlobExpand(root, "/var/log/journal/*")
	assert.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDirGuestPathsAreConfined(t *testing.T) {
	baseDir := t.TempDir()

	guestDir := filepath.Join(baseDir, "guest")
	writeTree(t, guestDir, map[string]string{
		"etc/os-release": "ID=fedora\n",
	})

	outsideFile := filepath.Join(baseDir, "outside.txt")
	err := os.WriteFile(outsideFile, []byte("host file\n"), 0o644)
	if !assert.NoError(t, err) {
		return
	}

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer guest.Close()

	root := Root{ID: "/"}

	// ".." segments are cleaned away before the path touches the host, so
	// the sibling file is invisible and untouchable.
	matches, err := guest.GlobExpand(root, "/../outside*")
	assert.NoError(t, err)
	assert.Empty(t, matches)

	err = guest.Remove(root, "/../outside.txt")
	assert.NoError(t, err)
	assert.FileExists(t, outsideFile)
}

func TestDirGuestRemoveToleratesAbsence(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release": "ID=fedora\n",
	})

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer guest.Close()

	root := Root{ID: "/"}

	assert.NoError(t, guest.Remove(root, "/var/log/messages"))
	assert.NoError(t, guest.Truncate(root, "/etc/machine-id"))
	assert.NoError(t, guest.RemoveRecursive(root, "/var/cache/dnf"))
}

func TestDirGuestReadWriteFile(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release": "ID=fedora\n",
	})

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer guest.Close()

	root := Root{ID: "/"}

	err = guest.WriteFile(root, "/etc/hostname", "localhost.localdomain\n")
	assert.NoError(t, err)

	content, err := guest.ReadFile(root, "/etc/hostname")
	assert.NoError(t, err)
	assert.Equal(t, "localhost.localdomain\n", content)

	exists, err := guest.PathExists(root, "/etc/hostname")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestDirGuestLockIsExclusive(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release": "ID=fedora\n",
	})

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}

	_, err = NewDirGuest(guestDir)
	assert.Error(t, err)

	err = guest.Close()
	assert.NoError(t, err)

	reacquired, err := NewDirGuest(guestDir)
	if assert.NoError(t, err) {
		reacquired.Close()
	}
}

func TestDirGuestHasNoDevices(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release": "ID=fedora\n",
	})

	guest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer guest.Close()

	devices, err := guest.ListDevices()
	assert.NoError(t, err)
	assert.Empty(t, devices)

	err = guest.SetFilesystemUuid("/dev/sda1", "e4397dfc-7b3a-4e37-8a24-d7a31b6d3587")
	assert.Error(t, err)
}
