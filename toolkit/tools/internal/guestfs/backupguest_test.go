// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package guestfs

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
)

func readTarGzEntries(t *testing.T, archivePath string) map[string]string {
	f, err := os.Open(archivePath)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer f.Close()

	gzReader, err := pgzip.NewReader(f)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer gzReader.Close()

	entries := map[string]string{}
	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if !assert.NoError(t, err) {
			t.FailNow()
		}

		content := []byte(nil)
		if header.Typeflag == tar.TypeReg {
			content, err = io.ReadAll(tarReader)
			if !assert.NoError(t, err) {
				t.FailNow()
			}
		}

		entries[header.Name] = string(content)
	}

	return entries
}

func TestBackupGuestArchivesRemovedFiles(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release":   "ID=fedora\n",
		"var/log/messages": "log line\n",
		"etc/machine-id":   "f3c5a9b0c7d84d6c9f0e8a2b1d4c6e8f\n",
	})

	archivePath := filepath.Join(t.TempDir(), "removed.tar.gz")

	dirGuest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}

	guest, err := NewBackupGuest(dirGuest, archivePath)
	if !assert.NoError(t, err) {
		dirGuest.Close()
		return
	}

	root := Root{ID: "/"}

	err = guest.Remove(root, "/var/log/messages")
	assert.NoError(t, err)

	err = guest.Truncate(root, "/etc/machine-id")
	assert.NoError(t, err)

	err = guest.Close()
	if !assert.NoError(t, err) {
		return
	}

	entries := readTarGzEntries(t, archivePath)
	assert.Equal(t, "log line\n", entries["var/log/messages"])
	assert.Equal(t, "f3c5a9b0c7d84d6c9f0e8a2b1d4c6e8f\n", entries["etc/machine-id"])

	assert.NoFileExists(t, filepath.Join(guestDir, "var/log/messages"))
}

func TestBackupGuestSkipsAbsentPaths(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release": "ID=fedora\n",
	})

	archivePath := filepath.Join(t.TempDir(), "removed.tar.gz")

	dirGuest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}

	guest, err := NewBackupGuest(dirGuest, archivePath)
	if !assert.NoError(t, err) {
		dirGuest.Close()
		return
	}

	// Removing a path that is already gone archives nothing and is not an
	// error.
	err = guest.Remove(Root{ID: "/"}, "/var/log/messages")
	assert.NoError(t, err)

	err = guest.Close()
	if !assert.NoError(t, err) {
		return
	}

	entries := readTarGzEntries(t, archivePath)
	assert.Empty(t, entries)
}

func TestBackupGuestRejectsUnknownExtension(t *testing.T) {
	guestDir := t.TempDir()
	writeTree(t, guestDir, map[string]string{
		"etc/os-release": "ID=fedora\n",
	})

	dirGuest, err := NewDirGuest(guestDir)
	if !assert.NoError(t, err) {
		return
	}
	defer dirGuest.Close()

	_, err = NewBackupGuest(dirGuest, filepath.Join(t.TempDir(), "removed.zip"))
	assert.Error(t, err)
}
