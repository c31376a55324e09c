// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package guestfs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/file"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/tarutils"
)

// BackupGuest wraps a DirGuest and archives every path into a compressed
// tar archive just before it is removed, truncated or overwritten. The
// archive is a safety net for destructive runs; restoring from it is left
// to standard tar tooling.
type BackupGuest struct {
	*DirGuest
	archive *tarutils.ArchiveWriter
}

func NewBackupGuest(inner *DirGuest, archivePath string) (*BackupGuest, error) {
	archive, err := tarutils.NewArchiveWriter(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup archive (%s):\n%w", archivePath, err)
	}

	logger.Log.Infof("Backing up removed guest files to (%s)", archivePath)

	return &BackupGuest{
		DirGuest: inner,
		archive:  archive,
	}, nil
}

func (g *BackupGuest) Remove(root Root, path string) error {
	err := g.backup(root, path)
	if err != nil {
		return err
	}

	return g.DirGuest.Remove(root, path)
}

func (g *BackupGuest) RemoveRecursive(root Root, path string) error {
	err := g.backup(root, path)
	if err != nil {
		return err
	}

	return g.DirGuest.RemoveRecursive(root, path)
}

func (g *BackupGuest) Truncate(root Root, path string) error {
	err := g.backup(root, path)
	if err != nil {
		return err
	}

	return g.DirGuest.Truncate(root, path)
}

func (g *BackupGuest) WriteFile(root Root, path string, content string) error {
	err := g.backup(root, path)
	if err != nil {
		return err
	}

	return g.DirGuest.WriteFile(root, path, content)
}

func (g *BackupGuest) Close() error {
	archiveErr := g.archive.Close()
	closeErr := g.DirGuest.Close()
	if archiveErr != nil {
		return archiveErr
	}
	return closeErr
}

func (g *BackupGuest) backup(root Root, path string) error {
	hostPath, err := g.resolvePath(root, path)
	if err != nil {
		return err
	}

	exists, err := file.PathExists(hostPath)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	nameInArchive := strings.TrimPrefix(filepath.Join(root.ID, path), "/")

	err = g.archive.AddPath(hostPath, nameInArchive)
	if err != nil {
		return fmt.Errorf("failed to back up (%s) before removal:\n%w", path, err)
	}

	return nil
}
