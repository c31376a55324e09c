// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

// Package tarutils creates tar archives with gzip or zstd compression.
package tarutils

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	pgzip "github.com/klauspost/pgzip"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
)

// ArchiveWriter writes files into a compressed tar archive incrementally.
type ArchiveWriter struct {
	outFile    *os.File
	compressor io.WriteCloser
	tarWriter  *tar.Writer
}

// NewArchiveWriter creates an archive at outputArchivePath.
// The compression format is selected from the file extension:
// .tar.gz/.tgz for gzip, .tar.zst for zstd.
func NewArchiveWriter(outputArchivePath string) (w *ArchiveWriter, err error) {
	outFile, err := os.Create(outputArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive (%s):\n%w", outputArchivePath, err)
	}
	defer func() {
		if err != nil {
			outFile.Close()
		}
	}()

	var compressor io.WriteCloser
	switch {
	case strings.HasSuffix(outputArchivePath, ".tar.gz"), strings.HasSuffix(outputArchivePath, ".tgz"):
		compressor = pgzip.NewWriter(outFile)

	case strings.HasSuffix(outputArchivePath, ".tar.zst"):
		compressor, err = zstd.NewWriter(outFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer for (%s):\n%w", outputArchivePath, err)
		}

	default:
		return nil, fmt.Errorf("unsupported archive extension (%s): expected .tar.gz, .tgz or .tar.zst",
			outputArchivePath)
	}

	return &ArchiveWriter{
		outFile:    outFile,
		compressor: compressor,
		tarWriter:  tar.NewWriter(compressor),
	}, nil
}

// AddPath adds a file or directory tree to the archive under nameInArchive.
func (w *ArchiveWriter) AddPath(srcPath string, nameInArchive string) error {
	logger.Log.Debugf("Archiving (%s) as (%s)", srcPath, nameInArchive)

	return filepath.Walk(srcPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcPath, path)
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, info.Name())
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(filepath.Join(nameInArchive, relPath))

		err = w.tarWriter.WriteHeader(header)
		if err != nil {
			return err
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(w.tarWriter, f)
		return err
	})
}

// Close flushes and closes the archive.
func (w *ArchiveWriter) Close() error {
	err := w.tarWriter.Close()
	if err != nil {
		return fmt.Errorf("failed to finalize archive:\n%w", err)
	}

	err = w.compressor.Close()
	if err != nil {
		return fmt.Errorf("failed to close compressor:\n%w", err)
	}

	err = w.outFile.Close()
	if err != nil {
		return fmt.Errorf("failed to close archive file:\n%w", err)
	}

	return nil
}

// CreateArchive archives an entire directory tree in a single call.
func CreateArchive(sourceDir string, outputArchivePath string) error {
	logger.Log.Infof("Creating archive (%s) from (%s)", outputArchivePath, sourceDir)

	w, err := NewArchiveWriter(outputArchivePath)
	if err != nil {
		return err
	}

	err = w.AddPath(sourceDir, ".")
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to create archive (%s):\n%w", outputArchivePath, err)
	}

	return w.Close()
}
