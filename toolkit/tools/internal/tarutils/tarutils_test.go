// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package tarutils

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
)

func TestCreateArchiveZstdRoundTrip(t *testing.T) {
	sourceDir := t.TempDir()

	err := os.MkdirAll(filepath.Join(sourceDir, "var/log"), 0o755)
	if !assert.NoError(t, err) {
		return
	}
	err = os.WriteFile(filepath.Join(sourceDir, "var/log/messages"), []byte("log line\n"), 0o644)
	if !assert.NoError(t, err) {
		return
	}

	archivePath := filepath.Join(t.TempDir(), "out.tar.zst")

	err = CreateArchive(sourceDir, archivePath)
	if !assert.NoError(t, err) {
		return
	}

	f, err := os.Open(archivePath)
	if !assert.NoError(t, err) {
		return
	}
	defer f.Close()

	zstdReader, err := zstd.NewReader(f)
	if !assert.NoError(t, err) {
		return
	}
	defer zstdReader.Close()

	contents := map[string]string{}
	tarReader := tar.NewReader(zstdReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if !assert.NoError(t, err) {
			return
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		data, err := io.ReadAll(tarReader)
		if !assert.NoError(t, err) {
			return
		}
		contents[header.Name] = string(data)
	}

	assert.Equal(t, "log line\n", contents["var/log/messages"])
}

func TestArchiveWriterAddsUnderName(t *testing.T) {
	sourceDir := t.TempDir()
	err := os.WriteFile(filepath.Join(sourceDir, "hostname"), []byte("build-template\n"), 0o644)
	if !assert.NoError(t, err) {
		return
	}

	archivePath := filepath.Join(t.TempDir(), "out.tgz")

	w, err := NewArchiveWriter(archivePath)
	if !assert.NoError(t, err) {
		return
	}

	err = w.AddPath(filepath.Join(sourceDir, "hostname"), "etc/hostname")
	assert.NoError(t, err)

	err = w.Close()
	assert.NoError(t, err)

	info, err := os.Stat(archivePath)
	if assert.NoError(t, err) {
		assert.NotZero(t, info.Size())
	}
}

func TestNewArchiveWriterRejectsUnknownExtension(t *testing.T) {
	_, err := NewArchiveWriter(filepath.Join(t.TempDir(), "out.zip"))
	assert.Error(t, err)
}
