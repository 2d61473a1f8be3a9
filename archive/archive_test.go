// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive_test

import (
	"archive/zip"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/herplab/herpstored/archive"
	"github.com/herplab/herpstored/fault"
)

func makeWorkspace(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "archive-test")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	for name, content := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0600); nil != err {
			t.Fatalf("write error: %s", err)
		}
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	dir, cleanup := makeWorkspace(t)
	defer cleanup()

	source := filepath.Join(dir, "source")
	assert.NoError(t, os.Mkdir(source, 0700), "mkdir error")

	files := map[string]string{
		"000001.log":  "log records, with a comma",
		"CURRENT":     "MANIFEST-000002\n",
		"LOCK":        "",
		"MANIFEST-01": "binary\x00ish\x01data",
	}
	writeFiles(t, source, files)

	archiveFile := filepath.Join(dir, "backup.zip")
	assert.NoError(t, archive.Pack(source, archiveFile), "pack error")

	destination := filepath.Join(dir, "restored")
	assert.NoError(t, archive.Unpack(archiveFile, destination), "unpack error")

	for name, content := range files {
		data, err := ioutil.ReadFile(filepath.Join(destination, name))
		assert.NoError(t, err, "read error: %s", name)
		assert.Equal(t, content, string(data), "wrong content: %s", name)
	}

	// the manifest is internal and must not be restored
	_, err := os.Stat(filepath.Join(destination, "zip_contents.csv"))
	assert.True(t, os.IsNotExist(err), "manifest must not be extracted")
}

// a restore replaces the destination wholesale: files on disk that
// are not in the archive must not survive into the restored state
func TestUnpackReplacesExistingDirectory(t *testing.T) {
	dir, cleanup := makeWorkspace(t)
	defer cleanup()

	source := filepath.Join(dir, "source")
	assert.NoError(t, os.Mkdir(source, 0700), "mkdir error")
	writeFiles(t, source, map[string]string{
		"000001.ldb": "current data",
		"CURRENT":    "MANIFEST-000002\n",
	})

	archiveFile := filepath.Join(dir, "backup.zip")
	assert.NoError(t, archive.Pack(source, archiveFile), "pack error")

	destination := filepath.Join(dir, "restored")
	assert.NoError(t, os.Mkdir(destination, 0700), "mkdir error")
	writeFiles(t, destination, map[string]string{
		"000009.ldb": "stale data",
	})

	assert.NoError(t, archive.Unpack(archiveFile, destination), "unpack error")

	_, err := os.Stat(filepath.Join(destination, "000009.ldb"))
	assert.True(t, os.IsNotExist(err), "stale file survived the restore")

	data, err := ioutil.ReadFile(filepath.Join(destination, "000001.ldb"))
	assert.NoError(t, err, "read error")
	assert.Equal(t, "current data", string(data))
}

// a failed verification must leave the existing destination untouched
func TestUnpackFailureKeepsExistingDirectory(t *testing.T) {
	dir, cleanup := makeWorkspace(t)
	defer cleanup()

	archiveFile := filepath.Join(dir, "broken.zip")
	buildArchive(t, archiveFile, map[string]string{
		"CURRENT":          "tampered content",
		"zip_contents.csv": "CURRENT,00000000,CRC32\n",
	})

	destination := filepath.Join(dir, "restored")
	assert.NoError(t, os.Mkdir(destination, 0700), "mkdir error")
	writeFiles(t, destination, map[string]string{
		"CURRENT": "previous state",
	})

	err := archive.Unpack(archiveFile, destination)
	assert.Equal(t, fault.ErrArchiveChecksumMismatch, err, "wrong error")

	data, err := ioutil.ReadFile(filepath.Join(destination, "CURRENT"))
	assert.NoError(t, err, "read error")
	assert.Equal(t, "previous state", string(data))
}

// build a raw archive to drive the failure paths
func buildArchive(t *testing.T, fileName string, entries map[string]string) {
	out, err := os.Create(fileName)
	if nil != err {
		t.Fatalf("create error: %s", err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	for name, content := range entries {
		f, err := w.Create(name)
		if nil != err {
			t.Fatalf("zip create error: %s", err)
		}
		if _, err := io.WriteString(f, content); nil != err {
			t.Fatalf("zip write error: %s", err)
		}
	}
	if err := w.Close(); nil != err {
		t.Fatalf("zip close error: %s", err)
	}
}

func TestUnpackMissingManifest(t *testing.T) {
	dir, cleanup := makeWorkspace(t)
	defer cleanup()

	archiveFile := filepath.Join(dir, "broken.zip")
	buildArchive(t, archiveFile, map[string]string{
		"CURRENT": "MANIFEST-000002\n",
	})

	err := archive.Unpack(archiveFile, filepath.Join(dir, "restored"))
	assert.Equal(t, fault.ErrArchiveManifestMissing, err, "wrong error")
}

func TestUnpackChecksumMismatch(t *testing.T) {
	dir, cleanup := makeWorkspace(t)
	defer cleanup()

	archiveFile := filepath.Join(dir, "broken.zip")
	buildArchive(t, archiveFile, map[string]string{
		"CURRENT":          "tampered content",
		"zip_contents.csv": "CURRENT,00000000,CRC32\n",
	})

	err := archive.Unpack(archiveFile, filepath.Join(dir, "restored"))
	assert.Equal(t, fault.ErrArchiveChecksumMismatch, err, "wrong error")
}

func TestUnpackUnlistedFile(t *testing.T) {
	dir, cleanup := makeWorkspace(t)
	defer cleanup()

	archiveFile := filepath.Join(dir, "broken.zip")
	buildArchive(t, archiveFile, map[string]string{
		"EXTRA":            "not in the manifest",
		"zip_contents.csv": "CURRENT,00000000,CRC32\n",
	})

	err := archive.Unpack(archiveFile, filepath.Join(dir, "restored"))
	assert.Equal(t, fault.ErrArchiveChecksumMismatch, err, "wrong error")
}
