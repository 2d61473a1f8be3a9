// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive

import (
	"archive/zip"
	"fmt"
	"hash/crc32"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/herplab/herpstored/fault"
	"github.com/herplab/herpstored/tabular"
)

// name of the checksum manifest stored inside every archive
const manifestName = "zip_contents.csv"

// checksum algorithm tag recorded in the manifest
const checksumAlgorithm = "CRC32"

// manifest rows are: file name, checksum in hex, algorithm tag
const manifestColumns = 3

// Pack - store every file of a database directory into a zip archive
//
// a manifest of CRC32 checksums is included so that a later Unpack can
// detect a corrupted or truncated archive
func Pack(sourceDirectory string, archiveFile string) error {

	entries, err := ioutil.ReadDir(sourceDirectory)
	if nil != err {
		return err
	}

	out, err := os.Create(archiveFile)
	if nil != err {
		return err
	}
	defer out.Close()

	w := zip.NewWriter(out)

	manifest := make([][]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		data, err := ioutil.ReadFile(filepath.Join(sourceDirectory, name))
		if nil != err {
			return err
		}

		f, err := w.Create(name)
		if nil != err {
			return err
		}
		if _, err := f.Write(data); nil != err {
			return err
		}

		checksum := fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
		manifest = append(manifest, []string{name, checksum, checksumAlgorithm})
	}

	f, err := w.Create(manifestName)
	if nil != err {
		return err
	}
	if _, err := io.WriteString(f, tabular.Encode(manifest)); nil != err {
		return err
	}

	if err := w.Close(); nil != err {
		return err
	}
	return out.Close()
}

// Unpack - restore a packed database directory from a zip archive
//
// every file is verified against the manifest before anything on disk
// changes; a missing manifest or a checksum mismatch aborts the
// restore with the previous directory intact
//
// the archive is extracted into a scratch directory which then
// replaces the destination wholesale, so files already on disk never
// bleed into the restored state
func Unpack(archiveFile string, destinationDirectory string) error {

	r, err := zip.OpenReader(archiveFile)
	if nil != err {
		return err
	}
	defer r.Close()

	checksums, err := readManifest(&r.Reader)
	if nil != err {
		return err
	}

	destinationDirectory = filepath.Clean(destinationDirectory)
	parent := filepath.Dir(destinationDirectory)
	if err := os.MkdirAll(parent, 0700); nil != err {
		return err
	}

	// scratch on the same file system as the destination so the final
	// rename stays atomic
	scratch, err := ioutil.TempDir(parent, "restore")
	if nil != err {
		return err
	}
	defer os.RemoveAll(scratch)

	for _, f := range r.File {
		if manifestName == f.Name {
			continue
		}

		// archives are created flat, reject any traversal attempt
		name := filepath.Base(f.Name)
		if name != f.Name || strings.HasPrefix(name, "..") {
			return fault.ErrArchiveChecksumMismatch
		}

		expected, ok := checksums[name]
		if !ok {
			return fault.ErrArchiveChecksumMismatch
		}

		data, err := readAll(f)
		if nil != err {
			return err
		}

		checksum := fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
		if expected != checksum {
			return fault.ErrArchiveChecksumMismatch
		}

		fileName := filepath.Join(scratch, name)
		if err := ioutil.WriteFile(fileName, data, 0600); nil != err {
			return err
		}
	}

	if err := os.RemoveAll(destinationDirectory); nil != err {
		return err
	}
	return os.Rename(scratch, destinationDirectory)
}

// locate and decode the manifest entry
func readManifest(r *zip.Reader) (map[string]string, error) {
	for _, f := range r.File {
		if manifestName != f.Name {
			continue
		}

		data, err := readAll(f)
		if nil != err {
			return nil, err
		}

		rows, _ := tabular.Decode(string(data), manifestColumns)
		checksums := make(map[string]string, len(rows))
		for _, row := range rows {
			checksums[row[0]] = row[1]
		}
		return checksums, nil
	}
	return nil, fault.ErrArchiveManifestMissing
}

func readAll(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if nil != err {
		return nil, err
	}
	defer rc.Close()
	return ioutil.ReadAll(rc)
}
