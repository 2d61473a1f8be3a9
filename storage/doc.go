// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// This wraps the LevelDB engine and exposes only what the record
// layer above needs: point get/put/delete, an atomic batch of
// deletes and puts, and checksum-verified reads.  All writes are
// synchronous so that a completed operation survives a process
// crash.
//
// The key space is flat.  Sentinel keys address the four serialized
// table blobs and composite keys address individual log entry
// fields; both kinds live side by side in the same database.
package storage
