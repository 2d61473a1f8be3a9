// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/herplab/herpstored/fault"
)

// Handle - the data access interface used by the record layer
//
// Get returns a nil value and a nil error for an absent key; absence
// is the valid "no entries yet" state, not an error.  A checksum
// failure on read is surfaced as the underlying engine error.
type Handle interface {
	Get(key string) ([]byte, error)
	Has(key string) (bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Write(batch *Batch) error
}

// Batch - an atomic group of deletes and puts
//
// operations are applied in the order they were added and either all
// take effect or none do
type Batch struct {
	batch leveldb.Batch
}

// Put - append a put operation to the batch
func (b *Batch) Put(key string, value []byte) {
	b.batch.Put([]byte(key), value)
}

// Delete - append a delete operation to the batch
func (b *Batch) Delete(key string) {
	b.batch.Delete([]byte(key))
}

// every read verifies block checksums, matching the desktop build's
// verify_checksums read option
var readOptions = &ldb_opt.ReadOptions{
	Strict: ldb_opt.StrictBlockChecksum,
}

// every write is synchronous
var writeOptions = &ldb_opt.WriteOptions{
	Sync: true,
}

// concrete handle onto the package global database
type poolAccess struct{}

func (p *poolAccess) Get(key string) ([]byte, error) {
	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.database {
		return nil, fault.ErrNotInitialised
	}
	value, err := globalData.database.Get([]byte(key), readOptions)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

func (p *poolAccess) Has(key string) (bool, error) {
	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.database {
		return false, fault.ErrNotInitialised
	}
	return globalData.database.Has([]byte(key), readOptions)
}

func (p *poolAccess) Put(key string, value []byte) error {
	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.database {
		return fault.ErrNotInitialised
	}
	return globalData.database.Put([]byte(key), value, writeOptions)
}

func (p *poolAccess) Delete(key string) error {
	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.database {
		return fault.ErrNotInitialised
	}
	return globalData.database.Delete([]byte(key), writeOptions)
}

func (p *poolAccess) Write(batch *Batch) error {
	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.database {
		return fault.ErrNotInitialised
	}
	return globalData.database.Write(&batch.batch, writeOptions)
}
