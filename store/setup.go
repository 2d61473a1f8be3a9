// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"

	"github.com/herplab/herpstored/fault"
	"github.com/herplab/herpstored/storage"
	"github.com/herplab/herpstored/tabular"
)

// decoded table cache lifetime
const (
	cacheExpiry  = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// globals
//
// the embedded mutex is the process-wide lock of the concurrency
// model: every mutation and every catalog/index read holds it, so no
// two writers interleave and no reader observes a half-rewritten
// blob
type globalDataType struct {
	sync.Mutex
	handle storage.Handle
	cache  *gocache.Cache
	log    *logger.L
}

// global storage
var globalData globalDataType

// Initialise - attach the store to a storage handle
//
// this must be called before any other store function
func Initialise(handle storage.Handle) error {
	globalData.Lock()
	defer globalData.Unlock()

	if nil != globalData.handle {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("store")
	globalData.log.Info("starting…")

	globalData.handle = handle
	globalData.cache = gocache.New(cacheExpiry, cacheCleanup)

	return nil
}

// Finalise - detach from the storage handle
func Finalise() {
	globalData.Lock()
	defer globalData.Unlock()

	if nil == globalData.handle {
		return
	}

	globalData.log.Info("shutting down…")
	globalData.cache.Flush()
	globalData.handle = nil
}

// read a serialized table blob and decode it
//
// an absent blob is the valid empty table; rows that fail to decode
// are logged and skipped, the remainder still load
//
// caller must hold the global lock
func readTable(sentinelKey string, columns int) ([][]string, error) {
	if cached, found := globalData.cache.Get(sentinelKey); found {
		return cached.([][]string), nil
	}

	blob, err := globalData.handle.Get(sentinelKey)
	if nil != err {
		return nil, err
	}

	rows, skipped := tabular.Decode(string(blob), columns)
	if 0 != skipped {
		globalData.log.Warnf("table: %q skipped %d malformed row(s)", sentinelKey, skipped)
	}

	globalData.cache.Set(sentinelKey, rows, gocache.DefaultExpiration)
	return rows, nil
}

// queue a full rewrite of a table blob onto a batch
//
// the old blob is deleted and, when any rows remain, the new
// encoding is put back; an empty table leaves no key behind
//
// caller must hold the global lock and must Write the batch
func queueTable(batch *storage.Batch, sentinelKey string, rows [][]string) {
	globalData.cache.Delete(sentinelKey)

	batch.Delete(sentinelKey)
	if 0 != len(rows) {
		batch.Put(sentinelKey, []byte(tabular.Encode(rows)))
	}
}
