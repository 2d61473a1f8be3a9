// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/herplab/herpstored/fault"
)

// default LevelDB block cache, matches the desktop build
const defaultCacheSize = 32 * 1024 * 1024

// holds the database handle
var globalData struct {
	sync.RWMutex
	database *leveldb.DB
	log      *logger.L
}

// Initialise - open up the database connection
//
// the directory is created if it does not exist, so a freshly
// created empty directory and a previously populated one are
// handled identically
//
// this must be called before any other storage function
func Initialise(directory string, cacheSize int) error {
	globalData.Lock()
	defer globalData.Unlock()

	if nil != globalData.database {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("storage")
	globalData.log.Infof("opening database: %q", directory)

	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	opt := &ldb_opt.Options{
		ErrorIfExist:       false,
		ErrorIfMissing:     false,
		BlockCacheCapacity: cacheSize,
		Compression:        ldb_opt.SnappyCompression,
	}

	db, err := leveldb.OpenFile(directory, opt)
	if nil != err {
		globalData.log.Criticalf("open failed: %s", err)
		return err
	}

	globalData.database = db
	return nil
}

// Finalise - close the database connection
func Finalise() {
	globalData.Lock()
	defer globalData.Unlock()

	if nil != globalData.database {
		globalData.log.Info("closing database")
		// a failed close can lose synced state, do not limp on
		fault.PanicIfError("storage.Finalise", globalData.database.Close())
		globalData.database = nil
	}
}

// IsInitialised - for callers that need to verify the lifecycle state
func IsInitialised() bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return nil != globalData.database
}

// Access - obtain the handle used for all data operations
func Access() Handle {
	return &poolAccess{}
}
