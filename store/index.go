// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"github.com/herplab/herpstored/fault"
	"github.com/herplab/herpstored/records"
	"github.com/herplab/herpstored/storage"
)

// column count of the record index blob
const indexColumns = 4

// GetIndex - decode all rows of the record index
//
// rows come back in blob line order; the date range query depends on
// this enumeration order for its tie break
func GetIndex() ([]records.IndexRow, error) {
	globalData.Lock()
	defer globalData.Unlock()
	return getIndex()
}

// AddIndex - tie a log entry to its (licensee, species, individual)
// triple
//
// all four identifiers are required; same read-append-rewrite
// protocol as the catalogs
func AddIndex(recordID string, licenseeID string, speciesID string, nameID string) error {
	if "" == recordID {
		return fault.ErrRequiredRecordId
	}
	if "" == licenseeID || "" == speciesID || "" == nameID {
		return fault.ErrRequiredIdentifier
	}

	globalData.Lock()
	defer globalData.Unlock()
	return addIndex(recordID, licenseeID, speciesID, nameID)
}

// DeleteIndex - remove the index row for one log entry
//
// a record id that is not present is a no-op
func DeleteIndex(recordID string) error {
	if "" == recordID {
		return fault.ErrRequiredRecordId
	}

	globalData.Lock()
	defer globalData.Unlock()

	rows, err := getIndex()
	if nil != err {
		return err
	}

	raw := make([][]string, 0, len(rows))
	for _, row := range rows {
		if row.RecordID == recordID {
			continue
		}
		raw = append(raw, []string{row.RecordID, row.LicenseeID, row.SpeciesID, row.NameID})
	}

	batch := new(storage.Batch)
	queueTable(batch, records.RecordIndexKey, raw)

	err = globalData.handle.Write(batch)
	if nil != err {
		globalData.log.Errorf("index delete: %q write failed: %s", recordID, err)
		return err
	}

	globalData.log.Debugf("index delete: %q", recordID)
	return nil
}

// internal versions below assume the caller holds the global lock

func getIndex() ([]records.IndexRow, error) {
	raw, err := readTable(records.RecordIndexKey, indexColumns)
	if nil != err {
		return nil, err
	}

	rows := make([]records.IndexRow, len(raw))
	for i, r := range raw {
		rows[i] = records.IndexRow{
			RecordID:   r[0],
			LicenseeID: r[1],
			SpeciesID:  r[2],
			NameID:     r[3],
		}
	}
	return rows, nil
}

func addIndex(recordID string, licenseeID string, speciesID string, nameID string) error {
	rows, err := getIndex()
	if nil != err {
		return err
	}

	raw := make([][]string, 0, len(rows)+1)
	for _, row := range rows {
		raw = append(raw, []string{row.RecordID, row.LicenseeID, row.SpeciesID, row.NameID})
	}
	raw = append(raw, []string{recordID, licenseeID, speciesID, nameID})

	batch := new(storage.Batch)
	queueTable(batch, records.RecordIndexKey, raw)

	err = globalData.handle.Write(batch)
	if nil != err {
		globalData.log.Errorf("index add: %q write failed: %s", recordID, err)
		return err
	}

	globalData.log.Debugf("index add: %q -> (%q, %q, %q)", recordID, licenseeID, speciesID, nameID)
	return nil
}
