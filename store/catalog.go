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

// column count of every catalog blob
const catalogColumns = 2

// GetCatalog - decode all rows of one catalog table
//
// an absent blob yields an empty table, never an error
func GetCatalog(category records.Category) ([]records.CatalogRow, error) {
	globalData.Lock()
	defer globalData.Unlock()
	return getCatalog(category)
}

// AddCatalog - add one (id, value) row to a catalog
//
// the whole table is read, modified and rewritten as one atomic
// batch; a row with the same id is replaced in place rather than
// duplicated, so repeated adds are idempotent
func AddCatalog(category records.Category, id string, value string) error {
	if "" == id {
		return fault.ErrRequiredIdentifier
	}
	if "" == value {
		return fault.ErrRequiredCategoryValue
	}

	globalData.Lock()
	defer globalData.Unlock()
	return addCatalog(category, id, value)
}

// DeleteCatalog - remove every row whose id matches
//
// deleting an id that is not present is a no-op
func DeleteCatalog(category records.Category, id string) error {
	if "" == id {
		return fault.ErrRequiredIdentifier
	}

	globalData.Lock()
	defer globalData.Unlock()
	return deleteCatalog(category, id)
}

// CatalogValue - look up the display value for one catalog id
//
// the second result reports whether the id was present
func CatalogValue(category records.Category, id string) (string, bool, error) {
	globalData.Lock()
	defer globalData.Unlock()

	rows, err := getCatalog(category)
	if nil != err {
		return "", false, err
	}
	for _, row := range rows {
		if row.ID == id {
			return row.Value, true, nil
		}
	}
	return "", false, nil
}

// internal versions below assume the caller holds the global lock

func getCatalog(category records.Category) ([]records.CatalogRow, error) {
	tableKey, err := category.TableKey()
	if nil != err {
		return nil, err
	}

	raw, err := readTable(tableKey, catalogColumns)
	if nil != err {
		return nil, err
	}

	rows := make([]records.CatalogRow, len(raw))
	for i, r := range raw {
		rows[i] = records.CatalogRow{ID: r[0], Value: r[1]}
	}
	return rows, nil
}

func addCatalog(category records.Category, id string, value string) error {
	tableKey, err := category.TableKey()
	if nil != err {
		return err
	}

	rows, err := getCatalog(category)
	if nil != err {
		return err
	}

	replaced := false
	raw := make([][]string, 0, len(rows)+1)
	for _, row := range rows {
		if row.ID == id {
			raw = append(raw, []string{id, value})
			replaced = true
			continue
		}
		raw = append(raw, []string{row.ID, row.Value})
	}
	if !replaced {
		raw = append(raw, []string{id, value})
	}

	batch := new(storage.Batch)
	queueTable(batch, tableKey, raw)

	err = globalData.handle.Write(batch)
	if nil != err {
		globalData.log.Errorf("catalog: %s add: %q write failed: %s", category, id, err)
		return err
	}

	globalData.log.Debugf("catalog: %s add: %q = %q", category, id, value)
	return nil
}

func deleteCatalog(category records.Category, id string) error {
	tableKey, err := category.TableKey()
	if nil != err {
		return err
	}

	rows, err := getCatalog(category)
	if nil != err {
		return err
	}

	raw := make([][]string, 0, len(rows))
	for _, row := range rows {
		if row.ID == id {
			continue
		}
		raw = append(raw, []string{row.ID, row.Value})
	}

	batch := new(storage.Batch)
	queueTable(batch, tableKey, raw)

	err = globalData.handle.Write(batch)
	if nil != err {
		globalData.log.Errorf("catalog: %s delete: %q write failed: %s", category, id, err)
		return err
	}

	globalData.log.Debugf("catalog: %s delete: %q", category, id)
	return nil
}
