// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/herplab/herpstored/records"
	"github.com/herplab/herpstored/store"
)

// the recursive form removes only the single catalog row
func TestRemoveCategoryRecursive(t *testing.T) {
	setup(t)
	defer teardown(t)

	submitEntry(t, "E1", "L1", "S1", "N1", 1000, 50.0)

	err := store.RemoveCategory(records.SpeciesCategory, "S1", true, nil)
	assert.NoError(t, err)

	rows, err := store.GetCatalog(records.SpeciesCategory)
	assert.NoError(t, err)
	assert.Empty(t, rows)

	// nothing else was touched
	index, err := store.GetIndex()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(index))

	value, err := store.GetField("E1", records.DateTime)
	assert.NoError(t, err)
	assert.Equal(t, "1000", value)
}

// spec scenario: cascade-delete a species removes its entries, the
// catalog rows reachable only through them, and nothing else
func TestRemoveCategoryCascade(t *testing.T) {
	setup(t)
	defer teardown(t)

	submitEntry(t, "E1", "L1", "S1", "N1", 1000, 50.0)
	submitEntry(t, "E2", "L1", "S1", "N1", 2000, 51.5)

	// an unrelated triple that must survive
	submitEntry(t, "E3", "L2", "S2", "N2", 3000, 120.0)

	var seen store.CascadeCounts
	err := store.RemoveCategory(records.SpeciesCategory, "S1", false,
		func(counts store.CascadeCounts) bool {
			seen = counts
			return true
		})
	assert.NoError(t, err)

	assert.Equal(t, store.CascadeCounts{
		Licensees:   1,
		Species:     1,
		Individuals: 1,
		LogEntries:  2,
	}, seen)

	// E1 and E2 are gone from the index
	index, err := store.GetIndex()
	assert.NoError(t, err)
	assert.Equal(t, []records.IndexRow{
		{RecordID: "E3", LicenseeID: "L2", SpeciesID: "S2", NameID: "N2"},
	}, index)

	// every field of the removed entries reads back empty
	for _, recordID := range []string{"E1", "E2"} {
		value, err := store.GetField(recordID, records.DateTime)
		assert.NoError(t, err)
		assert.Equal(t, "", value, "record: %s", recordID)
	}

	// S1 is gone, S2 remains
	rows, err := store.GetCatalog(records.SpeciesCategory)
	assert.NoError(t, err)
	assert.Equal(t, []records.CatalogRow{{ID: "S2", Value: "species S2"}}, rows)

	// L1 and N1 lost their last reference and are gone too
	rows, err = store.GetCatalog(records.LicenseeCategory)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "L2", rows[0].ID)

	rows, err = store.GetCatalog(records.IndividualCategory)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "N2", rows[0].ID)

	// the unrelated entry is untouched
	value, err := store.GetField("E3", records.DateTime)
	assert.NoError(t, err)
	assert.Equal(t, "3000", value)
}

// a catalog id still referenced by a surviving entry is kept
func TestRemoveCategoryKeepsSharedRows(t *testing.T) {
	setup(t)
	defer teardown(t)

	// the same licensee cares for two species
	submitEntry(t, "E1", "L1", "S1", "N1", 1000, 50.0)
	submitEntry(t, "E2", "L1", "S2", "N2", 2000, 80.0)

	err := store.RemoveCategory(records.SpeciesCategory, "S1", false, nil)
	assert.NoError(t, err)

	// L1 is still referenced through E2 and must survive
	rows, err := store.GetCatalog(records.LicenseeCategory)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "L1", rows[0].ID)

	index, err := store.GetIndex()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(index))
	assert.Equal(t, "E2", index[0].RecordID)
}

// declining the confirmation leaves everything in place
func TestRemoveCategoryDeclined(t *testing.T) {
	setup(t)
	defer teardown(t)

	submitEntry(t, "E1", "L1", "S1", "N1", 1000, 50.0)

	err := store.RemoveCategory(records.SpeciesCategory, "S1", false,
		func(store.CascadeCounts) bool { return false })
	assert.NoError(t, err)

	index, err := store.GetIndex()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(index))

	rows, err := store.GetCatalog(records.SpeciesCategory)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
}

// cascading an id with no log entries removes just its catalog row
func TestRemoveCategoryOrphan(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.NoError(t, store.AddCatalog(records.LicenseeCategory, "L1", "Alice"))

	var seen store.CascadeCounts
	err := store.RemoveCategory(records.LicenseeCategory, "L1", false,
		func(counts store.CascadeCounts) bool {
			seen = counts
			return true
		})
	assert.NoError(t, err)
	assert.Equal(t, store.CascadeCounts{Licensees: 1}, seen)

	rows, err := store.GetCatalog(records.LicenseeCategory)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
