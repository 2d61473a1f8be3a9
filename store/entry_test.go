// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/herplab/herpstored/fault"
	"github.com/herplab/herpstored/records"
	"github.com/herplab/herpstored/store"
)

// round-trip: set followed by get returns exactly the value
func TestFieldRoundTrip(t *testing.T) {
	setup(t)
	defer teardown(t)

	testList := []struct {
		recordID  string
		fieldName string
		value     string
	}{
		{"E1", records.WeightMeasure, "50.0"},
		{"E1", records.FurtherNotes, "shed skin today, ate well"},
		{"E1", records.WentToilet, "true"},
		{"E2", records.DateTime, "1000"},
		{"E2", records.TempNotes, ""}, // empty value is a stored value
	}

	for _, item := range testList {
		assert.NoError(t, store.SetField(item.recordID, item.fieldName, item.value))
		value, err := store.GetField(item.recordID, item.fieldName)
		assert.NoError(t, err)
		assert.Equal(t, item.value, value, "field: %s", item.fieldName)
	}
}

// an unwritten field reads back as empty, not as an error
func TestFieldAbsent(t *testing.T) {
	setup(t)
	defer teardown(t)

	value, err := store.GetField("E9", records.VitaminNotes)
	assert.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestFieldOverwrite(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.NoError(t, store.SetField("E1", records.WeightMeasure, "50.0"))
	assert.NoError(t, store.SetField("E1", records.WeightMeasure, "52.5"))

	value, err := store.GetField("E1", records.WeightMeasure)
	assert.NoError(t, err)
	assert.Equal(t, "52.5", value)
}

func TestFieldDelete(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.NoError(t, store.SetField("E1", records.ToiletNotes, "as usual"))
	assert.NoError(t, store.DeleteField("E1", records.ToiletNotes))

	value, err := store.GetField("E1", records.ToiletNotes)
	assert.NoError(t, err)
	assert.Equal(t, "", value)

	// deleting an absent field is a no-op
	assert.NoError(t, store.DeleteField("E1", records.ToiletNotes))
}

func TestFieldValidation(t *testing.T) {
	setup(t)
	defer teardown(t)

	assert.Equal(t, fault.ErrRequiredRecordId, store.SetField("", records.DateTime, "1000"))
	assert.Equal(t, fault.ErrKeyContainsSeparator, store.SetField("bad_id", records.DateTime, "1000"))
}

func TestSubmit(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := store.Submit(&records.Submission{
		RecordID:       "E1",
		DateTime:       1000,
		Licensee:       records.Licensee{LicenseeID: "L1", LicenseeName: "Alice"},
		Species:        records.Species{SpeciesID: "S1", SpeciesName: "Gecko"},
		Individual:     records.Individual{NameID: "N1", Identifier: "Spike"},
		FurtherNotes:   "first weigh-in",
		WentToilet:     true,
		HadVitamins:    false,
		Weight:         50.0,
	})
	assert.NoError(t, err)

	// catalog rows were created for the newly typed ids
	value, found, err := store.CatalogValue(records.LicenseeCategory, "L1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Alice", value)

	// the index row ties the entry to its triple
	rows, err := store.GetIndex()
	assert.NoError(t, err)
	assert.Equal(t, []records.IndexRow{
		{RecordID: "E1", LicenseeID: "L1", SpeciesID: "S1", NameID: "N1"},
	}, rows)

	// fields are readable one by one
	value, err = store.GetField("E1", records.WeightMeasure)
	assert.NoError(t, err)
	assert.Equal(t, "50", value)

	value, err = store.GetField("E1", records.DateTime)
	assert.NoError(t, err)
	assert.Equal(t, "1000", value)

	value, err = store.GetField("E1", records.WentToilet)
	assert.NoError(t, err)
	assert.Equal(t, "true", value)
}

// a second submission against the same triple reuses the catalog rows
func TestSubmitSharedCatalogRows(t *testing.T) {
	setup(t)
	defer teardown(t)

	submitEntry(t, "E1", "L1", "S1", "N1", 1000, 50.0)
	submitEntry(t, "E2", "L1", "S1", "N1", 2000, 51.5)

	rows, err := store.GetCatalog(records.LicenseeCategory)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))

	index, err := store.GetIndex()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(index))
}

// a record id already holding an entry is rejected outright; a
// silent accept would clobber the older entry's fields and leave the
// index with two rows for one id
func TestSubmitDuplicateRecordID(t *testing.T) {
	setup(t)
	defer teardown(t)

	submitEntry(t, "E1", "L1", "S1", "N1", 1000, 50.0)

	err := store.Submit(&records.Submission{
		RecordID:   "E1",
		DateTime:   2000,
		Licensee:   records.Licensee{LicenseeID: "L2", LicenseeName: "Bob"},
		Species:    records.Species{SpeciesID: "S2", SpeciesName: "Skink"},
		Individual: records.Individual{NameID: "N2", Identifier: "Tail"},
	})
	assert.Equal(t, fault.ErrRecordAlreadyExists, err)

	// the original entry is intact
	rows, err := store.GetIndex()
	assert.NoError(t, err)
	assert.Equal(t, []records.IndexRow{
		{RecordID: "E1", LicenseeID: "L1", SpeciesID: "S1", NameID: "N1"},
	}, rows)

	value, err := store.GetField("E1", records.DateTime)
	assert.NoError(t, err)
	assert.Equal(t, "1000", value)
}

func TestSubmitValidation(t *testing.T) {
	setup(t)
	defer teardown(t)

	err := store.Submit(&records.Submission{})
	assert.Equal(t, fault.ErrRequiredRecordId, err)

	err = store.Submit(&records.Submission{RecordID: "E1"})
	assert.Equal(t, fault.ErrRequiredIdentifier, err)
}

// removing an entry clears every field and its index row
func TestRemoveEntry(t *testing.T) {
	setup(t)
	defer teardown(t)

	submitEntry(t, "E1", "L1", "S1", "N1", 1000, 50.0)
	submitEntry(t, "E2", "L1", "S1", "N1", 2000, 51.5)

	assert.NoError(t, store.RemoveEntry("E1"))

	for _, fieldName := range records.FieldNames {
		value, err := store.GetField("E1", fieldName)
		assert.NoError(t, err)
		assert.Equal(t, "", value, "field: %s", fieldName)
	}

	rows, err := store.GetIndex()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "E2", rows[0].RecordID)

	// the other entry is untouched
	value, err := store.GetField("E2", records.DateTime)
	assert.NoError(t, err)
	assert.Equal(t, "2000", value)
}
