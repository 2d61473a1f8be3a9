// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"strconv"

	"github.com/herplab/herpstored/fault"
	"github.com/herplab/herpstored/records"
	"github.com/herplab/herpstored/storage"
)

// SetField - store one scalar field of a log entry
//
// an empty value is explicitly allowed and distinct from a field
// that was never written; the old value is deleted and the new one
// put in a single batch so no stale residue can survive
func SetField(recordID string, fieldName string, value string) error {
	if "" == recordID {
		return fault.ErrRequiredRecordId
	}
	if !records.ValidKeyPart(recordID) {
		return fault.ErrKeyContainsSeparator
	}

	globalData.Lock()
	defer globalData.Unlock()
	return setField(recordID, fieldName, value)
}

// GetField - read one scalar field of a log entry
//
// an absent field reads back as the empty string; only external
// knowledge of which fields are mandatory distinguishes "absent"
// from "written as empty"
func GetField(recordID string, fieldName string) (string, error) {
	globalData.Lock()
	defer globalData.Unlock()
	return getField(recordID, fieldName)
}

// DeleteField - remove one scalar field of a log entry
//
// deleting an absent field is a no-op
func DeleteField(recordID string, fieldName string) error {
	if "" == recordID {
		return fault.ErrRequiredRecordId
	}

	globalData.Lock()
	defer globalData.Unlock()

	batch := new(storage.Batch)
	batch.Delete(records.MultipartKey(recordID, fieldName))
	return globalData.handle.Write(batch)
}

// Submit - store a complete log entry
//
// catalog rows for any newly typed licensee, species or individual
// are created first, then the record index row, then every field
// value; the caller sees one successful submission or the first
// failing step's error
//
// a record id that already has an entry is rejected, never merged
func Submit(submission *records.Submission) error {
	if "" == submission.RecordID {
		return fault.ErrRequiredRecordId
	}
	if "" == submission.Licensee.LicenseeID ||
		"" == submission.Species.SpeciesID ||
		"" == submission.Individual.NameID {
		return fault.ErrRequiredIdentifier
	}
	if !records.ValidKeyPart(submission.RecordID) {
		return fault.ErrKeyContainsSeparator
	}

	globalData.Lock()
	defer globalData.Unlock()

	// a colliding record id would silently clobber the older entry's
	// fields, so check the one field every entry carries
	taken, err := globalData.handle.Has(records.MultipartKey(submission.RecordID, records.DateTime))
	if nil != err {
		return err
	}
	if taken {
		return fault.ErrRecordAlreadyExists
	}

	// create any catalog rows this entry references for the first time
	catalogAdds := []struct {
		category records.Category
		id       string
		value    string
	}{
		{records.LicenseeCategory, submission.Licensee.LicenseeID, submission.Licensee.LicenseeName},
		{records.SpeciesCategory, submission.Species.SpeciesID, submission.Species.SpeciesName},
		{records.IndividualCategory, submission.Individual.NameID, submission.Individual.Identifier},
	}
	for _, add := range catalogAdds {
		rows, err := getCatalog(add.category)
		if nil != err {
			return err
		}
		present := false
		for _, row := range rows {
			if row.ID == add.id {
				present = true
				break
			}
		}
		if !present {
			if err := addCatalog(add.category, add.id, add.value); nil != err {
				return err
			}
		}
	}

	err = addIndex(submission.RecordID,
		submission.Licensee.LicenseeID,
		submission.Species.SpeciesID,
		submission.Individual.NameID)
	if nil != err {
		return err
	}

	// all field values in one batch
	batch := new(storage.Batch)
	for fieldName, value := range fieldValues(submission) {
		key := records.MultipartKey(submission.RecordID, fieldName)
		batch.Delete(key)
		batch.Put(key, []byte(value))
	}

	err = globalData.handle.Write(batch)
	if nil != err {
		globalData.log.Errorf("submit: %q write failed: %s", submission.RecordID, err)
		return err
	}

	globalData.log.Infof("submit: %q at: %d", submission.RecordID, submission.DateTime)
	return nil
}

// RemoveEntry - destroy one log entry
//
// every field key and the record index row go in a single batch, so
// an entry is never left half-deleted
func RemoveEntry(recordID string) error {
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
	for _, fieldName := range records.FieldNames {
		batch.Delete(records.MultipartKey(recordID, fieldName))
	}

	err = globalData.handle.Write(batch)
	if nil != err {
		globalData.log.Errorf("remove entry: %q write failed: %s", recordID, err)
		return err
	}

	globalData.log.Infof("remove entry: %q", recordID)
	return nil
}

// internal versions below assume the caller holds the global lock

func setField(recordID string, fieldName string, value string) error {
	key := records.MultipartKey(recordID, fieldName)

	batch := new(storage.Batch)
	batch.Delete(key)
	batch.Put(key, []byte(value))

	err := globalData.handle.Write(batch)
	if nil != err {
		globalData.log.Errorf("set field: %q write failed: %s", key, err)
		return err
	}
	return nil
}

func getField(recordID string, fieldName string) (string, error) {
	value, err := globalData.handle.Get(records.MultipartKey(recordID, fieldName))
	if nil != err {
		return "", err
	}
	return string(value), nil
}

// render a submission into its per-field string values
func fieldValues(submission *records.Submission) map[string]string {
	return map[string]string{
		records.DateTime:       strconv.FormatInt(submission.DateTime, 10),
		records.FurtherNotes:   submission.FurtherNotes,
		records.VitaminNotes:   submission.VitaminNotes,
		records.ToiletNotes:    submission.ToiletNotes,
		records.TempNotes:      submission.TempNotes,
		records.WeightNotes:    submission.WeightNotes,
		records.HydrationNotes: submission.HydrationNotes,
		records.WentToilet:     strconv.FormatBool(submission.WentToilet),
		records.HadHydration:   strconv.FormatBool(submission.HadHydration),
		records.HadVitamins:    strconv.FormatBool(submission.HadVitamins),
		records.WeightMeasure:  strconv.FormatFloat(submission.Weight, 'f', -1, 64),
	}
}
