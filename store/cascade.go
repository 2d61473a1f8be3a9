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

// CascadeCounts - what a cascading deletion will remove, shown to
// the caller for confirmation before anything is touched
type CascadeCounts struct {
	Licensees   int
	Species     int
	Individuals int
	LogEntries  int
}

// the full working set of one cascade: which index rows go, which
// catalog ids become unreferenced and go with them
type cascadeSet struct {
	recordIDs   []string
	licenseeIDs []string
	speciesIDs  []string
	nameIDs     []string
	survivors   [][]string // index rows written back
}

// RemoveCategory - delete a catalog id and everything reachable
// solely through it
//
// with recursive set only the single catalog row is removed; this
// is the terminal form that stops the mutual recursion between the
// three category types
//
// a top level call (recursive clear) scans the record index for
// every log entry whose triple includes the target, works out which
// other-category ids lose their last reference, presents the counts
// to the confirm callback, and on approval removes the catalog
// rows, the index rows and every field key in one atomic batch; a
// nil callback proceeds without asking
func RemoveCategory(category records.Category, id string, recursive bool, confirm func(CascadeCounts) bool) error {
	if "" == id {
		return fault.ErrRequiredIdentifier
	}

	if recursive {
		globalData.Lock()
		defer globalData.Unlock()
		return deleteCatalog(category, id)
	}

	globalData.Lock()
	set, err := collectCascade(category, id)
	globalData.Unlock()
	if nil != err {
		return err
	}

	if nil != confirm {
		counts := CascadeCounts{
			Licensees:   len(set.licenseeIDs),
			Species:     len(set.speciesIDs),
			Individuals: len(set.nameIDs),
			LogEntries:  len(set.recordIDs),
		}
		if !confirm(counts) {
			globalData.log.Infof("cascade: %s %q cancelled", category, id)
			return nil
		}
	}

	globalData.Lock()
	defer globalData.Unlock()

	// the confirmation dialog may have taken arbitrary time, so
	// rebuild the working set before touching anything
	set, err = collectCascade(category, id)
	if nil != err {
		return err
	}

	licensees, err := filterCatalog(records.LicenseeCategory, set.licenseeIDs)
	if nil != err {
		return err
	}
	species, err := filterCatalog(records.SpeciesCategory, set.speciesIDs)
	if nil != err {
		return err
	}
	individuals, err := filterCatalog(records.IndividualCategory, set.nameIDs)
	if nil != err {
		return err
	}

	batch := new(storage.Batch)
	queueTable(batch, records.LicenseeTableKey, licensees)
	queueTable(batch, records.SpeciesTableKey, species)
	queueTable(batch, records.IndividualTableKey, individuals)
	queueTable(batch, records.RecordIndexKey, set.survivors)
	for _, recordID := range set.recordIDs {
		for _, fieldName := range records.FieldNames {
			batch.Delete(records.MultipartKey(recordID, fieldName))
		}
	}

	err = globalData.handle.Write(batch)
	if nil != err {
		globalData.log.Errorf("cascade: %s %q write failed: %s", category, id, err)
		return err
	}

	globalData.log.Infof("cascade: %s %q removed %d log entries", category, id, len(set.recordIDs))
	return nil
}

// determine everything reachable solely through (category, id)
//
// a catalog id discovered through an affected log entry is only
// deleted when no surviving entry still references it; unrelated
// rows and entries stay untouched
//
// caller must hold the global lock
func collectCascade(category records.Category, id string) (*cascadeSet, error) {
	rows, err := getIndex()
	if nil != err {
		return nil, err
	}

	matches := func(row records.IndexRow) bool {
		switch category {
		case records.LicenseeCategory:
			return row.LicenseeID == id
		case records.SpeciesCategory:
			return row.SpeciesID == id
		case records.IndividualCategory:
			return row.NameID == id
		default:
			return false
		}
	}

	set := &cascadeSet{}
	affected := []records.IndexRow(nil)
	for _, row := range rows {
		if matches(row) {
			affected = append(affected, row)
			set.recordIDs = append(set.recordIDs, row.RecordID)
			continue
		}
		set.survivors = append(set.survivors,
			[]string{row.RecordID, row.LicenseeID, row.SpeciesID, row.NameID})
	}

	stillReferenced := func(pick func(records.IndexRow) string, candidate string) bool {
		for _, raw := range set.survivors {
			row := records.IndexRow{RecordID: raw[0], LicenseeID: raw[1], SpeciesID: raw[2], NameID: raw[3]}
			if pick(row) == candidate {
				return true
			}
		}
		return false
	}

	licensees := make(map[string]struct{})
	species := make(map[string]struct{})
	names := make(map[string]struct{})
	for _, row := range affected {
		licensees[row.LicenseeID] = struct{}{}
		species[row.SpeciesID] = struct{}{}
		names[row.NameID] = struct{}{}
	}

	// the target row itself goes even when nothing references it
	switch category {
	case records.LicenseeCategory:
		licensees[id] = struct{}{}
	case records.SpeciesCategory:
		species[id] = struct{}{}
	case records.IndividualCategory:
		names[id] = struct{}{}
	default:
		return nil, fault.ErrInvalidCategory
	}

	for candidate := range licensees {
		if candidate == id && records.LicenseeCategory == category {
			set.licenseeIDs = append(set.licenseeIDs, candidate)
			continue
		}
		if !stillReferenced(func(r records.IndexRow) string { return r.LicenseeID }, candidate) {
			set.licenseeIDs = append(set.licenseeIDs, candidate)
		}
	}
	for candidate := range species {
		if candidate == id && records.SpeciesCategory == category {
			set.speciesIDs = append(set.speciesIDs, candidate)
			continue
		}
		if !stillReferenced(func(r records.IndexRow) string { return r.SpeciesID }, candidate) {
			set.speciesIDs = append(set.speciesIDs, candidate)
		}
	}
	for candidate := range names {
		if candidate == id && records.IndividualCategory == category {
			set.nameIDs = append(set.nameIDs, candidate)
			continue
		}
		if !stillReferenced(func(r records.IndexRow) string { return r.NameID }, candidate) {
			set.nameIDs = append(set.nameIDs, candidate)
		}
	}

	return set, nil
}

// rewrite one catalog without the listed ids
//
// caller must hold the global lock
func filterCatalog(category records.Category, removeIDs []string) ([][]string, error) {
	rows, err := getCatalog(category)
	if nil != err {
		return nil, err
	}

	remove := make(map[string]struct{}, len(removeIDs))
	for _, id := range removeIDs {
		remove[id] = struct{}{}
	}

	raw := make([][]string, 0, len(rows))
	for _, row := range rows {
		if _, gone := remove[row.ID]; gone {
			continue
		}
		raw = append(raw, []string{row.ID, row.Value})
	}
	return raw, nil
}
