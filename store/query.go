// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"sort"
	"strconv"

	"github.com/herplab/herpstored/records"
)

// ExtractRecords - all log entries dated within [dateStart, dateEnd]
//
// the engine has no range index, so this is a full scan of the
// record index with a per-id date lookup; ids whose date field is
// absent or unparseable are skipped as a data quality defect, not a
// query error; the result is sorted ascending by date with ties
// kept in index enumeration order
func ExtractRecords(dateStart int64, dateEnd int64) ([]string, error) {
	globalData.Lock()
	defer globalData.Unlock()

	rows, err := getIndex()
	if nil != err {
		return nil, err
	}

	type dated struct {
		recordID string
		date     int64
	}

	matched := []dated(nil)
	for _, row := range rows {
		date, ok, err := entryDate(row.RecordID)
		if nil != err {
			return nil, err
		}
		if !ok {
			globalData.log.Warnf("extract: %q has no usable date", row.RecordID)
			continue
		}
		if date >= dateStart && date <= dateEnd {
			matched = append(matched, dated{recordID: row.RecordID, date: date})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].date < matched[j].date
	})

	recordIDs := make([]string, len(matched))
	for i, m := range matched {
		recordIDs[i] = m.recordID
	}
	return recordIDs, nil
}

// MinimumDate - the earliest date among the given log entries
//
// ids with an absent or unparseable date are skipped; when nothing
// remains (including an empty input list) the sentinel 0 comes
// back, so callers must also check list emptiness before treating
// the result as a real date
func MinimumDate(recordIDs []string) (int64, error) {
	return foldDates(recordIDs, func(best int64, date int64) bool { return date < best })
}

// MaximumDate - the latest date among the given log entries
//
// same sentinel contract as MinimumDate
func MaximumDate(recordIDs []string) (int64, error) {
	return foldDates(recordIDs, func(best int64, date int64) bool { return date > best })
}

func foldDates(recordIDs []string, better func(int64, int64) bool) (int64, error) {
	globalData.Lock()
	defer globalData.Unlock()

	found := false
	best := int64(0)
	for _, recordID := range recordIDs {
		date, ok, err := entryDate(recordID)
		if nil != err {
			return 0, err
		}
		if !ok {
			continue
		}
		if !found || better(best, date) {
			best = date
			found = true
		}
	}
	return best, nil
}

// read and parse one entry's date field
//
// caller must hold the global lock
func entryDate(recordID string) (int64, bool, error) {
	value, err := getField(recordID, records.DateTime)
	if nil != err {
		return 0, false, err
	}
	if "" == value {
		return 0, false, nil
	}
	date, err := strconv.ParseInt(value, 10, 64)
	if nil != err {
		return 0, false, nil
	}
	return date, true, nil
}
