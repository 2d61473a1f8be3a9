// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package records - data structures and key construction for
// husbandry records
//
// The engine key space is flat, so the layout is fixed by
// convention: four sentinel keys address the serialized catalog and
// index blobs, and each scalar field of a log entry lives under a
// composite key of the form record_id + "_" + field_name.
package records

import (
	"strings"

	"github.com/herplab/herpstored/fault"
)

// KeySeparator - joins the parts of a composite engine key
const KeySeparator = "_"

// engine sentinel keys addressing the serialized table blobs
const (
	RecordIndexKey     = "store_unique_id"
	LicenseeTableKey   = "store_licensee_id"
	SpeciesTableKey    = "store_species_id"
	IndividualTableKey = "store_name_id"
)

// field name vocabulary for log entry composite keys
const (
	DateTime       = "date_time"
	FurtherNotes   = "further_notes"
	VitaminNotes   = "vitamin_notes"
	ToiletNotes    = "toilet_notes"
	TempNotes      = "temp_notes"
	WeightNotes    = "weight_notes"
	HydrationNotes = "hydration_notes"
	WentToilet     = "bool_went_toilet"
	HadHydration   = "bool_had_hydration"
	HadVitamins    = "bool_had_vitamins"
	WeightMeasure  = "weight_measurement"
)

// FieldNames - every per-entry field key, in storage order
var FieldNames = []string{
	DateTime,
	FurtherNotes,
	VitaminNotes,
	ToiletNotes,
	TempNotes,
	WeightNotes,
	HydrationNotes,
	WentToilet,
	HadHydration,
	HadVitamins,
	WeightMeasure,
}

// Category - selects one of the three catalog tables
type Category int

const (
	LicenseeCategory Category = iota
	SpeciesCategory
	IndividualCategory
)

// String - display name of a category
func (c Category) String() string {
	switch c {
	case LicenseeCategory:
		return "licensee"
	case SpeciesCategory:
		return "species"
	case IndividualCategory:
		return "individual"
	default:
		return "invalid"
	}
}

// ParseCategory - category from its display name
func ParseCategory(s string) (Category, error) {
	switch s {
	case "licensee":
		return LicenseeCategory, nil
	case "species":
		return SpeciesCategory, nil
	case "individual":
		return IndividualCategory, nil
	default:
		return Category(-1), fault.ErrInvalidCategory
	}
}

// TableKey - the engine sentinel key holding this category's blob
func (c Category) TableKey() (string, error) {
	switch c {
	case LicenseeCategory:
		return LicenseeTableKey, nil
	case SpeciesCategory:
		return SpeciesTableKey, nil
	case IndividualCategory:
		return IndividualTableKey, nil
	default:
		return "", fault.ErrInvalidCategory
	}
}

// MultipartKey - join key parts with the fixed separator
//
// precondition: no part may contain the separator character; the
// codec does not escape and callers owning user-supplied parts must
// validate first (see ValidKeyPart)
func MultipartKey(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

// ValidKeyPart - check a caller-supplied key part against the
// separator before it is used to build a composite key
func ValidKeyPart(part string) bool {
	return !strings.Contains(part, KeySeparator)
}

// Licensee - one row of the licensee catalog
type Licensee struct {
	LicenseeID   string // unique id, for database purposes
	LicenseeName string // the care-giver's name or serial number
}

// Species - one row of the species catalog
type Species struct {
	SpeciesID   string // unique id, for database purposes
	SpeciesName string // the species of the animal in question
}

// Individual - one row of the name/ID catalog
type Individual struct {
	NameID     string // unique id, for database purposes
	Identifier string // the animal's name or ID tag
}

// IndexRow - one row of the record index, tying a log entry to its
// owning catalog triple
type IndexRow struct {
	RecordID   string
	LicenseeID string
	SpeciesID  string
	NameID     string
}

// CatalogRow - one row of a catalog table
type CatalogRow struct {
	ID    string
	Value string
}

// Submission - a complete log entry as provided by the caller
type Submission struct {
	RecordID       string // unique id tying the separate field keys together
	DateTime       int64  // epoch seconds at submission time
	Licensee       Licensee
	Species        Species
	Individual     Individual
	FurtherNotes   string
	VitaminNotes   string
	ToiletNotes    string
	TempNotes      string
	WeightNotes    string
	HydrationNotes string
	WentToilet     bool
	HadHydration   bool
	HadVitamins    bool
	Weight         float64
}
