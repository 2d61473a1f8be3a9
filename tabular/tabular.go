// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package tabular - the delimited table wire format
//
// Every catalog and index blob is one text value: one row per line,
// columns joined by a comma, with the two character token "$$"
// standing in for a literal comma inside a column value.  Row arity
// is fixed per table: two columns for the catalogs, four for the
// record index, three for the archive manifest.
package tabular

import (
	"strings"
)

// wire format constants
const (
	Delimiter = ","
	Escape    = "$$"
	newline   = "\n"

	// a blob shorter than the smallest plausible row ("a,b") is
	// treated as empty; defends against reading a sentinel key that
	// was never written
	minimumBlobLength = 3
)

// Encode - serialize rows into a single blob
//
// literal delimiters inside a column value are replaced by the
// escape token; an empty row set encodes to an empty blob
func Encode(rows [][]string) string {
	if 0 == len(rows) {
		return ""
	}

	var builder strings.Builder
	for _, row := range rows {
		for i, column := range row {
			if 0 != i {
				builder.WriteString(Delimiter)
			}
			builder.WriteString(strings.ReplaceAll(column, Delimiter, Escape))
		}
		builder.WriteString(newline)
	}
	return builder.String()
}

// Decode - parse a blob into rows of exactly the given column count
//
// decoding is best effort: a line with the wrong number of columns
// is skipped and counted, the remaining lines still decode; an
// empty or implausibly short blob yields an empty table
func Decode(blob string, columns int) (rows [][]string, skipped int) {
	if len(blob) < minimumBlobLength {
		return nil, 0
	}

	for _, line := range strings.Split(blob, newline) {
		line = strings.TrimSuffix(line, "\r")
		if "" == line {
			continue
		}

		parts := strings.Split(line, Delimiter)
		if len(parts) != columns {
			skipped += 1
			continue
		}

		row := make([]string, columns)
		for i, part := range parts {
			row[i] = strings.ReplaceAll(part, Escape, Delimiter)
		}
		rows = append(rows, row)
	}
	return rows, skipped
}
