// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identifier - unique identifiers for records and catalog rows
package identifier

import (
	"strings"

	"github.com/google/uuid"
)

// length of the abbreviated form
const shortLength = 8

// New - create a full length unique identifier
//
// a random version 4 UUID rendered in uppercase canonical form;
// collisions are negligible at the expected record volumes
func New() string {
	return strings.ToUpper(uuid.New().String())
}

// NewShort - create an abbreviated identifier
//
// the first eight characters of a freshly generated identifier;
// only suitable as a user-facing default for an animal's tag, the
// space is far too small for uniqueness-critical keys
func NewShort() string {
	return New()[:shortLength]
}
