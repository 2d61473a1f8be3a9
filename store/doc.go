// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package store - the catalog-indexed husbandry record store
//
// Four serialized tables live under fixed sentinel keys: the three
// catalogs (licensee, species, individual) mapping an id to its
// display value and the record index tying every log entry to its
// owning catalog triple.  A log entry's scalar fields are stored
// separately, one engine value per field, under composite keys of
// record id and field name.
//
// Every mutation follows the same discipline: read the whole blob,
// modify in memory, rewrite the whole blob in one atomic engine
// batch.  One package wide lock serializes all operations, so the
// only consistency to reason about is within a single batch.  The
// cascading deletion builds all of its blob rewrites and field
// deletes into one batch, so a crash can never leave a cascade half
// applied.
package store
