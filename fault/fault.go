// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type CorruptError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised      = ExistsError("already initialised")
	ErrArchiveChecksumMismatch = CorruptError("archive file checksum mismatch")
	ErrArchiveManifestMissing  = CorruptError("archive manifest is missing")
	ErrInvalidCategory         = InvalidError("invalid category type")
	ErrInvalidLoggerChannel    = InvalidError("invalid logger channel")
	ErrKeyContainsSeparator    = InvalidError("key part contains the separator")
	ErrNotInitialised          = NotFoundError("not initialised")
	ErrRecordAlreadyExists     = ExistsError("record id already exists")
	ErrRequiredCategoryValue   = InvalidError("category value is required")
	ErrRequiredIdentifier      = InvalidError("identifier is required")
	ErrRequiredRecordId        = InvalidError("record id is required")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e CorruptError) Error() string  { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }

// determine the class of an error
func IsErrCorrupt(e error) bool  { _, ok := e.(CorruptError); return ok }
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
