// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/herplab/herpstored/archive"
	"github.com/herplab/herpstored/configuration"
	"github.com/herplab/herpstored/fault"
	"github.com/herplab/herpstored/identifier"
	"github.com/herplab/herpstored/records"
	"github.com/herplab/herpstored/storage"
	"github.com/herplab/herpstored/store"
	"github.com/herplab/herpstored/util"
)

// report a store error in class-specific terms and exit
func exitOnError(action string, err error) {
	switch {
	case nil == err:
	case fault.IsErrInvalid(err):
		exitwithstatus.Message("Error: %s rejected: %s\n", action, err)
	case fault.IsErrExists(err):
		exitwithstatus.Message("Error: %s conflicts with stored data: %s\n", action, err)
	case fault.IsErrNotFound(err):
		exitwithstatus.Message("Error: %s before setup: %s\n", action, err)
	case fault.IsErrCorrupt(err):
		exitwithstatus.Message("Error: %s hit corrupt data: %s\n", action, err)
	default:
		exitwithstatus.Message("Error: %s failed: %s\n", action, err)
	}
}

// read the configuration and bring up logging
func getConfiguration(globals globalFlags) *configuration.Configuration {
	if !util.EnsureFileExists(globals.config) {
		exitwithstatus.Message("Error: configuration file: %q does not exist\n", globals.config)
	}

	cfg, err := configuration.GetConfiguration(globals.config)
	if nil != err {
		exitwithstatus.Message("Error: configuration file: %q: %s\n", globals.config, err)
	}

	if err := logger.Initialise(cfg.Logging); nil != err {
		exitwithstatus.Message("Error: logger setup failed: %s\n", err)
	}

	if globals.verbose {
		fmt.Printf("config: %s\n", globals.config)
		fmt.Printf("database: %s\n", cfg.Database.Name)
	}

	return cfg
}

// open the record store for one command, returning its teardown
func openStore(globals globalFlags) func() {
	cfg := getConfiguration(globals)

	fault.Initialise()

	if err := storage.Initialise(cfg.Database.Name, cfg.Database.CacheSize); nil != err {
		exitwithstatus.Message("Error: storage setup failed: %s\n", err)
	}
	if err := store.Initialise(storage.Access()); nil != err {
		storage.Finalise()
		exitwithstatus.Message("Error: store setup failed: %s\n", err)
	}

	return func() {
		store.Finalise()
		storage.Finalise()
		fault.Finalise()
		logger.Finalise()
	}
}

func checkCategory(s string) records.Category {
	category, err := records.ParseCategory(s)
	if nil != err {
		exitwithstatus.Message("Error: category: %q is not licensee, species or individual\n", s)
	}
	return category
}

func runAdd(c *cli.Context, globals globalFlags) {
	category := checkCategory(c.String("category"))

	name := c.String("name")
	if "" == name {
		// an individual can go in under a suggested tag, the way the
		// desktop release pre-fills the ID box; the other categories
		// have no sensible default
		if records.IndividualCategory != category {
			exitwithstatus.Message("Error: name is required\n")
		}
		name = identifier.NewShort()
	}

	id := c.String("id")
	if "" == id {
		id = identifier.New()
	}

	teardown := openStore(globals)
	defer teardown()

	exitOnError("add", store.AddCatalog(category, id, name))

	fmt.Printf("%s  %s\n", id, name)
}

func runList(c *cli.Context, globals globalFlags) {
	category := checkCategory(c.String("category"))

	teardown := openStore(globals)
	defer teardown()

	rows, err := store.GetCatalog(category)
	exitOnError("list", err)

	for _, row := range rows {
		fmt.Printf("%s  %s\n", row.ID, row.Value)
	}
}

func runRemove(c *cli.Context, globals globalFlags) {
	category := checkCategory(c.String("category"))

	id := c.String("id")
	if "" == id {
		exitwithstatus.Message("Error: id is required\n")
	}

	teardown := openStore(globals)
	defer teardown()

	rowOnly := c.Bool("row-only")

	confirm := func(counts store.CascadeCounts) bool {
		fmt.Printf("removing %s %q will delete:\n", category, id)
		fmt.Printf("  licensees:   %d\n", counts.Licensees)
		fmt.Printf("  species:     %d\n", counts.Species)
		fmt.Printf("  individuals: %d\n", counts.Individuals)
		fmt.Printf("  log entries: %d\n", counts.LogEntries)
		return promptYesNo("proceed")
	}
	if c.Bool("yes") {
		confirm = nil
	}

	exitOnError("remove", store.RemoveCategory(category, id, rowOnly, confirm))
}

func runSubmit(c *cli.Context, globals globalFlags) {
	licenseeID := c.String("licensee")
	speciesID := c.String("species")
	nameID := c.String("individual")
	if "" == licenseeID || "" == speciesID || "" == nameID {
		exitwithstatus.Message("Error: licensee, species and individual are required\n")
	}

	date := c.Int64("date")
	if 0 == date {
		date = time.Now().Unix()
	}

	// record ids tie every field key of the entry together, so they
	// get the full identifier, never the abbreviated form
	submission := &records.Submission{
		RecordID: identifier.New(),
		DateTime: date,
		Licensee: records.Licensee{
			LicenseeID:   licenseeID,
			LicenseeName: c.String("licensee-name"),
		},
		Species: records.Species{
			SpeciesID:   speciesID,
			SpeciesName: c.String("species-name"),
		},
		Individual: records.Individual{
			NameID:     nameID,
			Identifier: c.String("individual-name"),
		},
		FurtherNotes:   c.String("notes"),
		VitaminNotes:   c.String("vitamin-notes"),
		ToiletNotes:    c.String("toilet-notes"),
		TempNotes:      c.String("temp-notes"),
		WeightNotes:    c.String("weight-notes"),
		HydrationNotes: c.String("hydration-notes"),
		WentToilet:     c.Bool("went-toilet"),
		HadHydration:   c.Bool("had-hydration"),
		HadVitamins:    c.Bool("had-vitamins"),
		Weight:         c.Float64("weight"),
	}

	teardown := openStore(globals)
	defer teardown()

	exitOnError("submit", store.Submit(submission))

	fmt.Printf("%s\n", submission.RecordID)
}

func runShow(c *cli.Context, globals globalFlags) {
	start := c.Int64("start")
	end := c.Int64("end")
	if 0 == end {
		end = math.MaxInt64
	}

	teardown := openStore(globals)
	defer teardown()

	recordIDs, err := store.ExtractRecords(start, end)
	exitOnError("show", err)

	for _, recordID := range recordIDs {
		fmt.Printf("record: %s\n", recordID)
		for _, fieldName := range records.FieldNames {
			value, err := store.GetField(recordID, fieldName)
			exitOnError("show", err)
			fmt.Printf("  %-20s %s\n", fieldName, value)
		}
	}

	if globals.verbose && 0 != len(recordIDs) {
		minimum, err := store.MinimumDate(recordIDs)
		exitOnError("show", err)
		maximum, err := store.MaximumDate(recordIDs)
		exitOnError("show", err)
		fmt.Printf("%d entries between %d and %d\n", len(recordIDs), minimum, maximum)
	}
}

func runDeleteEntry(c *cli.Context, globals globalFlags) {
	recordID := c.String("record")
	if "" == recordID {
		exitwithstatus.Message("Error: record is required\n")
	}

	teardown := openStore(globals)
	defer teardown()

	exitOnError("delete", store.RemoveEntry(recordID))
}

// the database must be closed while its files are copied, so only
// read the configuration here and never open the store
func runSave(c *cli.Context, globals globalFlags) {
	file := c.String("file")
	if "" == file {
		exitwithstatus.Message("Error: file is required\n")
	}

	cfg := getConfiguration(globals)
	defer logger.Finalise()

	exitOnError("save", archive.Pack(cfg.Database.Name, file))

	if globals.verbose {
		fmt.Printf("saved %s to %s\n", cfg.Database.Name, file)
	}
}

func runRestore(c *cli.Context, globals globalFlags) {
	file := c.String("file")
	if "" == file {
		exitwithstatus.Message("Error: file is required\n")
	}
	if !util.EnsureFileExists(file) {
		exitwithstatus.Message("Error: archive file: %q does not exist\n", file)
	}

	cfg := getConfiguration(globals)
	defer logger.Finalise()

	exitOnError("restore", archive.Unpack(file, cfg.Database.Name))

	if globals.verbose {
		fmt.Printf("restored %s from %s\n", cfg.Database.Name, file)
	}
}

func promptYesNo(question string) bool {
	fmt.Printf("%s? [y/N]: ", question)
	reply, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if nil != err {
		return false
	}
	reply = strings.ToLower(strings.TrimSpace(reply))
	return "y" == reply || "yes" == reply
}
