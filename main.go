// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Herplab
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"

	"github.com/herplab/herpstored/version"
)

type globalFlags struct {
	verbose bool
	config  string
}

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	globals := globalFlags{}

	app := cli.NewApp()
	app.Name = "herpstored"
	app.Usage = "herpetological husbandry record store"
	app.Version = version.Version
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:        "verbose, v",
			Usage:       " verbose result",
			Destination: &globals.verbose,
		},
		cli.StringFlag{
			Name:        "config, c",
			Value:       "herpstored.conf",
			Usage:       "herpstored config file",
			Destination: &globals.config,
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "add",
			Usage:     "add or rename a licensee, species or individual",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "category, t",
					Value: "",
					Usage: "*licensee|species|individual",
				},
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: " record identifier [generated]",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*display name [individual: suggested tag]",
				},
			},
			Action: func(c *cli.Context) error {
				runAdd(c, globals)
				return nil
			},
		},
		{
			Name:      "list",
			Usage:     "list the rows of a category",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "category, t",
					Value: "",
					Usage: "*licensee|species|individual",
				},
			},
			Action: func(c *cli.Context) error {
				runList(c, globals)
				return nil
			},
		},
		{
			Name:      "remove",
			Usage:     "remove a category row and every record that depends on it",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "category, t",
					Value: "",
					Usage: "*licensee|species|individual",
				},
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: "*record identifier",
				},
				cli.BoolFlag{
					Name:  "row-only, r",
					Usage: " only remove the category row, keep dependents",
				},
				cli.BoolFlag{
					Name:  "yes, y",
					Usage: " skip the confirmation prompt",
				},
			},
			Action: func(c *cli.Context) error {
				runRemove(c, globals)
				return nil
			},
		},
		{
			Name:      "submit",
			Usage:     "submit a complete log entry",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "licensee, l",
					Value: "",
					Usage: "*licensee identifier",
				},
				cli.StringFlag{
					Name:  "species, s",
					Value: "",
					Usage: "*species identifier",
				},
				cli.StringFlag{
					Name:  "individual, a",
					Value: "",
					Usage: "*individual (animal) identifier",
				},
				cli.StringFlag{
					Name:  "licensee-name",
					Value: "",
					Usage: " licensee display name",
				},
				cli.StringFlag{
					Name:  "species-name",
					Value: "",
					Usage: " species display name",
				},
				cli.StringFlag{
					Name:  "individual-name",
					Value: "",
					Usage: " individual display name",
				},
				cli.Int64Flag{
					Name:  "date, d",
					Value: 0,
					Usage: " entry date as Unix seconds [now]",
				},
				cli.Float64Flag{
					Name:  "weight, w",
					Value: 0,
					Usage: " weight measurement",
				},
				cli.StringFlag{
					Name:  "notes",
					Value: "",
					Usage: " further notes",
				},
				cli.StringFlag{
					Name:  "vitamin-notes",
					Value: "",
					Usage: " vitamin notes",
				},
				cli.StringFlag{
					Name:  "toilet-notes",
					Value: "",
					Usage: " toilet notes",
				},
				cli.StringFlag{
					Name:  "temp-notes",
					Value: "",
					Usage: " temperature notes",
				},
				cli.StringFlag{
					Name:  "weight-notes",
					Value: "",
					Usage: " weight notes",
				},
				cli.StringFlag{
					Name:  "hydration-notes",
					Value: "",
					Usage: " hydration notes",
				},
				cli.BoolFlag{
					Name:  "went-toilet",
					Usage: " the animal went to the toilet",
				},
				cli.BoolFlag{
					Name:  "had-hydration",
					Usage: " the animal had hydration",
				},
				cli.BoolFlag{
					Name:  "had-vitamins",
					Usage: " the animal had vitamins",
				},
			},
			Action: func(c *cli.Context) error {
				runSubmit(c, globals)
				return nil
			},
		},
		{
			Name:      "show",
			Usage:     "show log entries within a date range",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Int64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " earliest entry date as Unix seconds [oldest entry]",
				},
				cli.Int64Flag{
					Name:  "end, e",
					Value: 0,
					Usage: " latest entry date as Unix seconds [newest entry]",
				},
			},
			Action: func(c *cli.Context) error {
				runShow(c, globals)
				return nil
			},
		},
		{
			Name:      "delete-entry",
			Usage:     "delete a single log entry",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "record, r",
					Value: "",
					Usage: "*record identifier of the entry",
				},
			},
			Action: func(c *cli.Context) error {
				runDeleteEntry(c, globals)
				return nil
			},
		},
		{
			Name:      "save",
			Usage:     "save the database to a zip archive",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*archive file to create",
				},
			},
			Action: func(c *cli.Context) error {
				runSave(c, globals)
				return nil
			},
		},
		{
			Name:      "restore",
			Usage:     "restore the database from a zip archive",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*archive file to read",
				},
			},
			Action: func(c *cli.Context) error {
				runRestore(c, globals)
				return nil
			},
		},
		{
			Name:  "version",
			Usage: "display herpstored version",
			Action: func(c *cli.Context) error {
				fmt.Println(version.Version)
				return nil
			},
		},
	}

	app.Run(os.Args)
}
