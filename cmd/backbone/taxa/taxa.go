// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package taxa implements a command to print
// the list of taxa defined in a project.
package taxa

import (
	"fmt"
	"strings"

	"github.com/js-arias/backbone/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "taxa [--rank <rank>] [--genus] <project-file>",
	Short: "print a list of taxa",
	Long: `
Command taxa reads the taxonomy of a backbone project and prints the ID,
name, genus, and rank of each taxon in the standard output.

The argument of the command is the name of the project file.

If the flag --rank is set, only taxa of the indicated rank will be printed.
If the flag --genus is set, only the genus names will be printed, one per
line.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var rank string
var genusFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&rank, "rank", "", "")
	c.Flags().BoolVar(&genusFlag, "genus", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	txm, err := p.Taxonomy()
	if err != nil {
		return err
	}

	if genusFlag {
		for _, g := range txm.Genera() {
			fmt.Fprintf(c.Stdout(), "%s\n", g)
		}
		return nil
	}

	rank = strings.ToLower(strings.TrimSpace(rank))
	for _, id := range txm.IDs() {
		tax, _ := txm.Taxon(id)
		if rank != "" && tax.Rank != rank {
			continue
		}
		fmt.Fprintf(c.Stdout(), "%d\t%s\t%s\t%s\n", tax.ID, tax.Name, tax.Genus, tax.Rank)
	}
	return nil
}
