// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(deflinesGuide)
	app.Add(projectsGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Backbone requires several files to read and process alignment data. To reduce
the burden of keeping track of many files, a single project file is used to
hold the reference of all files required in the analysis. This guide explains
the structure of the file, but most of the time, the best and most secure way
to edit or view this file is by using backbone commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# backbone project files
	dataset	path
	alignments	aln-files.txt
	taxonomy	taxonomy.tab
	clusters	clusters.tab
	merged	merged-files.txt
	exemplars	exemplars.tab

The valid datasets are:

	alignments  list of candidate alignment files, one path per line;
	            each file name encodes the ID of its seed sequence
	            (e.g. "11001-rbcL.fa")
	clusters    orthologous clusters, one cluster per line, with the
	            cluster ID followed by the seed IDs of its members
	exemplars   exemplar taxa table, one row per exemplar with its genus
	            and taxon ID
	markers     provenance table of the supermatrix
	matrix      the final supermatrix
	merged      list of merged alignment files, one path per line
	taxonomy    taxon table, one row per taxon, with its ID, name, genus,
	            and rank
	`,
}

var deflinesGuide = &command.Command{
	Usage: "deflines",
	Short: "about sequence deflines",
	Long: `
Every sequence of a candidate alignment is identified by its defline, a
pipe-delimited string that encodes the metadata of the sequence. The defline
has the form:

	gi|<ID>|seed_gi|<seed>|taxon|<taxon>|mrca|<root>

in which the fields are:

	gi       the numeric ID of the sequence
	seed_gi  the ID of the seed sequence the alignment was built around
	taxon    the ID of the taxon that owns the sequence
	mrca     the ID of the root taxon of the clade used to retrieve the
	         sequence cluster

Deflines are parsed when an alignment file is read; all downstream decisions
(taxon adjacency, exemplar selection, provenance) use the parsed values.
	`,
}
