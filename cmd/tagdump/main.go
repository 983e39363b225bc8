// Debug program: prints what tigertag reads from audio files and, given a
// catalogue CSV, the candidates each file would be offered.
//
//	tagdump [-csv catalogue.csv] file...
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/llehouerou/tigertag/internal/catalogue"
	"github.com/llehouerou/tigertag/internal/match"
	"github.com/llehouerou/tigertag/internal/metadata"
	"github.com/llehouerou/tigertag/internal/rename"
	"github.com/llehouerou/tigertag/internal/tags"
)

func main() {
	csvPath := flag.String("csv", "", "catalogue CSV to match against")
	flag.Parse()

	var cat *catalogue.Catalogue
	if *csvPath != "" {
		var err error
		cat, err = catalogue.LoadCSV(*csvPath)
		if err != nil {
			log.Fatalf("Failed to load catalogue: %v", err)
		}
		log.Printf("Loaded %d catalogue entries from %s", cat.Len(), *csvPath)
	}

	for _, path := range flag.Args() {
		o, err := tags.Read(path)
		if err != nil {
			log.Printf("%s: %v", path, err)
			continue
		}
		log.Printf("%s [%s]", filepath.Base(path), o.Format)
		log.Printf("  Title:  %s", o.Title)
		log.Printf("  Artist: %s", o.Artist)
		log.Printf("  Album:  %s", o.Album)
		log.Printf("  Date:   %s", o.Date)
		log.Printf("  Genre:  %s", o.Genre)
		log.Printf("  Label:  %s", o.Label)

		if cat == nil {
			continue
		}
		cands := match.Resolver{}.Resolve(o.Title, cat)
		if len(cands) == 0 {
			log.Println("  No candidates")
			continue
		}
		for _, c := range cands {
			log.Printf("  [%d] %3d %s - %s (%s)", c.Rank, c.Score, c.Entry.Title, c.Entry.Orchestra, c.Entry.Date)
		}

		rec := metadata.Synthesize(cands[0].Entry)
		target, changed := rename.Target(path, rec, rename.DefaultTemplate())
		if changed {
			log.Printf("  Would rename to: %s", filepath.Base(target))
		}
		log.Printf("  Comment:\n    %s", strings.ReplaceAll(rec.Comment(), "\n", "\n    "))
	}
}
