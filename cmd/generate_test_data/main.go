package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

var crops = []string{
	"Rice", "Wheat", "Maize", "Tomato", "Bitter Gourd",
	"Okra", "Chickpea", "Pigeon Pea", "Mustard", "Cotton",
}

var prefixes = []string{"DBGS", "IR", "PB", "HD", "JG", "CSV", "NRC", "GW", "KRH", "DCH"}

func main() {
	outDir := flag.String("out", "data/raw", "output directory for the generated tables")
	rows := flag.Int("rows", 500, "number of registry varieties to generate")
	seed := flag.Int64("seed", 0, "random seed (0 for nondeterministic)")
	flag.Parse()

	faker := gofakeit.New(*seed)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	type entry struct {
		variety string
		crop    string
	}

	registry := make([]entry, 0, *rows)
	seen := make(map[string]bool)
	for len(registry) < *rows {
		prefix := prefixes[faker.Number(0, len(prefixes)-1)]
		variety := fmt.Sprintf("%s-%d", prefix, faker.Number(1, 999))
		if faker.Bool() {
			variety = fmt.Sprintf("%s %s %d",
				faker.LastName(), prefix, faker.Number(1, 99))
		}
		if seen[variety] {
			continue
		}
		seen[variety] = true
		registry = append(registry, entry{
			variety: variety,
			crop:    crops[faker.Number(0, len(crops)-1)],
		})
	}

	seednetPath := filepath.Join(*outDir, "seednet_registry.csv")
	if err := writeCSV(seednetPath, []string{"variety_name", "crop_name"}, func(w *csv.Writer) error {
		for _, e := range registry {
			if err := w.Write([]string{e.variety, e.crop}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		log.Fatalf("Failed to write %s: %v", seednetPath, err)
	}

	// Gazette rows reuse registry varieties with OCR-style noise, plus a
	// tail of names with no registry counterpart.
	cscPath := filepath.Join(*outDir, "csc_gazette.csv")
	if err := writeCSV(cscPath, []string{"variety_standardized", "crop_standardized", "extracted_year"}, func(w *csv.Writer) error {
		for _, e := range registry {
			variety := e.variety
			switch faker.Number(0, 3) {
			case 0:
				variety = strings.ReplaceAll(variety, "-", " ")
			case 1:
				variety = strings.ToUpper(variety)
			case 2:
				if len(variety) > 3 {
					variety = variety[:len(variety)-1]
				}
			}
			year := fmt.Sprintf("%d", faker.Number(2008, 2024))
			if err := w.Write([]string{variety, e.crop, year}); err != nil {
				return err
			}
		}
		orphans := *rows / 5
		for i := 0; i < orphans; i++ {
			variety := fmt.Sprintf("%s %s", faker.City(), faker.NounAbstract())
			crop := crops[faker.Number(0, len(crops)-1)]
			year := fmt.Sprintf("%d", faker.Number(2008, 2024))
			if err := w.Write([]string{variety, crop, year}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		log.Fatalf("Failed to write %s: %v", cscPath, err)
	}

	log.Printf("Generated %d registry rows (%s) and %d gazette rows (%s)",
		*rows, seednetPath, *rows+*rows/5, cscPath)
}

func writeCSV(path string, header []string, fill func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := fill(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
