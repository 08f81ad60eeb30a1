//go:build ignore

// generate_testdata.go writes store catalogs for benchmarking "store list".
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/catalogs/small.json   (100 items)
//	testdata/catalogs/medium.json  (1000 items)
//	testdata/catalogs/large.jsonl  (5000 items)
//
// Run "flavortown --timings store list --file testdata/catalogs/medium.json"
// to see where the time goes.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/flavortown/pkg/loader"
	"github.com/vanderheijden86/flavortown/pkg/model"
	"github.com/vanderheijden86/flavortown/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
	ext  string
}

var datasets = []datasetSpec{
	{"small", 100, ".json"},
	{"medium", 1000, ".json"},
	{"large", 5000, ".jsonl"},
}

var names = []string{
	"Raspberry Pi", "Soldering Iron", "Mechanical Keyboard", "Sticker Sheet",
	"Hoodie", "Drawing Tablet", "Microcontroller Kit", "Headphones",
}

func main() {
	outputDir := filepath.Join("testdata", "catalogs")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s catalog (%d items)...\n", ds.name, ds.size)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:      int64(ds.size),
			WithStock: true,
		})
		gf := gen.RandomDAG(ds.size, density(ds.size))
		items := gen.ToItems(gf)
		rename(items)

		path := filepath.Join(outputDir, ds.name+ds.ext)
		var err error
		if ds.ext == ".jsonl" {
			err = os.WriteFile(path, []byte(testutil.ToJSONL(items)), 0644)
		} else {
			err = loader.SaveItems(path, items)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d links)\n", path, len(gf.Edges))
	}

	fmt.Println("\nDone! Catalogs created in", outputDir)
}

// density keeps the number of links per item roughly constant.
func density(size int) float64 {
	switch {
	case size <= 100:
		return 0.05
	case size <= 1000:
		return 0.005
	default:
		return 0.001
	}
}

func rename(items []model.Item) {
	for i := range items {
		base := names[i%len(names)]
		if strings.Contains(items[i].Type, "Accessory") {
			base += " Upgrade"
		}
		items[i].Name = fmt.Sprintf("%s #%d", base, i)
	}
}
