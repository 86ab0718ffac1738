// Command sample-pet-supplies writes a deterministic, deliberately messy
// pet-supplies CSV for exercising the cleaner end to end: duplicate keys,
// invalid categoricals, unparseable prices, out-of-range ratings and missing
// repeat_purchase values.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"petclean/internal/dataset"
)

const (
	defaultOutput = "pet_supplies.csv"
	defaultRows   = 1500
	defaultSeed   = int64(20260823)
)

var (
	categories = []string{"Housing", "Food", "Toys", "Equipment", "Medicine", "Accessory"}
	animals    = []string{"Dog", "Cat", "Fish", "Bird"}
	sizes      = []string{"Small", "Medium", "Large"}

	badCategories = []string{"reptile", "food", "Furniture"}
	badAnimals    = []string{"Hamster", "dog"}
	badSizes      = []string{"small", "MEDIUM", "XL"}
)

func main() {
	outPath := flag.String("output", defaultOutput, "Output CSV path")
	rowCount := flag.Int("rows", defaultRows, "Number of distinct product ids")
	seed := flag.Int64("seed", defaultSeed, "Deterministic generation seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	records := generateRecords(*rowCount, rng)

	if err := dataset.WriteFile(*outPath, dataset.Columns, records); err != nil {
		fmt.Fprintf(os.Stderr, "write csv error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Output: %s\n", *outPath)
	fmt.Printf("Seed:   %d\n", *seed)
	fmt.Printf("Rows:   %d\n", len(records))
}

// generateRecords emits n product ids in order, occasionally followed by a
// duplicate row for the same id, with anomalies sprinkled into every column
// the cleaner has a rule for.
func generateRecords(n int, rng *rand.Rand) [][]string {
	var records [][]string
	for id := 1; id <= n; id++ {
		records = append(records, generateRow(id, rng))
		if rng.Float64() < 0.02 {
			records = append(records, generateRow(id, rng))
		}
	}
	return records
}

func generateRow(id int, rng *rand.Rand) []string {
	category := pick(rng, categories)
	switch {
	case rng.Float64() < 0.02:
		category = pick(rng, badCategories)
	case rng.Float64() < 0.01:
		category = ""
	}

	animal := pick(rng, animals)
	if rng.Float64() < 0.02 {
		animal = pick(rng, badAnimals)
	}

	size := pick(rng, sizes)
	if rng.Float64() < 0.05 {
		size = pick(rng, badSizes)
	}

	price := strconv.FormatFloat(float64(rng.Intn(9000)+100)/100, 'f', 2, 64)
	switch {
	case rng.Float64() < 0.08:
		price = "unlisted"
	case rng.Float64() < 0.02:
		price = ""
	}

	sales := strconv.FormatFloat(float64(rng.Intn(200000))/100, 'f', 2, 64)
	if rng.Float64() < 0.03 {
		sales = ""
	}

	rating := strconv.Itoa(rng.Intn(10) + 1)
	switch {
	case rng.Float64() < 0.05:
		rating = strconv.Itoa(rng.Intn(5) + 11)
	case rng.Float64() < 0.05:
		rating = ""
	}

	repeat := strconv.Itoa(rng.Intn(2))
	switch {
	case rng.Float64() < 0.03:
		repeat = ""
	case rng.Float64() < 0.02:
		repeat = "2"
	}

	return []string{strconv.Itoa(id), category, animal, size, price, sales, rating, repeat}
}

func pick(rng *rand.Rand, vals []string) string {
	return vals[rng.Intn(len(vals))]
}
