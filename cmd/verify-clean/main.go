// Command verify-clean checks a cleaned pet-supplies CSV against the
// guarantees the cleaner makes: unique keys, no missing values, allowed
// categorical sets, rounded non-negative numerics, rating range and the
// repeat_purchase domain. It writes a JSON report and exits non-zero when
// any check fails.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"petclean/internal/config"
	"petclean/internal/dataset"
)

const maxSamples = 5

type check struct {
	Name       string   `json:"name"`
	Rule       string   `json:"rule"`
	Violations int      `json:"violations"`
	Samples    []string `json:"samples,omitempty"`
}

type reportPayload struct {
	Status string  `json:"status"`
	Path   string  `json:"path"`
	Rows   int     `json:"rows"`
	Checks []check `json:"checks"`
}

func main() {
	inputPath := flag.String("input", "outputs/pet_supplies_cleaned.csv", "Cleaned CSV to verify")
	outputJSON := flag.String("output-json", "", "Optional path to write the JSON report")
	flag.Parse()

	report, err := verifyCleanedCSV(*inputPath, config.Default().Allowed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify error: %v\n", err)
		os.Exit(1)
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
		os.Exit(1)
	}
	if *outputJSON != "" {
		if err := os.MkdirAll(filepath.Dir(*outputJSON), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "mkdir error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outputJSON, append(payload, '\n'), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write report error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote JSON report: %s\n", *outputJSON)
	} else {
		fmt.Println(string(payload))
	}
	fmt.Printf("Status: %s (%d rows)\n", report.Status, report.Rows)

	if report.Status != "pass" {
		os.Exit(1)
	}
}

func verifyCleanedCSV(path string, allowed config.Allowed) (reportPayload, error) {
	headers, rows, err := dataset.Load(path)
	if err != nil {
		return reportPayload{}, err
	}

	report := reportPayload{Path: path, Rows: len(rows)}
	report.Checks = append(report.Checks, checkHeader(headers))
	report.Checks = append(report.Checks, checkUniqueKeys(rows))
	report.Checks = append(report.Checks, checkNoMissing(rows))
	report.Checks = append(report.Checks,
		checkAllowedSet(rows, dataset.ColCategory, allowed.Category),
		checkAllowedSet(rows, dataset.ColAnimal, allowed.Animal),
		checkAllowedSet(rows, dataset.ColSize, allowed.Size),
		checkMoney(rows, dataset.ColPrice),
		checkMoney(rows, dataset.ColSales),
		checkRating(rows),
		checkRepeatPurchase(rows),
	)

	report.Status = "pass"
	for _, c := range report.Checks {
		if c.Violations > 0 {
			report.Status = "fail"
			break
		}
	}
	return report, nil
}

func checkHeader(headers []string) check {
	c := check{Name: "header", Rule: "columns appear in the canonical order"}
	if len(headers) != len(dataset.Columns) {
		c.Violations++
		c.Samples = append(c.Samples, fmt.Sprintf("expected %d columns, found %d", len(dataset.Columns), len(headers)))
		return c
	}
	for i, want := range dataset.Columns {
		if headers[i] != want {
			c.Violations++
			c.Samples = addSample(c.Samples, fmt.Sprintf("column %d is %q, want %q", i, headers[i], want))
		}
	}
	return c
}

func checkUniqueKeys(rows []dataset.Row) check {
	c := check{Name: dataset.ColProductID, Rule: "present and unique"}
	seen := make(map[string]bool, len(rows))
	for i, r := range rows {
		id, ok := dataset.Text(r[dataset.ColProductID])
		if !ok {
			c.Violations++
			c.Samples = addSample(c.Samples, fmt.Sprintf("row %d has no product_id", i+1))
			continue
		}
		if seen[id] {
			c.Violations++
			c.Samples = addSample(c.Samples, fmt.Sprintf("duplicate product_id %s", id))
		}
		seen[id] = true
	}
	return c
}

func checkNoMissing(rows []dataset.Row) check {
	c := check{Name: "completeness", Rule: "no missing value in any column"}
	for i, r := range rows {
		for _, col := range dataset.Columns {
			if _, ok := dataset.Text(r[col]); !ok {
				c.Violations++
				c.Samples = addSample(c.Samples, fmt.Sprintf("row %d missing %s", i+1, col))
			}
		}
	}
	return c
}

func checkAllowedSet(rows []dataset.Row, col string, allowed []string) check {
	c := check{Name: col, Rule: fmt.Sprintf("value in allowed set or %q", "Unknown")}
	ok := make(map[string]bool, len(allowed)+1)
	for _, v := range allowed {
		ok[v] = true
	}
	ok["Unknown"] = true
	for _, r := range rows {
		v, present := dataset.Text(r[col])
		if present && !ok[v] {
			c.Violations++
			c.Samples = addSample(c.Samples, fmt.Sprintf("%s=%q (product_id %v)", col, v, r[dataset.ColProductID]))
		}
	}
	return c
}

func checkMoney(rows []dataset.Row, col string) check {
	c := check{Name: col, Rule: "non-negative decimal with at most 2 decimal places"}
	for _, r := range rows {
		v, present := dataset.Text(r[col])
		if !present {
			continue // completeness check reports this
		}
		f, ok := dataset.Float(v)
		cents := f * 100
		if !ok || f < 0 || math.Abs(cents-math.Round(cents)) > 1e-6 {
			c.Violations++
			c.Samples = addSample(c.Samples, fmt.Sprintf("%s=%q (product_id %v)", col, v, r[dataset.ColProductID]))
		}
	}
	return c
}

func checkRating(rows []dataset.Row) check {
	c := check{Name: dataset.ColRating, Rule: "integer between 0 and 10"}
	for _, r := range rows {
		v, present := dataset.Text(r[dataset.ColRating])
		if !present {
			continue
		}
		i, ok := dataset.Int(v)
		if !ok || i < 0 || i > 10 {
			c.Violations++
			c.Samples = addSample(c.Samples, fmt.Sprintf("rating=%q (product_id %v)", v, r[dataset.ColProductID]))
		}
	}
	return c
}

func checkRepeatPurchase(rows []dataset.Row) check {
	c := check{Name: dataset.ColRepeatPurchase, Rule: "value is 0 or 1"}
	for _, r := range rows {
		v, present := dataset.Text(r[dataset.ColRepeatPurchase])
		if !present {
			continue
		}
		if v != "0" && v != "1" {
			c.Violations++
			c.Samples = addSample(c.Samples, fmt.Sprintf("repeat_purchase=%q (product_id %v)", v, r[dataset.ColProductID]))
		}
	}
	return c
}

func addSample(samples []string, s string) []string {
	if len(samples) >= maxSamples {
		return samples
	}
	return append(samples, s)
}
