// Command clean-pet-supplies cleans the raw pet-supplies CSV with a sequence
// of SQL passes and writes the joined result as a CSV, a sqlite database and
// a markdown cleaning report.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"petclean/internal/cleaning"
	"petclean/internal/config"
	"petclean/internal/dataset"
	"petclean/internal/logger"
)

var (
	inputPath  = flag.String("input", "", "Input CSV file (default from config)")
	configPath = flag.String("config", "", "Optional TOML config file")
	outputDir  = flag.String("out-dir", "", "Output directory (default from config)")
	csvPath    = flag.String("csv", "", "Cleaned CSV output path (default <out-dir>/pet_supplies_cleaned.csv)")
	sqlitePath = flag.String("sqlite", "", "SQLite output path (default <out-dir>/pet_supplies_cleaned.sqlite)")
	reportPath = flag.String("report", "", "Report markdown output path (default <out-dir>/pet_supplies_report.md)")
	verbose    = flag.Bool("verbose", false, "Log cleaning passes to stderr")
)

func main() {
	flag.Parse()
	logger.SetVerbose(*verbose)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fatalf("load config: %v", err)
		}
	}
	applyFlags(&cfg)

	outCSV := cfg.CSV
	outSQLite := cfg.SQLite
	outReport := cfg.Report
	if outCSV == "" {
		outCSV = filepath.Join(cfg.OutDir, "pet_supplies_cleaned.csv")
	}
	if outSQLite == "" {
		outSQLite = filepath.Join(cfg.OutDir, "pet_supplies_cleaned.sqlite")
	}
	if outReport == "" {
		outReport = filepath.Join(cfg.OutDir, "pet_supplies_report.md")
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		fatalf("mkdir outputs: %v", err)
	}

	_, rows, err := dataset.Load(cfg.Input)
	if err != nil {
		fatalf("load csv: %v", err)
	}

	res, err := cleaning.Clean(rows, cleaning.Options{
		Category: cfg.Allowed.Category,
		Animal:   cfg.Allowed.Animal,
		Size:     cfg.Allowed.Size,
	})
	if err != nil {
		fatalf("clean: %v", err)
	}

	if err := dataset.WriteCSV(outCSV, res.Rows); err != nil {
		fatalf("write csv: %v", err)
	}
	if err := cleaning.WriteSQLite(outSQLite, res.Rows); err != nil {
		fatalf("write sqlite: %v", err)
	}
	if err := os.WriteFile(outReport, []byte(res.Stats.Markdown()), 0o644); err != nil {
		fatalf("write report: %v", err)
	}

	fmt.Printf("Rows read: %d\n", res.Stats.RowsRead)
	fmt.Printf("Rows written (cleaned): %d\n", res.Stats.RowsWritten)
	fmt.Printf("Rows dropped (repeat_purchase): %d\n", res.Stats.RowsDroppedRepeat)
	fmt.Printf("CSV: %s\n", outCSV)
	fmt.Printf("SQLite: %s\n", outSQLite)
	fmt.Printf("Report: %s\n", outReport)
}

// applyFlags lets explicit flags win over the config file.
func applyFlags(cfg *config.Config) {
	if *inputPath != "" {
		cfg.Input = *inputPath
	}
	if *outputDir != "" {
		cfg.OutDir = *outputDir
	}
	if *csvPath != "" {
		cfg.CSV = *csvPath
	}
	if *sqlitePath != "" {
		cfg.SQLite = *sqlitePath
	}
	if *reportPath != "" {
		cfg.Report = *reportPath
	}
}

func fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
