// Command plot-repeat-purchase renders a bar chart of repeat_purchase value
// counts from the cleaned pet-supplies CSV.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"petclean/internal/dataset"
)

func main() {
	inputPath := flag.String("input", "outputs/pet_supplies_cleaned.csv", "Cleaned CSV path")
	outputPath := flag.String("output", "outputs/repeat_purchase.png", "Chart output path (PNG)")
	title := flag.String("title", "Repeat purchases", "Chart title")
	flag.Parse()

	_, rows, err := dataset.Load(*inputPath)
	if err != nil {
		fatalf("load csv: %v", err)
	}

	counts := dataset.CountValues(rows, dataset.ColRepeatPurchase)
	labels, values := barData(counts)
	if len(values) == 0 {
		fatalf("no rows to plot in %s", *inputPath)
	}

	if err := renderBarChart(*outputPath, *title, labels, values); err != nil {
		fatalf("render chart: %v", err)
	}
	fmt.Printf("Chart: %s\n", *outputPath)
	for i, label := range labels {
		fmt.Printf("  %s: %.0f\n", label, values[i])
	}
}

// barData orders the value counts by value and labels each bar with its
// count.
func barData(counts map[string]int) ([]string, []float64) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	labels := make([]string, len(keys))
	values := make([]float64, len(keys))
	for i, k := range keys {
		labels[i] = fmt.Sprintf("%s (n=%d)", k, counts[k])
		values[i] = float64(counts[k])
	}
	return labels, values
}

func renderBarChart(path, title string, labels []string, values []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = dataset.ColRepeatPurchase
	p.Y.Label.Text = "products"

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(60))
	if err != nil {
		return fmt.Errorf("building bars: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalX(labels...)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
