// Package dataset reads and writes the pet-supplies product table.
//
// Values are kept loosely typed (string, float64, int64 or nil) so that the
// cleaning passes decide what counts as valid; the helpers here only parse,
// they never substitute.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Column names of the pet-supplies table, in output order.
const (
	ColProductID      = "product_id"
	ColCategory       = "category"
	ColAnimal         = "animal"
	ColSize           = "size"
	ColPrice          = "price"
	ColSales          = "sales"
	ColRating         = "rating"
	ColRepeatPurchase = "repeat_purchase"
)

// Columns is the cleaned-output column order.
var Columns = []string{
	ColProductID, ColCategory, ColAnimal, ColSize,
	ColPrice, ColSales, ColRating, ColRepeatPurchase,
}

// Row is one record keyed by column name. Cell values are string, float64,
// int64 or nil (missing).
type Row map[string]any

// Load reads a CSV file into rows keyed by its header. A UTF-8 BOM is
// tolerated, short records are padded with missing values, and empty or
// whitespace-only cells become nil.
func Load(path string) ([]string, []Row, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	headers, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				if s := strings.TrimSpace(rec[i]); s != "" {
					row[h] = s
					continue
				}
			}
			row[h] = nil
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// Float parses v as a decimal number. Strings may carry a leading currency
// sign or thousands separators; anything else ("unlisted", blanks) is not a
// number.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int parses v as an integer. Integral floats ("7.0") are accepted, true
// fractions are not.
func Int(v any) (int64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if math.IsNaN(t) || t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

// Text returns the trimmed string form of v, reporting false for missing or
// blank values.
func Text(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// CountValues tallies the occurrences of each value in col. Missing values
// count under "<NA>".
func CountValues(rows []Row, col string) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		k := "<NA>"
		if s, ok := Text(r[col]); ok {
			k = s
		}
		counts[k]++
	}
	return counts
}

// FormatValue renders a cell for CSV output.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return FloatString(t)
	default:
		return fmt.Sprint(t)
	}
}

// FloatString renders a float the way pandas' to_csv does, keeping a
// trailing .0 on integral values (5 -> "5.0").
func FloatString(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// WriteCSV writes cleaned rows in the canonical column order.
func WriteCSV(path string, rows []Row) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := make([]string, len(Columns))
		for i, c := range Columns {
			rec[i] = FormatValue(r[c])
		}
		records = append(records, rec)
	}
	return WriteFile(path, Columns, records)
}

// WriteFile writes a CSV file with a UTF-8 BOM and LF line endings, creating
// parent directories as needed.
func WriteFile(path string, header []string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	if err := writeRecord(f, header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writeRecord(f, rec); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, rec []string) error {
	for i, field := range rec {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if strings.ContainsAny(field, ",\"\n\r") {
			escaped := strings.ReplaceAll(field, `"`, `""`)
			if _, err := io.WriteString(w, `"`+escaped+`"`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, field); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
