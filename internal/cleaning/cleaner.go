// Package cleaning runs the per-column SQL cleaning passes over the
// pet-supplies table and reassembles the cleaned columns with an inner join
// on product_id.
package cleaning

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"petclean/internal/dataset"
	"petclean/internal/logger"
)

// Unknown replaces categorical values outside a column's allowed set.
const Unknown = "Unknown"

// Options carries the allowed value sets for the categorical columns.
type Options struct {
	Category []string
	Animal   []string
	Size     []string
}

// Imputation records one numeric column's median imputation.
type Imputation struct {
	Missing int
	Median  float64
}

// Stats counts what each cleaning pass changed.
type Stats struct {
	RowsRead          int
	RowsMissingKey    int
	DuplicatesDropped int
	Unknown           map[string]int
	Imputed           map[string]Imputation
	RatingsReset      int
	RowsDroppedRepeat int
	RowsWritten       int
}

// Result is the cleaned, joined table plus its cleaning stats.
type Result struct {
	Rows  []dataset.Row
	Stats Stats
}

// Clean loads raw rows into an in-memory sqlite database, applies the
// per-column passes (dedupe, categorical normalization, median imputation,
// rating validation, repeat_purchase filter) and returns the inner join of
// the cleaned columns, ordered by product_id. Data anomalies never fail the
// run; only SQL errors do.
func Clean(rows []dataset.Row, opts Options) (*Result, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	defer db.Close()
	// Each pooled connection would get its own empty :memory: database.
	db.SetMaxOpenConns(1)

	res := &Result{Stats: Stats{
		RowsRead: len(rows),
		Unknown:  make(map[string]int),
		Imputed:  make(map[string]Imputation),
	}}

	if err := loadRaw(db, rows, &res.Stats); err != nil {
		return nil, err
	}
	if err := dedupe(db, &res.Stats); err != nil {
		return nil, err
	}
	for col, allowed := range map[string][]string{
		dataset.ColCategory: opts.Category,
		dataset.ColAnimal:   opts.Animal,
		dataset.ColSize:     opts.Size,
	} {
		if err := normalizeColumn(db, col, allowed, &res.Stats); err != nil {
			return nil, err
		}
	}
	for _, col := range []string{dataset.ColPrice, dataset.ColSales} {
		if err := imputeColumn(db, col, &res.Stats); err != nil {
			return nil, err
		}
	}
	if err := validateRating(db, &res.Stats); err != nil {
		return nil, err
	}
	if err := filterRepeatPurchase(db, &res.Stats); err != nil {
		return nil, err
	}

	res.Rows, err = joinCleaned(db)
	if err != nil {
		return nil, err
	}
	res.Stats.RowsWritten = len(res.Rows)
	return res, nil
}

// loadRaw inserts the raw rows with lenient typing: values that cannot serve
// as their column's type are stored as NULL for the later passes to handle.
// Rows without a usable product_id cannot join and are skipped up front.
func loadRaw(db *sql.DB, rows []dataset.Row, stats *Stats) error {
	_, err := db.Exec(`CREATE TABLE raw (
		product_id      INTEGER,
		category        TEXT,
		animal          TEXT,
		size            TEXT,
		price           REAL,
		sales           REAL,
		rating          INTEGER,
		repeat_purchase INTEGER
	)`)
	if err != nil {
		return fmt.Errorf("creating raw table: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO raw
		(product_id, category, animal, size, price, sales, rating, repeat_purchase)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing raw insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		id := keyValue(r[dataset.ColProductID])
		if id == nil {
			stats.RowsMissingKey++
			continue
		}
		args := []any{
			id,
			textOrNull(r[dataset.ColCategory]),
			textOrNull(r[dataset.ColAnimal]),
			textOrNull(r[dataset.ColSize]),
			moneyOrNull(r[dataset.ColPrice]),
			moneyOrNull(r[dataset.ColSales]),
			intOrNull(r[dataset.ColRating]),
			intOrNull(r[dataset.ColRepeatPurchase]),
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting raw row: %w", err)
		}
	}
	logger.Debug("loaded %d raw rows (%d without product_id)",
		stats.RowsRead-stats.RowsMissingKey, stats.RowsMissingKey)
	return nil
}

// dedupe keeps the first input occurrence per product_id.
func dedupe(db *sql.DB, stats *Stats) error {
	_, err := db.Exec(`CREATE TABLE base AS
		SELECT r.product_id, r.category, r.animal, r.size,
		       r.price, r.sales, r.rating, r.repeat_purchase
		FROM raw r
		JOIN (
			SELECT product_id, MIN(rowid) AS first_rowid
			FROM raw GROUP BY product_id
		) f ON r.rowid = f.first_rowid`)
	if err != nil {
		return fmt.Errorf("deduplicating on product_id: %w", err)
	}
	var rawCount, baseCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM raw`).Scan(&rawCount); err != nil {
		return err
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM base`).Scan(&baseCount); err != nil {
		return err
	}
	stats.DuplicatesDropped = rawCount - baseCount
	logger.Debug("dropped %d duplicate product_id rows", stats.DuplicatesDropped)
	return nil
}

// normalizeColumn maps values outside the allowed set (including NULL) to
// Unknown, producing the <col>_clean table.
func normalizeColumn(db *sql.DB, col string, allowed []string, stats *Stats) error {
	if len(allowed) == 0 {
		// Empty set: every value is out of range.
		q := fmt.Sprintf(`CREATE TABLE %s_clean AS SELECT product_id, '%s' AS %s FROM base`,
			col, Unknown, col)
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("normalizing %s: %w", col, err)
		}
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM base`).Scan(&n); err != nil {
			return err
		}
		stats.Unknown[col] = n
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(allowed)), ",")
	args := make([]any, len(allowed))
	for i, v := range allowed {
		args[i] = v
	}

	q := fmt.Sprintf(`CREATE TABLE %s_clean AS
		SELECT product_id,
		       CASE WHEN %s IN (%s) THEN %s ELSE '%s' END AS %s
		FROM base`, col, col, placeholders, col, Unknown, col)
	if _, err := db.Exec(q, args...); err != nil {
		return fmt.Errorf("normalizing %s: %w", col, err)
	}

	count := fmt.Sprintf(`SELECT COUNT(*) FROM base WHERE %s IS NULL OR %s NOT IN (%s)`,
		col, col, placeholders)
	var n int
	if err := db.QueryRow(count, args...).Scan(&n); err != nil {
		return fmt.Errorf("counting %s substitutions: %w", col, err)
	}
	stats.Unknown[col] = n
	logger.Debug("%s: %d values replaced with %s", col, n, Unknown)
	return nil
}

// imputeColumn replaces missing values with the column's interpolated median
// (computed over the non-missing values before imputation) and rounds every
// value to 2 decimal places.
func imputeColumn(db *sql.DB, col string, stats *Stats) error {
	q := fmt.Sprintf(`SELECT %s FROM base WHERE %s IS NOT NULL ORDER BY %s`, col, col, col)
	rows, err := db.Query(q)
	if err != nil {
		return fmt.Errorf("collecting %s values: %w", col, err)
	}
	defer rows.Close()
	var vals []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return err
		}
		vals = append(vals, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	med := interpolatedMedian(vals)
	if len(vals) == 0 {
		logger.Warn("%s has no usable values; imputing 0.00", col)
	}

	create := fmt.Sprintf(`CREATE TABLE %s_clean AS
		SELECT product_id, ROUND(COALESCE(%s, ?), 2) AS %s FROM base`, col, col, col)
	if _, err := db.Exec(create, med); err != nil {
		return fmt.Errorf("imputing %s: %w", col, err)
	}

	var missing int
	count := fmt.Sprintf(`SELECT COUNT(*) FROM base WHERE %s IS NULL`, col)
	if err := db.QueryRow(count).Scan(&missing); err != nil {
		return fmt.Errorf("counting missing %s: %w", col, err)
	}
	stats.Imputed[col] = Imputation{Missing: missing, Median: med}
	logger.Debug("%s: %d values imputed with median %.2f", col, missing, med)
	return nil
}

// validateRating keeps integer ratings in [1,10] and resets everything else
// (including NULL) to the 0 sentinel.
func validateRating(db *sql.DB, stats *Stats) error {
	_, err := db.Exec(`CREATE TABLE rating_clean AS
		SELECT product_id,
		       CASE WHEN rating BETWEEN 1 AND 10 THEN CAST(rating AS INTEGER) ELSE 0 END AS rating
		FROM base`)
	if err != nil {
		return fmt.Errorf("validating rating: %w", err)
	}
	err = db.QueryRow(`SELECT COUNT(*) FROM base
		WHERE rating IS NULL OR rating < 1 OR rating > 10`).Scan(&stats.RatingsReset)
	if err != nil {
		return fmt.Errorf("counting rating resets: %w", err)
	}
	logger.Debug("rating: %d values reset to 0", stats.RatingsReset)
	return nil
}

// filterRepeatPurchase is the only pass that drops rows: anything whose
// repeat_purchase is not exactly 0 or 1 is excluded.
func filterRepeatPurchase(db *sql.DB, stats *Stats) error {
	_, err := db.Exec(`CREATE TABLE repeat_purchase_clean AS
		SELECT product_id, repeat_purchase FROM base
		WHERE repeat_purchase IN (0, 1)`)
	if err != nil {
		return fmt.Errorf("filtering repeat_purchase: %w", err)
	}
	var kept, total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM repeat_purchase_clean`).Scan(&kept); err != nil {
		return err
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM base`).Scan(&total); err != nil {
		return err
	}
	stats.RowsDroppedRepeat = total - kept
	logger.Debug("repeat_purchase: %d rows dropped", stats.RowsDroppedRepeat)
	return nil
}

// joinCleaned inner-joins the per-column tables back together on product_id.
// The repeat_purchase filter bounds the result size.
func joinCleaned(db *sql.DB) ([]dataset.Row, error) {
	rows, err := db.Query(`SELECT c.product_id, c.category, a.animal, s.size,
		       p.price, sa.sales, r.rating, rp.repeat_purchase
		FROM category_clean c
		JOIN animal_clean a            ON a.product_id = c.product_id
		JOIN size_clean s              ON s.product_id = c.product_id
		JOIN price_clean p             ON p.product_id = c.product_id
		JOIN sales_clean sa            ON sa.product_id = c.product_id
		JOIN rating_clean r            ON r.product_id = c.product_id
		JOIN repeat_purchase_clean rp  ON rp.product_id = c.product_id
		ORDER BY c.product_id`)
	if err != nil {
		return nil, fmt.Errorf("joining cleaned columns: %w", err)
	}
	defer rows.Close()

	var out []dataset.Row
	for rows.Next() {
		var (
			id               any
			category, animal string
			size             string
			price, sales     float64
			rating, repeat   int64
		)
		if err := rows.Scan(&id, &category, &animal, &size, &price, &sales, &rating, &repeat); err != nil {
			return nil, fmt.Errorf("scanning joined row: %w", err)
		}
		out = append(out, dataset.Row{
			dataset.ColProductID:      id,
			dataset.ColCategory:       category,
			dataset.ColAnimal:         animal,
			dataset.ColSize:           size,
			dataset.ColPrice:          price,
			dataset.ColSales:          sales,
			dataset.ColRating:         rating,
			dataset.ColRepeatPurchase: repeat,
		})
	}
	return out, rows.Err()
}

// keyValue returns the product_id as int64 when numeric, its text otherwise,
// or nil when missing.
func keyValue(v any) any {
	if i, ok := dataset.Int(v); ok {
		return i
	}
	if s, ok := dataset.Text(v); ok {
		return s
	}
	return nil
}

func textOrNull(v any) any {
	if s, ok := dataset.Text(v); ok {
		return s
	}
	return nil
}

// moneyOrNull parses a non-negative decimal; negatives and unparseable text
// ("unlisted") count as missing.
func moneyOrNull(v any) any {
	if f, ok := dataset.Float(v); ok && f >= 0 {
		return f
	}
	return nil
}

func intOrNull(v any) any {
	if i, ok := dataset.Int(v); ok {
		return i
	}
	return nil
}
