package cleaning

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petclean/internal/dataset"
)

func testOptions() Options {
	return Options{
		Category: []string{"Housing", "Food", "Toys", "Equipment", "Medicine", "Accessory"},
		Animal:   []string{"Dog", "Cat", "Fish", "Bird"},
		Size:     []string{"Small", "Medium", "Large"},
	}
}

func rawRow(id, category, animal, size, price, sales, rating, repeat any) dataset.Row {
	return dataset.Row{
		dataset.ColProductID:      id,
		dataset.ColCategory:       category,
		dataset.ColAnimal:         animal,
		dataset.ColSize:           size,
		dataset.ColPrice:          price,
		dataset.ColSales:          sales,
		dataset.ColRating:         rating,
		dataset.ColRepeatPurchase: repeat,
	}
}

func TestCleanPipeline(t *testing.T) {
	rows := []dataset.Row{
		rawRow("1", "Food", "Dog", "Small", "20.00", "1000", "7", "1"),
		// Duplicate key: first occurrence wins.
		rawRow("1", "Toys", "Cat", "Large", "99.99", "9", "1", "0"),
		// Everything wrong except the key and repeat_purchase.
		rawRow("2", "reptile", nil, "small", nil, "unlisted", "15", "0"),
		rawRow("3", "Medicine", "Cat", "Large", "10.00", "2000", nil, "1.0"),
		// Dropped by the repeat_purchase filter.
		rawRow("4", "Toys", "Fish", "Medium", "30.00", "3000", "5", nil),
		rawRow("5", "Housing", "Bird", "Small", "40.00", "500", "9", "2"),
		// No key at all.
		rawRow(nil, "Food", "Dog", "Small", "1.00", "1", "1", "1"),
	}

	res, err := Clean(rows, testOptions())
	require.NoError(t, err)

	require.Len(t, res.Rows, 3)
	assert.Equal(t, int64(1), res.Rows[0][dataset.ColProductID])
	assert.Equal(t, int64(2), res.Rows[1][dataset.ColProductID])
	assert.Equal(t, int64(3), res.Rows[2][dataset.ColProductID])

	// First occurrence kept for the duplicate key.
	assert.Equal(t, "Food", res.Rows[0][dataset.ColCategory])
	assert.InDelta(t, 20.00, res.Rows[0][dataset.ColPrice].(float64), 1e-9)
	assert.Equal(t, int64(7), res.Rows[0][dataset.ColRating])

	// Invalid categoricals map to Unknown; matching is case-sensitive.
	bad := res.Rows[1]
	assert.Equal(t, Unknown, bad[dataset.ColCategory])
	assert.Equal(t, Unknown, bad[dataset.ColAnimal])
	assert.Equal(t, Unknown, bad[dataset.ColSize])

	// Missing price/sales get the pre-imputation interpolated median of the
	// deduped table: prices {10,20,30,40} -> 25, sales {500,1000,2000,3000} -> 1500.
	assert.InDelta(t, 25.00, bad[dataset.ColPrice].(float64), 1e-9)
	assert.InDelta(t, 1500.00, bad[dataset.ColSales].(float64), 1e-9)

	// Out-of-range and missing ratings become the 0 sentinel.
	assert.Equal(t, int64(0), bad[dataset.ColRating])
	assert.Equal(t, int64(0), res.Rows[2][dataset.ColRating])
	// Integral-float repeat_purchase is accepted.
	assert.Equal(t, int64(1), res.Rows[2][dataset.ColRepeatPurchase])

	for _, r := range res.Rows {
		v := r[dataset.ColRepeatPurchase].(int64)
		assert.True(t, v == 0 || v == 1)
	}

	s := res.Stats
	assert.Equal(t, 7, s.RowsRead)
	assert.Equal(t, 1, s.RowsMissingKey)
	assert.Equal(t, 1, s.DuplicatesDropped)
	assert.Equal(t, 1, s.Unknown[dataset.ColCategory])
	assert.Equal(t, 1, s.Unknown[dataset.ColAnimal])
	assert.Equal(t, 1, s.Unknown[dataset.ColSize])
	assert.Equal(t, Imputation{Missing: 1, Median: 25}, s.Imputed[dataset.ColPrice])
	assert.Equal(t, Imputation{Missing: 1, Median: 1500}, s.Imputed[dataset.ColSales])
	assert.Equal(t, 2, s.RatingsReset)
	assert.Equal(t, 2, s.RowsDroppedRepeat)
	assert.Equal(t, 3, s.RowsWritten)
}

func TestCleanUniqueKeysAndNoMissing(t *testing.T) {
	rows := []dataset.Row{
		rawRow("10", "Food", "Dog", "Small", "5.00", "10", "3", "0"),
		rawRow("10", "Food", "Dog", "Small", "5.00", "10", "3", "0"),
		rawRow("11", nil, nil, nil, nil, nil, nil, "1"),
	}
	res, err := Clean(rows, testOptions())
	require.NoError(t, err)

	seen := map[any]bool{}
	for _, r := range res.Rows {
		id := r[dataset.ColProductID]
		assert.False(t, seen[id], "duplicate key %v", id)
		seen[id] = true
		for _, c := range dataset.Columns {
			assert.NotNil(t, r[c], "missing %s for key %v", c, id)
		}
	}
}

func TestCleanRoundsExistingValues(t *testing.T) {
	rows := []dataset.Row{
		rawRow("1", "Food", "Dog", "Small", "19.999", "100.005", "3", "0"),
		rawRow("2", "Food", "Dog", "Small", "5.00", "10.00", "3", "1"),
	}
	res, err := Clean(rows, testOptions())
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.InDelta(t, 20.00, res.Rows[0][dataset.ColPrice].(float64), 1e-9)
}

func TestCleanNegativePriceTreatedMissing(t *testing.T) {
	rows := []dataset.Row{
		rawRow("1", "Food", "Dog", "Small", "-5.00", "10", "3", "0"),
		rawRow("2", "Food", "Dog", "Small", "10.00", "10", "3", "1"),
	}
	res, err := Clean(rows, testOptions())
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	// Median of the single valid price.
	assert.InDelta(t, 10.00, res.Rows[0][dataset.ColPrice].(float64), 1e-9)
	assert.Equal(t, Imputation{Missing: 1, Median: 10}, res.Stats.Imputed[dataset.ColPrice])
}

func TestCleanEmptyNumericColumn(t *testing.T) {
	rows := []dataset.Row{
		rawRow("1", "Food", "Dog", "Small", nil, "10", "3", "0"),
	}
	res, err := Clean(rows, testOptions())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.InDelta(t, 0, res.Rows[0][dataset.ColPrice].(float64), 1e-9)
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.sqlite")
	rows := []dataset.Row{
		rawRow(int64(1), "Food", "Dog", "Small", 19.99, 1000.0, int64(7), int64(1)),
		rawRow(int64(2), Unknown, "Cat", "Large", 12.0, 250.5, int64(0), int64(0)),
	}
	require.NoError(t, WriteSQLite(path, rows))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pet_supplies_cleaned`).Scan(&n))
	assert.Equal(t, 2, n)

	var category string
	var price float64
	require.NoError(t, db.QueryRow(
		`SELECT category, price FROM pet_supplies_cleaned WHERE product_id = 1`,
	).Scan(&category, &price))
	assert.Equal(t, "Food", category)
	assert.InDelta(t, 19.99, price, 1e-9)

	// The unique index enforces the key invariant.
	_, err = db.Exec(`INSERT INTO pet_supplies_cleaned
		(product_id, category, animal, size, price, sales, rating, repeat_purchase)
		VALUES (1, 'Toys', 'Dog', 'Small', 1.0, 1.0, 1, 1)`)
	require.Error(t, err)
}

func TestStatsMarkdown(t *testing.T) {
	s := Stats{
		RowsRead:          1500,
		DuplicatesDropped: 6,
		Unknown:           map[string]int{"category": 25, "animal": 0, "size": 4},
		Imputed: map[string]Imputation{
			"price": {Missing: 150, Median: 28.07},
			"sales": {Missing: 0, Median: 1000},
		},
		RatingsReset:      150,
		RowsDroppedRepeat: 90,
		RowsWritten:       1404,
	}
	md := s.Markdown()
	assert.Contains(t, md, "Rows read: 1500")
	assert.Contains(t, md, "Duplicate product_id rows dropped: 6")
	assert.Contains(t, md, "`category`: 25")
	assert.Contains(t, md, "`price`: 150 missing values imputed with median 28.07")
	assert.Contains(t, md, "reset to 0: 150")
	assert.Contains(t, md, "Rows dropped (repeat_purchase not in {0,1}): 90")
}
