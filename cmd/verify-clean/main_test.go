package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petclean/internal/config"
	"petclean/internal/dataset"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVerifyCleanPass(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	rows := []dataset.Row{
		{
			dataset.ColProductID: int64(1), dataset.ColCategory: "Food",
			dataset.ColAnimal: "Dog", dataset.ColSize: "Small",
			dataset.ColPrice: 19.99, dataset.ColSales: 1000.0,
			dataset.ColRating: int64(7), dataset.ColRepeatPurchase: int64(1),
		},
		{
			dataset.ColProductID: int64(2), dataset.ColCategory: "Unknown",
			dataset.ColAnimal: "Cat", dataset.ColSize: "Unknown",
			dataset.ColPrice: 12.0, dataset.ColSales: 250.5,
			dataset.ColRating: int64(0), dataset.ColRepeatPurchase: int64(0),
		},
	}
	require.NoError(t, dataset.WriteCSV(path, rows))

	report, err := verifyCleanedCSV(path, config.Default().Allowed)
	require.NoError(t, err)
	assert.Equal(t, "pass", report.Status)
	assert.Equal(t, 2, report.Rows)
	for _, c := range report.Checks {
		assert.Zero(t, c.Violations, "check %s", c.Name)
	}
}

func TestVerifyCleanViolations(t *testing.T) {
	content := "product_id,category,animal,size,price,sales,rating,repeat_purchase\n" +
		"1,Food,Dog,Small,19.99,1000.0,7,1\n" +
		"1,reptile,Dog,small,19.999,-3.0,11,2\n" + // duplicate key + everything else wrong
		"3,Toys,Cat,Large,,5.0,0,0\n" // missing price
	path := writeCSV(t, content)

	report, err := verifyCleanedCSV(path, config.Default().Allowed)
	require.NoError(t, err)
	assert.Equal(t, "fail", report.Status)

	byName := func(name string) int {
		total := 0
		for _, c := range report.Checks {
			if c.Name == name {
				total += c.Violations
			}
		}
		return total
	}
	assert.Equal(t, 1, byName("product_id"))
	assert.Equal(t, 1, byName("completeness"))
	assert.Equal(t, 1, byName("category"))
	assert.Equal(t, 1, byName("size"))
	assert.Equal(t, 1, byName("price"), "three-decimal price")
	assert.Equal(t, 1, byName("sales"), "negative sales")
	assert.Equal(t, 1, byName("rating"))
	assert.Equal(t, 1, byName("repeat_purchase"))
	assert.Zero(t, byName("animal"))
}

func TestVerifyCleanBadHeader(t *testing.T) {
	path := writeCSV(t, "product_id,category,animal,size,price,rating,sales,repeat_purchase\n")
	report, err := verifyCleanedCSV(path, config.Default().Allowed)
	require.NoError(t, err)
	assert.Equal(t, "fail", report.Status)
	require.NotEmpty(t, report.Checks)
	assert.Equal(t, "header", report.Checks[0].Name)
	assert.Positive(t, report.Checks[0].Violations)
}
