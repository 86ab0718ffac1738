package cleaning

import (
	"database/sql"
	"fmt"
	"os"

	"petclean/internal/dataset"
)

// WriteSQLite persists the cleaned table to a sqlite file, replacing any
// previous run's output.
func WriteSQLite(path string, rows []dataset.Row) error {
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE pet_supplies_cleaned (
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
		return fmt.Errorf("creating cleaned table: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO pet_supplies_cleaned
		(product_id, category, animal, size, price, sales, rating, repeat_purchase)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing cleaned insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		args := make([]any, len(dataset.Columns))
		for i, c := range dataset.Columns {
			args[i] = r[c]
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting cleaned row: %w", err)
		}
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX idx_pet_supplies_cleaned_product_id
		ON pet_supplies_cleaned(product_id)`)
	if err != nil {
		return fmt.Errorf("indexing cleaned table: %w", err)
	}
	return nil
}
