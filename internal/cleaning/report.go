package cleaning

import (
	"fmt"
	"strings"

	"petclean/internal/dataset"
)

// Markdown renders the cleaning stats as a short report, one section per
// pass.
func (s Stats) Markdown() string {
	lines := []string{
		"# pet_supplies cleaning report",
		"",
		"## Dataset shape",
		fmt.Sprintf("- Rows read: %d", s.RowsRead),
		fmt.Sprintf("- Rows without product_id skipped: %d", s.RowsMissingKey),
		fmt.Sprintf("- Rows written (cleaned): %d", s.RowsWritten),
		"",
		"## Deduplication",
		fmt.Sprintf("- Duplicate product_id rows dropped: %d", s.DuplicatesDropped),
		"",
		"## Categorical substitutions (value -> Unknown)",
	}
	for _, col := range []string{dataset.ColCategory, dataset.ColAnimal, dataset.ColSize} {
		lines = append(lines, fmt.Sprintf("- `%s`: %d", col, s.Unknown[col]))
	}
	lines = append(lines, "", "## Median imputation")
	for _, col := range []string{dataset.ColPrice, dataset.ColSales} {
		imp := s.Imputed[col]
		lines = append(lines, fmt.Sprintf("- `%s`: %d missing values imputed with median %.2f",
			col, imp.Missing, imp.Median))
	}
	lines = append(lines,
		"",
		"## Rating validation",
		fmt.Sprintf("- Out-of-range or missing ratings reset to 0: %d", s.RatingsReset),
		"",
		"## Repeat-purchase filter",
		fmt.Sprintf("- Rows dropped (repeat_purchase not in {0,1}): %d", s.RowsDroppedRepeat),
		"",
	)
	return strings.Join(lines, "\n")
}
