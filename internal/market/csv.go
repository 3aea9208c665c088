package market

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

// LoadBarsFromCSV reads an OHLCV file through DuckDB's CSV reader.
// The file must carry time, open, high, low, close and volume columns;
// header names are matched case-insensitively and rows come back in
// ascending time order.
func LoadBarsFromCSV(path string) ([]types.Bar, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open in-memory duckdb", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`
		SELECT time, open, high, low, close, volume
		FROM read_csv_auto('%s', normalize_names=true)
		ORDER BY time ASC
	`, path)

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read csv %s", path)
	}
	defer rows.Close()

	bars := []types.Bar{}

	for rows.Next() {
		var bar types.Bar

		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan csv row from %s", path)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to iterate csv rows from %s", path)
	}

	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	return bars, nil
}
