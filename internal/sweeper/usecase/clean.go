package usecase

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

const (
	keySep = "\x1f"
	keyNA  = "\x00"
)

// Deduplicate drops rows that repeat an earlier row exactly, comparing the
// typed value of every column (missing equals missing). The first occurrence
// is kept and row order is preserved. It returns the number of rows removed.
func Deduplicate(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	nrow := df.Nrow()
	if nrow < 2 || df.Ncol() == 0 {
		return df, 0, nil
	}

	cols := seriesOf(df)
	seen := make(map[string]struct{}, nrow)
	keep := make([]int, 0, nrow)

	var key strings.Builder
	for i := 0; i < nrow; i++ {
		key.Reset()
		for _, s := range cols {
			if s.Elem(i).IsNA() {
				key.WriteString(keyNA)
			} else {
				key.WriteString(keyText(s, i))
			}
			key.WriteString(keySep)
		}

		k := key.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}

	removed := nrow - len(keep)
	if removed == 0 {
		return df, 0, nil
	}

	out := df.Subset(keep)
	if out.Err != nil {
		return dataframe.DataFrame{}, 0, fmt.Errorf("subset rows: %w", out.Err)
	}

	return out, removed, nil
}

// keyText renders cell i for row comparison. Negative zero compares equal to zero.
func keyText(s series.Series, i int) string {
	if f, ok := cellValue(s, i).(float64); ok && f == 0 {
		return "0"
	}
	return cellText(s, i)
}

// FillMissing replaces missing cells of numeric columns with the mean of the
// column's present values. Columns with nothing missing, columns with nothing
// present, and non-numeric columns are left as they are. A filled int column
// becomes a float column. It returns the names of the filled columns.
func FillMissing(df dataframe.DataFrame) (dataframe.DataFrame, []string, error) {
	var filled []string

	for _, name := range df.Names() {
		s := df.Col(name)
		if !columnKind(s.Type()).IsNumeric() {
			continue
		}

		values := s.Float()
		present := make([]float64, 0, len(values))
		missing := 0
		for i := range values {
			if s.Elem(i).IsNA() {
				missing++
				continue
			}
			present = append(present, values[i])
		}
		if missing == 0 || len(present) == 0 {
			continue
		}

		mean := stat.Mean(present, nil)
		for i := range values {
			if s.Elem(i).IsNA() {
				values[i] = mean
			}
		}

		// Mutate returns a new frame, so readers holding the old one are unaffected.
		df = df.Mutate(series.New(values, series.Float, name))
		if df.Err != nil {
			return dataframe.DataFrame{}, nil, fmt.Errorf("fill column %q: %w", name, df.Err)
		}
		filled = append(filled, name)
	}

	return df, filled, nil
}
