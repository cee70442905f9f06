package usecase

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

func columnKind(t series.Type) entity.ColumnKind {
	switch t {
	case series.Int:
		return entity.ColumnKindInt
	case series.Float:
		return entity.ColumnKindFloat
	case series.Bool:
		return entity.ColumnKindBool
	default:
		return entity.ColumnKindString
	}
}

func columnsOf(df dataframe.DataFrame) []entity.Column {
	names := df.Names()
	types := df.Types()

	cols := make([]entity.Column, len(names))
	for i, name := range names {
		cols[i] = entity.Column{Name: name, Kind: columnKind(types[i])}
	}

	return cols
}

func numericColumns(df dataframe.DataFrame) []string {
	var out []string
	for _, col := range columnsOf(df) {
		if col.Kind.IsNumeric() {
			out = append(out, col.Name)
		}
	}
	return out
}

// seriesOf returns the columns of df in order, fetched once.
func seriesOf(df dataframe.DataFrame) []series.Series {
	names := df.Names()
	out := make([]series.Series, len(names))
	for i, name := range names {
		out[i] = df.Col(name)
	}
	return out
}

// cellValue returns the typed value of row i for JSON output; missing is nil.
func cellValue(s series.Series, i int) any {
	elem := s.Elem(i)
	if elem.IsNA() {
		return nil
	}

	switch s.Type() {
	case series.Int:
		if v, err := elem.Int(); err == nil {
			return v
		}
	case series.Float:
		return elem.Float()
	case series.Bool:
		if v, err := elem.Bool(); err == nil {
			return v
		}
	}

	return elem.String()
}

// cellText renders row i the way it is written to CSV; missing is "".
// Floats use the shortest form that parses back to the same value.
func cellText(s series.Series, i int) string {
	switch v := cellValue(s, i).(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// project restricts df to columns, in the given order. An empty selection keeps every column.
func project(df dataframe.DataFrame, columns []string) (dataframe.DataFrame, error) {
	if len(columns) == 0 {
		return df, nil
	}

	known := make(map[string]struct{}, df.Ncol())
	for _, name := range df.Names() {
		known[name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(columns))
	selected := make([]string, 0, len(columns))
	for _, name := range columns {
		if _, ok := known[name]; !ok {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		selected = append(selected, name)
	}

	out := df.Select(selected)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}

	return out, nil
}
