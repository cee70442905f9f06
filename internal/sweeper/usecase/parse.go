package usecase

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/xuri/excelize/v2"
)

// naToken is how gota spells a missing cell when loading records.
const naToken = "NaN"

//nolint:gochecknoglobals // read-only lookup
var missingTokens = map[string]struct{}{
	"":      {},
	"#N/A":  {},
	"#NA":   {},
	"N/A":   {},
	"n/a":   {},
	"NA":    {},
	"<NA>":  {},
	"NULL":  {},
	"null":  {},
	"NaN":   {},
	"nan":   {},
	"-NaN":  {},
	"-nan":  {},
	"None":  {},
	"<nil>": {},
}

// FileExt returns the lowercased extension of name, including the dot.
func FileExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Parse reads an uploaded file into a dataframe, dispatching on its extension.
//
// The first row is the header. Column types are detected from the values;
// empty cells and common NA tokens become missing values.
func Parse(name string, data []byte) (dataframe.DataFrame, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := FileExt(name); ext {
	case entity.ExtCSV:
		records, err = readCSV(data)
	case entity.ExtXLSX:
		records, err = readExcel(data)
	default:
		if ext == "" {
			ext = "(none)"
		}
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return loadRecords(records)
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

func readExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	for len(rows) > 0 && isBlankRow(rows[0]) {
		rows = rows[1:]
	}

	return rows, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// loadRecords turns header + rows into a typed dataframe.
// Short rows are padded with missing cells so every row spans the widest one.
func loadRecords(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, ErrEmptyFile
	}

	width := 0
	for _, row := range records {
		width = max(width, len(row))
	}
	if width == 0 {
		return dataframe.DataFrame{}, ErrEmptyFile
	}

	header := normalizeHeaders(records[0], width)
	body := records[1:]

	if len(body) == 0 {
		cols := make([]series.Series, width)
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}

	textCols := make(map[string]series.Type)
	normalized := make([][]string, 0, len(records))
	normalized = append(normalized, header)
	for _, row := range body {
		out := make([]string, width)
		for i := range out {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cell, nonFinite := normalizeCell(cell)
			if nonFinite {
				textCols[header[i]] = series.String
			}
			out[i] = cell
		}
		normalized = append(normalized, out)
	}

	df := dataframe.LoadRecords(normalized,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(textCols),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load records: %w", df.Err)
	}

	return df, nil
}

// normalizeCell prepares a raw cell for type detection. Missing tokens become
// naToken; padded numbers are trimmed and booleans are lowercased so they are
// typed like their bare spelling. Other text is returned untouched.
// nonFinite reports spellings such as Inf or Infinity, which parse as floats
// but keep their column as text.
func normalizeCell(cell string) (out string, nonFinite bool) {
	trimmed := strings.TrimSpace(cell)
	if _, missing := missingTokens[trimmed]; missing {
		return naToken, false
	}

	switch {
	case strings.EqualFold(trimmed, "true"):
		return "true", false
	case strings.EqualFold(trimmed, "false"):
		return "false", false
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return cell, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return cell, true
	}
	return trimmed, false
}

// normalizeHeaders trims names, fills blanks with Column_<n>, and suffixes
// repeats with .1, .2, ... so every column name is unique.
func normalizeHeaders(raw []string, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]struct{}, width)
	suffix := make(map[string]int)

	for i := range headers {
		name := ""
		if i < len(raw) {
			name = strings.TrimSpace(raw[i])
		}
		if name == "" {
			name = "Column_" + strconv.Itoa(i+1)
		}

		candidate := name
		for {
			if _, taken := seen[candidate]; !taken {
				break
			}
			suffix[name]++
			candidate = name + "." + strconv.Itoa(suffix[name])
		}

		seen[candidate] = struct{}{}
		headers[i] = candidate
	}

	return headers
}
