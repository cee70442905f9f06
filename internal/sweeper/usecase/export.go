package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// Encode serializes df in the given format: a header row, then one row per record.
// Missing cells are written empty.
func Encode(df dataframe.DataFrame, format entity.Format) ([]byte, error) {
	switch format {
	case entity.FormatCSV:
		return encodeCSV(df)
	case entity.FormatExcel:
		return encodeExcel(df)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// ExportFileName swaps the extension of the uploaded file name for the target format's.
func ExportFileName(fileName, ext string, format entity.Format) string {
	base := fileName
	if ext != "" && strings.HasSuffix(strings.ToLower(base), strings.ToLower(ext)) {
		base = base[:len(base)-len(ext)]
	}
	if base == "" {
		base = "dataset"
	}
	return base + format.Extension()
}

func encodeCSV(df dataframe.DataFrame) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(df.Names()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	cols := seriesOf(df)
	record := make([]string, len(cols))
	for i := 0; i < df.Nrow(); i++ {
		for j, s := range cols {
			record[j] = cellText(s, i)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func encodeExcel(df dataframe.DataFrame) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create stream writer: %w", err)
	}

	names := df.Names()
	header := make([]any, len(names))
	for i, name := range names {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	cols := seriesOf(df)
	for i := 0; i < df.Nrow(); i++ {
		row := make([]any, len(cols))
		for j, s := range cols {
			row[j] = cellValue(s, i)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
