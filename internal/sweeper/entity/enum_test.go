package entity

import "testing"

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"csv":   FormatCSV,
		" CSV ": FormatCSV,
		"excel": FormatExcel,
		"Excel": FormatExcel,
		"xlsx":  FormatExcel,
	}
	for in, want := range cases {
		got, ok := ParseFormat(in)
		if !ok || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}

	if _, ok := ParseFormat("pdf"); ok {
		t.Fatalf("expected pdf to be rejected")
	}
}

func TestFormatFileDetails(t *testing.T) {
	if FormatCSV.Extension() != ".csv" || FormatCSV.MediaType() != "text/csv" {
		t.Fatalf("unexpected csv details: %s %s", FormatCSV.Extension(), FormatCSV.MediaType())
	}
	if FormatExcel.Extension() != ".xlsx" {
		t.Fatalf("unexpected excel extension: %s", FormatExcel.Extension())
	}
	if FormatExcel.MediaType() != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected excel media type: %s", FormatExcel.MediaType())
	}
}

func TestColumnKindIsNumeric(t *testing.T) {
	if !ColumnKindInt.IsNumeric() || !ColumnKindFloat.IsNumeric() {
		t.Fatalf("expected int and float to be numeric")
	}
	if ColumnKindString.IsNumeric() || ColumnKindBool.IsNumeric() {
		t.Fatalf("expected string and bool to be non-numeric")
	}
}
