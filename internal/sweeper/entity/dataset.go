package entity

import (
	"time"

	"github.com/go-gota/gota/dataframe"
)

type Column struct {
	Name string
	Kind ColumnKind
}

type DatasetMeta struct {
	ID        string
	FileName  string
	Ext       string
	SizeBytes int64
	Rows      int
	Columns   []Column

	UploadedAt time.Time
	UpdatedAt  time.Time
}

// Dataset is one uploaded file held in memory for the session.
//
// Frame is treated as immutable: operations build a new frame and swap it in.
type Dataset struct {
	Meta  DatasetMeta
	Frame dataframe.DataFrame
}
