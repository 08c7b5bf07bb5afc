package contract

import "encoding/json"

type ExportOptions struct {
	Format         ExportFormat    `json:"format" validate:"required,enum"`
	Columns        []string        `json:"columns" validate:"min=1,dive,required"`
	Filters        json.RawMessage `json:"filters,omitempty"`
	IncludeHeaders bool            `json:"includeHeaders"`
}

type ImportError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

type ImportResult struct {
	TotalRows   int           `json:"totalRows"`
	SuccessRows int           `json:"successRows"`
	ErrorRows   int           `json:"errorRows"`
	Errors      []ImportError `json:"errors"`
}
