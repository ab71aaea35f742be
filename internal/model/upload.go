package model

// RowError lists every problem found on one data row. Rows are numbered from 1.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportReport summarises one ingestion batch.
type ImportReport struct {
	TotalRows    int        `json:"totalRows"`
	SuccessCount int        `json:"successCount"`
	FailedCount  int        `json:"failedCount"`
	Errors       []RowError `json:"errors"`
}
