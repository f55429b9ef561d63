package domain

import "time"

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)

// ExportRequest bounds and shapes an audit trail export. Compressed exports
// are snappy-encoded, meant for archival transfer rather than direct viewing.
type ExportRequest struct {
	StartDate time.Time
	EndDate   time.Time
	Format    ExportFormat
	Actions   []string
	Compress  bool
}

type ExportResult struct {
	Data       []byte
	Checksum   string
	Format     ExportFormat
	Count      int
	Compressed bool
}
