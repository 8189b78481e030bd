package signature

import "dataprofiler/domain/core"

// StoredProfileInfo is the ProfileStore index row for one stored profile
// (spec §3). It never embeds the full DataProfile; ProfilePath points to
// the JSON blob that does.
type StoredProfileInfo struct {
	ID          string // 12-hex
	SourcePath  string
	FileName    string
	StoredAt    core.Timestamp
	RowCount    int64
	ColumnCount int

	ContentHash string // 16 hex chars, or "db:"+16 hex for non-file sources
	FileSize    int64  // bytes for files, row_count for non-file sources
	SchemaHash  string // 16 hex chars

	StatisticalSignature StatisticalSignature
	CentroidVector       []float64

	IsPinnedBaseline    bool
	ExcludeFromBaseline bool
	Tags                []string
	Notes               string

	SegmentName   string
	SegmentFilter string
	SegmentGroup  string

	ProfilePath string
}
