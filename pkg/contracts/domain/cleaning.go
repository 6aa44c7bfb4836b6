package domain

import (
	"time"
)

// OutlierReport holds the Tukey fences computed for one column and the
// rows that fall outside them.
type OutlierReport struct {
	Column  Column  `json:"column"`
	Samples int     `json:"samples"` // non-null values used for the quartiles
	Q1      float64 `json:"q1"`
	Q3      float64 `json:"q3"`
	IQR     float64 `json:"iqr"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Rows    []Quote `json:"rows"`
}

// GapFillStatistics describes a gap fill run.
type GapFillStatistics struct {
	InputRows     int `json:"input_rows"`
	FilledRows    int `json:"filled_rows"`
	OutputRows    int `json:"output_rows"`
	OutOfRangeIDs int `json:"out_of_range_ids"`
}

// MismatchStatistics describes a mismatch removal run.
type MismatchStatistics struct {
	InputRows   int `json:"input_rows"`
	Groups      int `json:"groups"`
	OddGroups   int `json:"odd_groups"`
	RemovedRows int `json:"removed_rows"`
	OutputRows  int `json:"output_rows"`
}

// CleanSummary is the run-level summary of a cleaning pipeline execution.
type CleanSummary struct {
	RunID         string             `json:"run_id"`
	StartedAt     time.Time          `json:"started_at"`
	Duration      time.Duration      `json:"duration"`
	GapFill       GapFillStatistics  `json:"gap_fill"`
	Mismatch      MismatchStatistics `json:"mismatch"`
	OutlierCounts map[Column]int     `json:"outlier_counts,omitempty"`
}

// CleanResult is the output of the cleaning pipeline.
type CleanResult struct {
	Rows     []Quote         `json:"rows"`
	Outliers []OutlierReport `json:"outliers,omitempty"`
	Summary  CleanSummary    `json:"summary"`
}
