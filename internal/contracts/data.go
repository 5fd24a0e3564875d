package contracts

import (
	"sort"
	"time"
)

// CoverageReport describes how completely a loaded snapshot populates
// the numeric columns the pipeline reads. Loading never fails on sparse
// data; the report makes the sparseness visible.
type CoverageReport struct {
	LoadedAt   time.Time `json:"loadedAt"`
	TotalRows  int       `json:"totalRows"`
	Loaded     int       `json:"loaded"`
	Skipped    int       `json:"skipped"`
	Duplicates int       `json:"duplicates"`

	// Coverage maps a column to the fraction of loaded records carrying
	// a non-zero value for it, 0.0 to 1.0. An absent source column shows
	// up as 0, indistinguishable from all-zero data: scoring treats both
	// the same way.
	Coverage map[string]float64 `json:"coverage,omitempty"`
}

// Rate returns the average coverage across all tracked columns.
func (c *CoverageReport) Rate() float64 {
	if len(c.Coverage) == 0 {
		return 0
	}

	total := 0.0
	for _, rate := range c.Coverage {
		total += rate
	}
	return total / float64(len(c.Coverage))
}

// Worst returns the least-populated column, ties broken alphabetically.
func (c *CoverageReport) Worst() (string, float64) {
	if len(c.Coverage) == 0 {
		return "", 0
	}

	columns := make([]string, 0, len(c.Coverage))
	for column := range c.Coverage {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	name, rate := columns[0], c.Coverage[columns[0]]
	for _, column := range columns[1:] {
		if c.Coverage[column] < rate {
			name, rate = column, c.Coverage[column]
		}
	}
	return name, rate
}
