package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// Loader reads a weekly fundamentals snapshot from CSV. Parsing is
// forgiving by contract: a cell that is blank or malformed loads as 0.
// Only structural problems are errors: an unreadable file, a missing
// header, or a header without a name column.
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates a snapshot loader.
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{logger: log}
}

// LoadFile loads a snapshot from disk.
func (l *Loader) LoadFile(path string) ([]contracts.StockRecord, *contracts.CoverageReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return l.Load(f)
}

// Load reads a snapshot from r. The first row is the header; known
// columns may appear in any order and unknown columns are ignored.
// Duplicate stock names keep the first row.
func (l *Loader) Load(r io.Reader) ([]contracts.StockRecord, *contracts.CoverageReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("snapshot has no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	layout, err := mapHeader(header)
	if err != nil {
		return nil, nil, err
	}

	report := &contracts.CoverageReport{LoadedAt: time.Now()}
	seen := make(map[string]bool)
	var records []contracts.StockRecord

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		report.TotalRows++
		record, ok := layout.parse(row)
		if !ok {
			report.Skipped++
			continue
		}
		if seen[record.Name] {
			report.Duplicates++
			continue
		}
		seen[record.Name] = true
		records = append(records, record)
	}

	report.Loaded = len(records)
	report.Coverage = measureCoverage(records)

	l.logger.WithFields(map[string]interface{}{
		"loaded":     report.Loaded,
		"skipped":    report.Skipped,
		"duplicates": report.Duplicates,
		"coverage":   fmt.Sprintf("%.0f%%", report.Rate()*100),
	}).Info("Snapshot loaded")

	if column, rate := report.Worst(); report.Loaded > 0 && rate < 0.5 {
		l.logger.WithFields(map[string]interface{}{
			"column": column,
			"rate":   fmt.Sprintf("%.0f%%", rate*100),
		}).Warn("Snapshot column sparsely populated")
	}

	return records, report, nil
}

// headerLayout maps the column positions of one specific file onto
// record fields.
type headerLayout struct {
	nameIdx     int
	nseIdx      int
	bseIdx      int
	industryIdx int
	numeric     map[int]int // csv position -> columns index
}

func mapHeader(header []string) (*headerLayout, error) {
	layout := &headerLayout{
		nameIdx:     -1,
		nseIdx:      -1,
		bseIdx:      -1,
		industryIdx: -1,
		numeric:     make(map[int]int),
	}

	for i, h := range header {
		normalized := normalizeHeader(h)
		switch {
		case matchesAny(normalized, nameAliases):
			if layout.nameIdx == -1 {
				layout.nameIdx = i
			}
		case matchesAny(normalized, nseCodeAliases):
			if layout.nseIdx == -1 {
				layout.nseIdx = i
			}
		case matchesAny(normalized, bseCodeAliases):
			if layout.bseIdx == -1 {
				layout.bseIdx = i
			}
		case matchesAny(normalized, industryAliases):
			if layout.industryIdx == -1 {
				layout.industryIdx = i
			}
		default:
			if ci, ok := aliasIndex[normalized]; ok {
				layout.numeric[i] = ci
			}
		}
	}

	if layout.nameIdx == -1 {
		return nil, fmt.Errorf("snapshot header has no name column")
	}
	return layout, nil
}

// parse turns one data row into a record. Rows without a name are not
// records.
func (hl *headerLayout) parse(row []string) (contracts.StockRecord, bool) {
	var record contracts.StockRecord

	record.Name = cell(row, hl.nameIdx)
	if record.Name == "" {
		return record, false
	}
	record.NSECode = cell(row, hl.nseIdx)
	record.BSECode = cell(row, hl.bseIdx)
	record.Industry = cell(row, hl.industryIdx)

	for csvIdx, colIdx := range hl.numeric {
		if csvIdx < len(row) {
			columns[colIdx].set(&record, parseNumber(row[csvIdx]))
		}
	}
	return record, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// measureCoverage counts non-zero cells per tracked column.
func measureCoverage(records []contracts.StockRecord) map[string]float64 {
	coverage := make(map[string]float64, len(columns))
	for _, c := range columns {
		populated := 0
		for i := range records {
			if c.get(&records[i]) != 0 {
				populated++
			}
		}
		rate := 0.0
		if len(records) > 0 {
			rate = float64(populated) / float64(len(records))
		}
		coverage[c.name] = rate
	}
	return coverage
}
