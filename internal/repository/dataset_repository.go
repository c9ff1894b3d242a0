package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column headers of the BLS projections export.
const (
	ColumnSOCCode        = "SOC Code"
	ColumnJobTitle       = "Job Title"
	ColumnGrowthRate     = "Growth Rate % Employment change, percent, 2023–33"
	ColumnAnnualOpenings = "Annual Job Openings - Occupational openings, 2023–33 annual average"
	ColumnEducation      = "Education Required"
	ColumnTopSkills      = "Top_Skills"
)

var requiredColumns = []string{
	ColumnSOCCode,
	ColumnJobTitle,
	ColumnGrowthRate,
	ColumnAnnualOpenings,
	ColumnEducation,
	ColumnTopSkills,
}

// Cells read as missing, same set pandas treats as NA by default.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

type DatasetRepository struct {
	path   string
	logger *zap.Logger
}

func NewDatasetRepository(path string, logger *zap.Logger) *DatasetRepository {
	return &DatasetRepository{path: path, logger: logger}
}

func (r *DatasetRepository) Path() string {
	return r.path
}

// Load reads the whole CSV. Every failure is reported as ErrDataUnavailable.
func (r *DatasetRepository) Load(ctx context.Context) (*model.JobTable, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDataUnavailable, err)
	}
	defer f.Close()

	records, err := ParseJobRecords(ctx, f)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Dataset loaded",
		zap.String("path", r.path),
		zap.Int("rows", len(records)),
	)

	return &model.JobTable{
		Source:   r.path,
		Records:  records,
		LoadedAt: time.Now(),
	}, nil
}

// ParseJobRecords decodes CSV content with the required columns into records,
// keeping file order.
func ParseJobRecords(ctx context.Context, src io.Reader) ([]model.JobRecord, error) {
	reader := csv.NewReader(transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", model.ErrDataUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", model.ErrDataUnavailable, err)
	}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	idx := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		pos, ok := positions[normalizeHeader(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %q", model.ErrDataUnavailable, missing)
	}

	var records []model.JobRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrDataUnavailable, err)
		}

		cell := func(col string) string {
			pos := idx[col]
			if pos >= len(row) {
				return ""
			}
			return normalizeCell(row[pos])
		}

		records = append(records, model.JobRecord{
			Row:            len(records),
			SOCCode:        cell(ColumnSOCCode),
			Title:          cell(ColumnJobTitle),
			GrowthRate:     cell(ColumnGrowthRate),
			AnnualOpenings: cell(ColumnAnnualOpenings),
			Education:      cell(ColumnEducation),
			TopSkills:      cell(ColumnTopSkills),
		})
	}

	return records, nil
}

// normalizeHeader makes header matching insensitive to case, spacing,
// Unicode form and the dash variant used in "2023–33".
func normalizeHeader(h string) string {
	h = norm.NFKC.String(h)
	h = strings.Map(func(r rune) rune {
		switch r {
		case '‐', '‑', '‒', '–', '—', '−':
			return '-'
		}
		return r
	}, h)
	h = strings.Join(strings.Fields(h), " ")
	return cases.Fold().String(h)
}

func normalizeCell(v string) string {
	v = strings.TrimSpace(v)
	if _, ok := missingTokens[v]; ok {
		return ""
	}
	return v
}
