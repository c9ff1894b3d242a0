package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxIndexedRows caps how many leading table rows feed the index.
	MaxIndexedRows = 100

	// HighGrowthThreshold is exclusive: exactly 15% is still "stable".
	HighGrowthThreshold = 15.0

	openingsPlaceholder  = "Data not available"
	educationPlaceholder = "Not specified"
	skillsPlaceholder    = "Skills data not available"
)

// BuildCorpus turns the first MaxIndexedRows records into retrieval
// documents, skipping rows without a title or a numeric growth rate.
func BuildCorpus(table *model.JobTable) ([]model.CorpusDocument, error) {
	var docs []model.CorpusDocument
	now := time.Now()
	for _, rec := range table.Head(MaxIndexedRows) {
		doc, ok := NewCorpusDocument(rec)
		if !ok {
			continue
		}
		doc.Position = len(docs)
		doc.CreatedAt = now
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, model.ErrNoDocumentsProduced
	}
	return docs, nil
}

// NewCorpusDocument reports false when the record cannot be indexed.
func NewCorpusDocument(rec model.JobRecord) (model.CorpusDocument, bool) {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		return model.CorpusDocument{}, false
	}
	growth, ok := rec.GrowthRateValue()
	if !ok {
		return model.CorpusDocument{}, false
	}

	openings := orDefault(rec.AnnualOpenings, openingsPlaceholder)
	education := orDefault(rec.Education, educationPlaceholder)
	skills := orDefault(rec.TopSkills, skillsPlaceholder)
	rate := formatGrowth(growth)

	var b strings.Builder
	fmt.Fprintf(&b, "Job Title: %s\n", title)
	fmt.Fprintf(&b, "SOC Code: %s\n", rec.SOCCode)
	fmt.Fprintf(&b, "Growth Rate: %s%% projected growth from 2023 to 2033\n", rate)
	fmt.Fprintf(&b, "Annual Job Openings: %s\n", openings)
	fmt.Fprintf(&b, "Education Required: %s\n", education)
	fmt.Fprintf(&b, "Key Skills Needed: %s\n\n", skills)
	fmt.Fprintf(&b, "%s is experiencing %s%% growth through 2033. This role typically requires %s and offers career prospects in a %s field.",
		title, rate, cases.Lower(language.English).String(education), GrowthQualifier(growth))

	return model.CorpusDocument{
		ID:         uuid.New(),
		Text:       b.String(),
		SOCCode:    rec.SOCCode,
		JobTitle:   title,
		GrowthRate: growth,
		Education:  education,
	}, true
}

func GrowthQualifier(rate float64) string {
	if rate > HighGrowthThreshold {
		return "high-growth"
	}
	return "stable"
}

// Summarize computes dataset metrics over every row of the table.
func Summarize(table *model.JobTable) model.DatasetSummary {
	summary := model.DatasetSummary{TotalJobs: table.Len()}
	if table == nil {
		return summary
	}

	var sum float64
	for _, rec := range table.Records {
		v, ok := rec.GrowthRateValue()
		if !ok {
			continue
		}
		if summary.GrowthSamples == 0 || v > summary.MaxGrowthRate {
			summary.MaxGrowthRate = v
		}
		sum += v
		summary.GrowthSamples++
	}
	if summary.GrowthSamples > 0 {
		summary.AvgGrowthRate = sum / float64(summary.GrowthSamples)
		summary.HasGrowthStats = true
	}
	return summary
}

// formatGrowth prints a float the way the source data reads: 12.5, 15.0.
// Growth is a float column, so whole numbers always keep the ".0", even when
// every value in the file is an integer.
func formatGrowth(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
