package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// JobRecord is one row of the projections CSV. Missing cells are empty strings.
type JobRecord struct {
	Row            int    `json:"row"`
	SOCCode        string `json:"soc_code"`
	Title          string `json:"job_title"`
	GrowthRate     string `json:"growth_rate"`
	AnnualOpenings string `json:"annual_openings"`
	Education      string `json:"education"`
	TopSkills      string `json:"top_skills"`
}

// GrowthRateValue coerces the growth column to a float. NaN and infinities
// are reported as unparseable.
func (r JobRecord) GrowthRateValue() (float64, bool) {
	raw := strings.TrimSpace(r.GrowthRate)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type JobTable struct {
	Source   string      `json:"source"`
	Records  []JobRecord `json:"records"`
	LoadedAt time.Time   `json:"loaded_at"`
}

func (t *JobTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Head returns at most the first n records in file order.
func (t *JobTable) Head(n int) []JobRecord {
	if t == nil || n <= 0 {
		return nil
	}
	if n > len(t.Records) {
		n = len(t.Records)
	}
	return t.Records[:n]
}
