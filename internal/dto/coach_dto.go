package dto

import (
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/model"
)

type SessionRequest struct {
	APIKey string `json:"api_key" form:"api_key"`
}

type SessionResponse struct {
	ID        string    `json:"id"`
	HasAPIKey bool      `json:"has_api_key"`
	CreatedAt time.Time `json:"created_at"`
	Provider  string    `json:"provider"`
	MaskedKey string    `json:"masked_key,omitempty"`
}

type QueryRequest struct {
	Question string `json:"question" form:"question"`
}

type SourceResponse struct {
	SOCCode    string  `json:"soc_code"`
	JobTitle   string  `json:"job_title"`
	GrowthRate float64 `json:"growth_rate"`
	Score      float32 `json:"score"`
}

type QueryResponse struct {
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	Model      string           `json:"model"`
	Sources    []SourceResponse `json:"sources"`
	AnsweredAt time.Time        `json:"answered_at"`
}

type SummaryResponse struct {
	TotalJobs     int      `json:"total_jobs"`
	GrowthSamples int      `json:"growth_samples"`
	AvgGrowthRate *float64 `json:"avg_growth_rate"`
	MaxGrowthRate *float64 `json:"max_growth_rate"`
}

type IndexResponse struct {
	Documents      int       `json:"documents"`
	EmbeddingModel string    `json:"embedding_model"`
	BuiltAt        time.Time `json:"built_at"`
}

type SampleResponse struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
}

func NewQueryResponse(r *model.QueryResponse) QueryResponse {
	sources := make([]SourceResponse, 0, len(r.Sources))
	for _, s := range r.Sources {
		sources = append(sources, SourceResponse(s))
	}
	return QueryResponse{
		Question:   r.Question,
		Answer:     r.Answer,
		Model:      r.Model,
		Sources:    sources,
		AnsweredAt: r.AnsweredAt,
	}
}

// NewSummaryResponse leaves the growth figures null when no row had one.
func NewSummaryResponse(s model.DatasetSummary) SummaryResponse {
	out := SummaryResponse{TotalJobs: s.TotalJobs, GrowthSamples: s.GrowthSamples}
	if s.HasGrowthStats {
		avg, max := s.AvgGrowthRate, s.MaxGrowthRate
		out.AvgGrowthRate = &avg
		out.MaxGrowthRate = &max
	}
	return out
}

// MaskAPIKey keeps only the last four characters visible.
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	if len(r) <= 4 {
		return "****"
	}
	return "****" + string(r[len(r)-4:])
}
