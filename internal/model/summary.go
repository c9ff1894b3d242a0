package model

type DatasetSummary struct {
	TotalJobs      int     `json:"total_jobs"`
	GrowthSamples  int     `json:"growth_samples"`
	AvgGrowthRate  float64 `json:"avg_growth_rate"`
	MaxGrowthRate  float64 `json:"max_growth_rate"`
	HasGrowthStats bool    `json:"has_growth_stats"`
}
