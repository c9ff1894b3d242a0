package model

import "time"

type Source struct {
	SOCCode    string  `json:"soc_code"`
	JobTitle   string  `json:"job_title"`
	GrowthRate float64 `json:"growth_rate"`
	Score      float32 `json:"score"`
}

// QueryResponse is produced per question and never persisted.
type QueryResponse struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Sources    []Source  `json:"sources"`
	Model      string    `json:"model"`
	AnsweredAt time.Time `json:"answered_at"`
}
