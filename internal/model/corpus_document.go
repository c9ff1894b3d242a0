package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DocumentMetadata struct {
	SOCCode    string  `json:"soc_code"`
	JobTitle   string  `json:"job_title"`
	GrowthRate float64 `json:"growth_rate"`
	Education  string  `json:"education"`
}

// CorpusDocument is the retrieval unit derived from a single JobRecord.
type CorpusDocument struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Position   int             `gorm:"index" json:"position"`
	Text       string          `gorm:"type:text" json:"text"`
	SOCCode    string          `gorm:"type:varchar(32)" json:"soc_code"`
	JobTitle   string          `json:"job_title"`
	GrowthRate float64         `gorm:"type:float" json:"growth_rate"`
	Education  string          `json:"education"`
	Embedding  pgvector.Vector `gorm:"type:vector" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (d *CorpusDocument) TableName() string {
	return "corpus_documents"
}

func (d CorpusDocument) Metadata() DocumentMetadata {
	return DocumentMetadata{
		SOCCode:    d.SOCCode,
		JobTitle:   d.JobTitle,
		GrowthRate: d.GrowthRate,
		Education:  d.Education,
	}
}

// RetrievalText is what gets embedded and handed to the model as context:
// a metadata header followed by the document text.
func (d CorpusDocument) RetrievalText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "soc_code: %s\n", d.SOCCode)
	fmt.Fprintf(&b, "job_title: %s\n", d.JobTitle)
	fmt.Fprintf(&b, "growth_rate: %s\n", strconv.FormatFloat(d.GrowthRate, 'f', -1, 64))
	fmt.Fprintf(&b, "education: %s\n\n", d.Education)
	b.WriteString(d.Text)
	return b.String()
}

type RetrievedDocument struct {
	Document CorpusDocument
	Score    float32
}
