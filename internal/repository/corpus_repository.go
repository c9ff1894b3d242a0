package repository

import (
	"context"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

var _ VectorStore = (*CorpusRepository)(nil)

// CorpusRepository keeps the corpus in Postgres using the pgvector extension.
type CorpusRepository struct {
	db *gorm.DB
}

func NewCorpusRepository(db *gorm.DB) *CorpusRepository {
	return &CorpusRepository{db}
}

// Migrate enables pgvector and creates the corpus table.
func (r *CorpusRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).AutoMigrate(&model.CorpusDocument{})
}

// Replace drops the previous corpus and inserts docs in one transaction.
func (r *CorpusRepository) Replace(ctx context.Context, docs []model.CorpusDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.CorpusDocument{}).Error; err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		rows := make([]model.CorpusDocument, len(docs))
		copy(rows, docs)
		return tx.CreateInBatches(&rows, 50).Error
	})
}

type scoredCorpusRow struct {
	model.CorpusDocument
	Distance float64
}

func (r *CorpusRepository) Search(ctx context.Context, embedding []float32, topK int) ([]model.RetrievedDocument, error) {
	if len(embedding) == 0 || topK <= 0 {
		return nil, nil
	}

	vec := pgvector.NewVector(embedding)
	var rows []scoredCorpusRow

	// <=> is cosine distance, so similarity is 1 - distance
	err := r.db.WithContext(ctx).Raw(`
        SELECT *, embedding <=> ? AS distance
        FROM corpus_documents
        ORDER BY embedding <=> ?, position
        LIMIT ?
    `, vec, vec, topK).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]model.RetrievedDocument, 0, len(rows))
	for _, row := range rows {
		results = append(results, model.RetrievedDocument{
			Document: row.CorpusDocument,
			Score:    float32(1 - row.Distance),
		})
	}
	return results, nil
}

func (r *CorpusRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CorpusDocument{}).Count(&n).Error
	return n, err
}
