package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/fadilmartias/job-coach-ai/internal/model"
)

// VectorStore holds embedded corpus documents for similarity search.
type VectorStore interface {
	Replace(ctx context.Context, docs []model.CorpusDocument) error
	Search(ctx context.Context, embedding []float32, topK int) ([]model.RetrievedDocument, error)
	Count(ctx context.Context) (int64, error)
}

var _ VectorStore = (*InMemoryVectorStore)(nil)

// InMemoryVectorStore is a brute-force cosine similarity store.
type InMemoryVectorStore struct {
	mu   sync.RWMutex
	docs []model.CorpusDocument
}

func NewInMemoryVectorStore() *InMemoryVectorStore {
	return &InMemoryVectorStore{}
}

// Replace swaps the stored documents atomically.
func (s *InMemoryVectorStore) Replace(_ context.Context, docs []model.CorpusDocument) error {
	cp := make([]model.CorpusDocument, len(docs))
	copy(cp, docs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = cp
	return nil
}

func (s *InMemoryVectorStore) Search(ctx context.Context, embedding []float32, topK int) ([]model.RetrievedDocument, error) {
	s.mu.RLock()
	docs := s.docs
	s.mu.RUnlock()

	if len(docs) == 0 || len(embedding) == 0 || topK <= 0 {
		return nil, nil
	}

	results := make([]model.RetrievedDocument, 0, len(docs))
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, model.RetrievedDocument{
			Document: d,
			Score:    cosineSimilarity(embedding, d.Embedding.Slice()),
		})
	}

	// stable so equal scores keep corpus order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *InMemoryVectorStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		fa, fb := float64(a[i]), float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
