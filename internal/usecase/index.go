package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/fadilmartias/job-coach-ai/internal/repository"
	"github.com/fadilmartias/job-coach-ai/internal/service"
	"github.com/pgvector/pgvector-go"
)

// SimilarityTopK is the number of documents retrieved per question.
const SimilarityTopK = 3

const systemPrompt = "You are Job Coach AI, a career advisor. Answer using the U.S. Bureau of Labor Statistics employment projections provided as context. Be concrete and cite job titles and growth rates."

// QueryIndex is the handle questions are asked against.
type QueryIndex struct {
	store          repository.VectorStore
	topK           int
	documents      int
	embeddingModel string
	builtAt        time.Time
}

// BuildIndex embeds docs in one batch and loads them into store.
func BuildIndex(ctx context.Context, docs []model.CorpusDocument, embedder service.Embedder, store repository.VectorStore) (*QueryIndex, error) {
	embedded, err := EmbedCorpus(ctx, docs, embedder)
	if err != nil {
		return nil, err
	}
	return StoreIndex(ctx, embedded, embedder.Model(), store)
}

// EmbedCorpus returns copies of docs carrying their embeddings. Nothing is
// written to a store.
func EmbedCorpus(ctx context.Context, docs []model.CorpusDocument, embedder service.Embedder) ([]model.CorpusDocument, error) {
	if len(docs) == 0 {
		return nil, model.ErrNoDocumentsProduced
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.RetrievalText()
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed documents: %w", model.ErrExternalCallFailure, err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w: embed documents: got %d vectors for %d documents", model.ErrExternalCallFailure, len(vectors), len(docs))
	}

	embedded := make([]model.CorpusDocument, len(docs))
	for i, d := range docs {
		d.Embedding = pgvector.NewVector(vectors[i])
		embedded[i] = d
	}
	return embedded, nil
}

// StoreIndex replaces the contents of store with embedded docs.
func StoreIndex(ctx context.Context, embedded []model.CorpusDocument, embeddingModel string, store repository.VectorStore) (*QueryIndex, error) {
	if len(embedded) == 0 {
		return nil, model.ErrNoDocumentsProduced
	}
	if err := store.Replace(ctx, embedded); err != nil {
		return nil, fmt.Errorf("%w: store documents: %w", model.ErrExternalCallFailure, err)
	}

	return &QueryIndex{
		store:          store,
		topK:           SimilarityTopK,
		documents:      len(embedded),
		embeddingModel: embeddingModel,
		builtAt:        time.Now(),
	}, nil
}

func (ix *QueryIndex) Documents() int {
	return ix.documents
}

func (ix *QueryIndex) EmbeddingModel() string {
	return ix.embeddingModel
}

func (ix *QueryIndex) BuiltAt() time.Time {
	return ix.builtAt
}

// Query retrieves the closest documents and asks the model. The answer text
// is returned as the model produced it.
func (ix *QueryIndex) Query(ctx context.Context, question string, embedder service.Embedder, completer service.Completer) (*model.QueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, model.ErrInvalidQuestion
	}

	vec, err := embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", model.ErrExternalCallFailure, err)
	}

	hits, err := ix.store.Search(ctx, vec, ix.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", model.ErrExternalCallFailure, err)
	}

	answer, err := completer.Complete(ctx, systemPrompt, BuildPrompt(hits, question))
	if err != nil {
		return nil, fmt.Errorf("%w: completion: %w", model.ErrExternalCallFailure, err)
	}

	sources := make([]model.Source, 0, len(hits))
	for _, h := range hits {
		sources = append(sources, model.Source{
			SOCCode:    h.Document.SOCCode,
			JobTitle:   h.Document.JobTitle,
			GrowthRate: h.Document.GrowthRate,
			Score:      h.Score,
		})
	}

	return &model.QueryResponse{
		Question:   question,
		Answer:     answer,
		Sources:    sources,
		Model:      completer.Model(),
		AnsweredAt: time.Now(),
	}, nil
}

// BuildPrompt stuffs the retrieved documents ahead of the question.
func BuildPrompt(hits []model.RetrievedDocument, question string) string {
	var b strings.Builder
	b.WriteString("Context information is below.\n")
	b.WriteString("---------------------\n")
	for i, h := range hits {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(h.Document.RetrievalText())
	}
	b.WriteString("\n---------------------\n")
	b.WriteString("Given the context information and not prior knowledge, answer the query.\n")
	fmt.Fprintf(&b, "Query: %s\n", question)
	b.WriteString("Answer: ")
	return b.String()
}
