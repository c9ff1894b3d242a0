package service

import "context"

// Embedder turns text into vectors. EmbedDocuments keeps input order.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Completer answers a prompt with a hosted language model.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

func float64sTo32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
