package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/fadilmartias/job-coach-ai/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs(t *testing.T) []model.CorpusDocument {
	t.Helper()
	docs, err := BuildCorpus(tableOf(
		record("Registered Nurses", "5.6"),
		record("Nurse Practitioners", "46.3"),
		record("Software Developers", "17.9"),
		record("Data Scientists", "36"),
		record("Electricians", "11"),
	))
	require.NoError(t, err)
	return docs
}

func TestBuildIndex(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryVectorStore()
	embedder := &fakeEmbedder{}

	ix, err := BuildIndex(ctx, testDocs(t), embedder, store)
	require.NoError(t, err)
	assert.Equal(t, 5, ix.Documents())
	assert.Equal(t, "fake-embedding", ix.EmbeddingModel())
	assert.False(t, ix.BuiltAt().IsZero())
	assert.EqualValues(t, 1, embedder.docCalls.Load())

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestBuildIndex_EmbeddingFailure(t *testing.T) {
	_, err := BuildIndex(context.Background(), testDocs(t), &fakeEmbedder{docErr: errUpstream}, repository.NewInMemoryVectorStore())
	assert.ErrorIs(t, err, model.ErrExternalCallFailure)
	assert.ErrorIs(t, err, errUpstream)
}

func TestEmbedCorpus_LeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := repository.NewInMemoryVectorStore()

	embedded, err := EmbedCorpus(ctx, testDocs(t), &fakeEmbedder{})
	require.NoError(t, err)
	require.Len(t, embedded, 5)
	assert.Equal(t, []float32{1, 0}, embedded[0].Embedding.Slice())

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	ix, err := StoreIndex(ctx, embedded, "fake-embedding", store)
	require.NoError(t, err)
	assert.Equal(t, 5, ix.Documents())
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestBuildIndex_Empty(t *testing.T) {
	_, err := BuildIndex(context.Background(), nil, &fakeEmbedder{}, repository.NewInMemoryVectorStore())
	assert.ErrorIs(t, err, model.ErrNoDocumentsProduced)
}

func TestQueryIndex_Query(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{}
	completer := &fakeCompleter{answer: "  verbatim answer\n"}

	ix, err := BuildIndex(ctx, testDocs(t), embedder, repository.NewInMemoryVectorStore())
	require.NoError(t, err)

	resp, err := ix.Query(ctx, "  Which nurse jobs grow?  ", embedder, completer)
	require.NoError(t, err)
	assert.Equal(t, "  verbatim answer\n", resp.Answer)
	assert.Equal(t, "Which nurse jobs grow?", resp.Question)
	assert.Equal(t, "fake-chat", resp.Model)
	require.Len(t, resp.Sources, SimilarityTopK)
	assert.Equal(t, "Registered Nurses", resp.Sources[0].JobTitle)
	assert.Equal(t, "Nurse Practitioners", resp.Sources[1].JobTitle)

	prompt := completer.lastPrompt()
	assert.Contains(t, prompt, "Context information is below.")
	assert.Contains(t, prompt, "job_title: Registered Nurses")
	assert.Contains(t, prompt, "Query: Which nurse jobs grow?")
}

func TestQueryIndex_Errors(t *testing.T) {
	ctx := context.Background()
	ix, err := BuildIndex(ctx, testDocs(t), &fakeEmbedder{}, repository.NewInMemoryVectorStore())
	require.NoError(t, err)

	_, err = ix.Query(ctx, "   ", &fakeEmbedder{}, &fakeCompleter{})
	assert.ErrorIs(t, err, model.ErrInvalidQuestion)

	_, err = ix.Query(ctx, "q", &fakeEmbedder{queryErr: errUpstream}, &fakeCompleter{})
	assert.ErrorIs(t, err, model.ErrExternalCallFailure)

	completer := &fakeCompleter{err: errUpstream}
	_, err = ix.Query(ctx, "q", &fakeEmbedder{}, completer)
	assert.ErrorIs(t, err, model.ErrExternalCallFailure)
	assert.ErrorIs(t, err, errUpstream)
	assert.Len(t, completer.prompts, 1, "completion must not be retried")
}

func TestBuildPrompt(t *testing.T) {
	hits := []model.RetrievedDocument{
		{Document: model.CorpusDocument{JobTitle: "A", Text: "alpha"}},
		{Document: model.CorpusDocument{JobTitle: "B", Text: "beta"}},
	}
	prompt := BuildPrompt(hits, "what?")
	assert.Contains(t, prompt, "alpha\n\nsoc_code:")
	assert.Contains(t, prompt, "beta\n---------------------\n")
	assert.True(t, strings.HasSuffix(prompt, "Answer: "))
}
