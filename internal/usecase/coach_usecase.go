package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/fadilmartias/job-coach-ai/internal/repository"
	"github.com/fadilmartias/job-coach-ai/internal/response"
	"github.com/fadilmartias/job-coach-ai/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SampleQuestions are offered as one-click prompts, in display order.
var SampleQuestions = []string{
	"What are the top 5 fastest growing jobs?",
	"Healthcare jobs that don't require a degree?",
	"Jobs with over 25% growth rate?",
	"Technology jobs without college degree?",
	"Best opportunities for career changers?",
}

type DatasetLoader interface {
	Load(ctx context.Context) (*model.JobTable, error)
}

type ProviderFactory interface {
	Embedder(ctx context.Context, apiKey string) (service.Embedder, error)
	Completer(ctx context.Context, apiKey string) (service.Completer, error)
}

// appState holds the shared table and index. Both stay until Reload.
// A load failure and ErrNoDocumentsProduced are remembered too; external
// call failures are not, so the next interaction can try again.
type appState struct {
	generation uint64
	table      *model.JobTable
	loadErr    error
	index      *QueryIndex
	indexErr   error
}

type IndexStatus struct {
	Built          bool      `json:"built"`
	Documents      int       `json:"documents"`
	EmbeddingModel string    `json:"embedding_model,omitempty"`
	BuiltAt        time.Time `json:"built_at,omitempty"`
}

type CoachUsecase struct {
	loader    DatasetLoader
	store     repository.VectorStore
	providers ProviderFactory
	logger    *zap.Logger

	mu     sync.Mutex
	state  appState
	builds singleflight.Group
}

func NewCoachUsecase(loader DatasetLoader, store repository.VectorStore, providers ProviderFactory, logger *zap.Logger) *CoachUsecase {
	return &CoachUsecase{
		loader:    loader,
		store:     store,
		providers: providers,
		logger:    logger,
	}
}

func (uc *CoachUsecase) SampleQuestions() []string {
	out := make([]string, len(SampleQuestions))
	copy(out, SampleQuestions)
	return out
}

// Dataset returns the loaded table, reading the file on first use.
func (uc *CoachUsecase) Dataset(ctx context.Context) (*model.JobTable, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state.table != nil || uc.state.loadErr != nil {
		return uc.state.table, uc.state.loadErr
	}

	table, err := uc.loader.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		uc.logger.Error("Failed to load dataset", zap.Error(err))
		uc.state.loadErr = err
		return nil, err
	}
	uc.state.table = table
	return table, nil
}

func (uc *CoachUsecase) Summary(ctx context.Context) (model.DatasetSummary, error) {
	table, err := uc.Dataset(ctx)
	if err != nil {
		return model.DatasetSummary{}, err
	}
	return Summarize(table), nil
}

// ListJobs pages through the loaded table in file order.
func (uc *CoachUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]model.JobRecord, response.Pagination, error) {
	table, err := uc.Dataset(ctx)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	p := response.NewPagination(page, pageSize, int64(table.Len()))
	if p.From == 0 {
		return []model.JobRecord{}, p, nil
	}
	return table.Records[p.From-1 : p.To], p, nil
}

func (uc *CoachUsecase) IndexStatus() IndexStatus {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ix := uc.state.index
	if ix == nil {
		return IndexStatus{}
	}
	return IndexStatus{
		Built:          true,
		Documents:      ix.Documents(),
		EmbeddingModel: ix.EmbeddingModel(),
		BuiltAt:        ix.BuiltAt(),
	}
}

// Index returns the shared query index, building it with the session's key
// if nobody has yet. Concurrent callers share one build.
func (uc *CoachUsecase) Index(ctx context.Context, sess *model.Session) (*QueryIndex, error) {
	table, err := uc.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	ix, ixErr, gen := uc.state.index, uc.state.indexErr, uc.state.generation
	uc.mu.Unlock()
	if ix != nil || ixErr != nil {
		return ix, ixErr
	}

	if !sess.HasAPIKey() {
		return nil, model.ErrMissingAPIKey
	}

	v, err, _ := uc.builds.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		// another flight may have finished since the check above
		uc.mu.Lock()
		cached, cachedErr := uc.state.index, uc.state.indexErr
		uc.mu.Unlock()
		if cached != nil || cachedErr != nil {
			return cached, cachedErr
		}

		docs, err := BuildCorpus(table)
		if err != nil {
			uc.logger.Warn("No documents to index", zap.Int("rows", table.Len()))
			uc.remember(gen, nil, err)
			return nil, err
		}

		embedder, err := uc.providers.Embedder(ctx, sess.APIKey())
		if err != nil {
			return nil, providerError("embedding", err)
		}

		start := time.Now()
		embedded, err := EmbedCorpus(ctx, docs, embedder)
		if err != nil {
			uc.logger.Error("Failed to build index", zap.Error(err))
			return nil, err
		}

		ix, err := uc.publish(ctx, gen, embedded, embedder.Model())
		if err != nil {
			if !errors.Is(err, errStaleBuild) {
				uc.logger.Error("Failed to build index", zap.Error(err))
			}
			return nil, err
		}

		uc.logger.Info("Index built",
			zap.Int("documents", ix.Documents()),
			zap.String("embedding_model", ix.EmbeddingModel()),
			zap.Duration("took", time.Since(start)),
		)
		return ix, nil
	})
	if errors.Is(err, errStaleBuild) {
		uc.logger.Info("Discarded index built before reload", zap.Uint64("generation", gen))
		return uc.Index(ctx, sess)
	}
	if err != nil {
		return nil, err
	}
	return v.(*QueryIndex), nil
}

var errStaleBuild = errors.New("index build outlived its generation")

// publish writes embedded docs to the store and records the index, unless a
// reload happened since the build started. The lock is held across the
// check and the write so a stale build never reaches the store.
func (uc *CoachUsecase) publish(ctx context.Context, gen uint64, embedded []model.CorpusDocument, embeddingModel string) (*QueryIndex, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state.generation != gen {
		return nil, errStaleBuild
	}
	if uc.state.index != nil {
		return uc.state.index, nil
	}

	ix, err := StoreIndex(ctx, embedded, embeddingModel, uc.store)
	if err != nil {
		return nil, err
	}
	uc.state.index = ix
	uc.state.indexErr = nil
	return ix, nil
}

func (uc *CoachUsecase) remember(gen uint64, ix *QueryIndex, err error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	// a reload during the build makes this result stale
	if uc.state.generation != gen {
		return
	}
	uc.state.index = ix
	uc.state.indexErr = err
}

// providerError keeps a misconfigured provider distinct from a failed call.
func providerError(kind string, err error) error {
	if errors.Is(err, model.ErrUnknownProvider) {
		return err
	}
	return fmt.Errorf("%w: %s provider: %w", model.ErrExternalCallFailure, kind, err)
}

// Ask answers a free-text question for the session.
func (uc *CoachUsecase) Ask(ctx context.Context, sess *model.Session, question string) (*model.QueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, model.ErrInvalidQuestion
	}
	if !sess.HasAPIKey() {
		return nil, model.ErrMissingAPIKey
	}

	ix, err := uc.Index(ctx, sess)
	if err != nil {
		return nil, err
	}

	embedder, err := uc.providers.Embedder(ctx, sess.APIKey())
	if err != nil {
		return nil, providerError("embedding", err)
	}
	completer, err := uc.providers.Completer(ctx, sess.APIKey())
	if err != nil {
		return nil, providerError("completion", err)
	}

	resp, err := ix.Query(ctx, question, embedder, completer)
	if err != nil {
		uc.logger.Error("Query failed", zap.String("session", sess.ID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Question answered",
		zap.String("session", sess.ID),
		zap.Int("question_length", len(question)),
		zap.Int("sources", len(resp.Sources)),
		zap.String("model", resp.Model),
	)
	return resp, nil
}

func (uc *CoachUsecase) SampleQuestion(n int) (string, error) {
	if n < 0 || n >= len(SampleQuestions) {
		return "", fmt.Errorf("%w: %d", model.ErrUnknownSample, n)
	}
	return SampleQuestions[n], nil
}

func (uc *CoachUsecase) AskSample(ctx context.Context, sess *model.Session, n int) (*model.QueryResponse, error) {
	q, err := uc.SampleQuestion(n)
	if err != nil {
		return nil, err
	}
	return uc.Ask(ctx, sess, q)
}

// QueueSample marks a sample question to be answered on the next render.
func (uc *CoachUsecase) QueueSample(sess *model.Session, n int) error {
	q, err := uc.SampleQuestion(n)
	if err != nil {
		return err
	}
	sess.SetPendingSample(q)
	return nil
}

// Answer asks the question and records the outcome as the session's last
// result. Failures are kept on the result for display.
func (uc *CoachUsecase) Answer(ctx context.Context, sess *model.Session, question string, fromSample bool) *model.QueryResult {
	result := &model.QueryResult{Question: strings.TrimSpace(question), FromSample: fromSample}
	resp, err := uc.Ask(ctx, sess, question)
	if err != nil {
		result.Err = err.Error()
	} else {
		result.Response = resp
	}
	sess.SetLastResult(result)
	return result
}

// AnswerPendingSample answers and clears the session's queued sample, if any.
func (uc *CoachUsecase) AnswerPendingSample(ctx context.Context, sess *model.Session) (*model.QueryResult, bool) {
	q, ok := sess.TakePendingSample()
	if !ok {
		return nil, false
	}
	return uc.Answer(ctx, sess, q, true), true
}

// Reload drops the cached table and index and reads the dataset again.
func (uc *CoachUsecase) Reload(ctx context.Context) (*model.JobTable, error) {
	uc.mu.Lock()
	uc.state = appState{generation: uc.state.generation + 1}
	uc.mu.Unlock()

	uc.logger.Info("Application state invalidated")
	return uc.Dataset(ctx)
}

// IsUserError reports errors caused by input rather than by the system.
func IsUserError(err error) bool {
	return errors.Is(err, model.ErrInvalidQuestion) ||
		errors.Is(err, model.ErrMissingAPIKey) ||
		errors.Is(err, model.ErrUnknownSample)
}
