package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/fadilmartias/job-coach-ai/internal/service"
)

var errUpstream = errors.New("upstream exploded")

// fakeEmbedder maps text to a 2-d vector: health-care texts point one way,
// everything else the other.
type fakeEmbedder struct {
	docCalls   atomic.Int32
	queryCalls atomic.Int32
	docErr     error
	queryErr   error

	// when set, the first EmbedDocuments call signals started and waits
	// for release
	started chan struct{}
	release chan struct{}
}

func embedText(text string) []float32 {
	if strings.Contains(strings.ToLower(text), "nurse") {
		return []float32{1, 0}
	}
	return []float32{0, 1}
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.docCalls.Add(1) == 1 && f.release != nil {
		close(f.started)
		<-f.release
	}
	if f.docErr != nil {
		return nil, f.docErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedText(t)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queryCalls.Add(1)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return embedText(text), nil
}

func (f *fakeEmbedder) Model() string { return "fake-embedding" }

type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	answer  string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeCompleter) Model() string { return "fake-chat" }

func (f *fakeCompleter) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeFactory struct {
	embedder  *fakeEmbedder
	completer *fakeCompleter
	keys      []string
	mu        sync.Mutex

	embedderErr  error
	completerErr error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		embedder:  &fakeEmbedder{},
		completer: &fakeCompleter{answer: "Registered Nurses are growing fast."},
	}
}

func (f *fakeFactory) Embedder(_ context.Context, key string) (service.Embedder, error) {
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	if f.embedderErr != nil {
		return nil, f.embedderErr
	}
	return f.embedder, nil
}

func (f *fakeFactory) Completer(_ context.Context, key string) (service.Completer, error) {
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	if f.completerErr != nil {
		return nil, f.completerErr
	}
	return f.completer, nil
}

type fakeLoader struct {
	calls atomic.Int32
	table *model.JobTable
	err   error
}

func (l *fakeLoader) Load(context.Context) (*model.JobTable, error) {
	l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return l.table, nil
}

func record(title, growth string) model.JobRecord {
	return model.JobRecord{
		SOCCode:        "29-1141",
		Title:          title,
		GrowthRate:     growth,
		AnnualOpenings: "193100",
		Education:      "Bachelor's degree",
		TopSkills:      "Patient care, Communication",
	}
}

func tableOf(records ...model.JobRecord) *model.JobTable {
	for i := range records {
		records[i].Row = i + 1
	}
	return &model.JobTable{Source: "test.csv", Records: records}
}
