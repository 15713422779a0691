package service

import (
	"context"
	"errors"
	"sync"

	"github.com/startupguru/startupguru/internal/domain"
)

// fakeAI is a scriptable AIProvider for pipeline tests. Embeddings come from
// embedFn (a fixed unit vector when nil) and every call is counted.
type fakeAI struct {
	mu sync.Mutex

	embedFn      func(text string) []float32
	embedErr     error
	batchErrOnce bool

	chatResponse string
	chatErr      error
	lastSystem   string
	lastPrompt   string

	embedCalls int
	batchCalls int
	chatCalls  int
}

func (f *fakeAI) ModelName() string { return "fake-model" }

func (f *fakeAI) vector(text string) []float32 {
	if f.embedFn != nil {
		return f.embedFn(text)
	}
	return []float32{1, 0, 0}
}

func (f *fakeAI) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.vector(text), nil
}

func (f *fakeAI) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.batchErrOnce {
		f.batchErrOnce = false
		return nil, errors.New("embedding backend unavailable")
	}
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = f.vector(t)
	}
	return vectors, nil
}

func (f *fakeAI) Chat(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	f.lastSystem = systemPrompt
	f.lastPrompt = userPrompt
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.chatResponse, nil
}

// fakeQueryLog records appended entries in memory.
type fakeQueryLog struct {
	mu        sync.Mutex
	records   []domain.QueryRecord
	appendErr error
}

func (f *fakeQueryLog) Append(_ context.Context, rec domain.QueryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeQueryLog) Stats(_ context.Context) (domain.QueryLogStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.QueryLogStats{TotalQueries: len(f.records)}, nil
}

func (f *fakeQueryLog) last() domain.QueryRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[len(f.records)-1]
}
