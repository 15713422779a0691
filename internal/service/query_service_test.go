package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupguru/startupguru/internal/adapter/store"
	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/port"
	"github.com/startupguru/startupguru/pkg/config"
)

type queryPipeline struct {
	service *QueryService
	ai      *fakeAI
	store   *store.MemoryStore
	log     *fakeQueryLog
}

func newQueryPipeline(t *testing.T, ai *fakeAI) *queryPipeline {
	t.Helper()
	tax, err := config.LoadTaxonomy("")
	require.NoError(t, err)

	st := store.NewMemoryStore()
	log := &fakeQueryLog{}

	intents := NewIntentClassifier(tax.Topics)
	retriever := NewRetriever(ai, st, 8, 0.1)
	composer := NewComposer(ai, tax.Templates, "StartupGuru", 0.3)
	svc := NewQueryService(intents, retriever, composer, log, 500, 0.3)

	return &queryPipeline{service: svc, ai: ai, store: st, log: log}
}

func (p *queryPipeline) seed(t *testing.T, chunk domain.Chunk, vector []float32) {
	t.Helper()
	require.NoError(t, p.store.Upsert(context.Background(), []domain.Chunk{chunk}, [][]float32{vector}))
}

func TestProcessRejectsEmptyQuery(t *testing.T) {
	p := newQueryPipeline(t, &fakeAI{})

	_, err := p.service.Process(context.Background(), QueryRequest{Message: "   "})

	var ve *port.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please enter a question.", ve.Message)
	assert.Empty(t, p.log.records)
}

func TestProcessRejectsOverlongQuery(t *testing.T) {
	p := newQueryPipeline(t, &fakeAI{})

	_, err := p.service.Process(context.Background(), QueryRequest{Message: strings.Repeat("a", 501)})

	var ve *port.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "under 500 characters")
}

func TestProcessFundingQueryEndToEnd(t *testing.T) {
	ai := &fakeAI{chatResponse: "The Seed Fund Scheme offers grants up to Rs 20 lakh for validation."}
	p := newQueryPipeline(t, ai)
	p.seed(t, domain.Chunk{
		ID:        "c1",
		Text:      "The Startup India Seed Fund Scheme provides financial assistance to startups.",
		SourceURL: "https://www.startupindia.gov.in/funding",
		Title:     "Seed Fund Scheme",
		Topic:     "funding",
		Section:   "schemes",
	}, []float32{1, 0, 0})

	res, err := p.service.Process(context.Background(), QueryRequest{Message: "What funding schemes are available for startups?"})

	require.NoError(t, err)
	assert.Equal(t, "funding", res.TopicDetected)
	assert.Contains(t, res.Response, "Seed Fund Scheme")
	assert.Equal(t, 1, res.RetrievedDocCount)
	assert.GreaterOrEqual(t, res.Confidence, 0.3)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "https://www.startupindia.gov.in/funding", res.Sources[0].URL)

	require.Len(t, p.log.records, 1)
	rec := p.log.last()
	assert.Equal(t, "funding", rec.TopicDetected)
	assert.False(t, rec.FallbackUsed)
	assert.NotEmpty(t, rec.SessionID)
	assert.LessOrEqual(t, len(rec.ResponseExcerpt), 200)
}

func TestProcessNoRelevantResults(t *testing.T) {
	ai := &fakeAI{
		chatResponse: "should never be used",
		embedFn: func(text string) []float32 {
			if strings.Contains(text, "Seed Fund") {
				return []float32{0, 1, 0}
			}
			return []float32{1, 0, 0}
		},
	}
	p := newQueryPipeline(t, ai)
	p.seed(t, domain.Chunk{
		ID:    "c1",
		Text:  "Seed Fund Scheme details.",
		Topic: "funding",
	}, []float32{0, 1, 0})

	res, err := p.service.Process(context.Background(), QueryRequest{Message: "completely unrelated question"})

	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, 0, res.RetrievedDocCount)
	assert.Contains(t, res.Response, "couldn't find specific information")
	assert.Zero(t, ai.chatCalls)

	rec := p.log.last()
	assert.True(t, rec.FallbackUsed)
}

func TestProcessKeepsCallerSessionID(t *testing.T) {
	p := newQueryPipeline(t, &fakeAI{chatResponse: "ok"})

	_, err := p.service.Process(context.Background(), QueryRequest{Message: "how to register", SessionID: "session-42"})

	require.NoError(t, err)
	assert.Equal(t, "session-42", p.log.last().SessionID)
}

func TestProcessDebugPayload(t *testing.T) {
	p := newQueryPipeline(t, &fakeAI{chatResponse: "ok"})

	res, err := p.service.Process(context.Background(), QueryRequest{Message: "how to register", IncludeDebug: true})
	require.NoError(t, err)
	assert.Contains(t, res.Debug, "processed_query")
	assert.Contains(t, res.Debug, "intent_info")

	res, err = p.service.Process(context.Background(), QueryRequest{Message: "how to register"})
	require.NoError(t, err)
	assert.Nil(t, res.Debug)
}

func TestProcessSurvivesLogFailure(t *testing.T) {
	p := newQueryPipeline(t, &fakeAI{chatResponse: "ok"})
	p.log.appendErr = assert.AnError

	res, err := p.service.Process(context.Background(), QueryRequest{Message: "how to register"})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Response)
}

func TestPreprocessQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  what is   the eligibility?  ", "the eligibility?"},
		{"Please explain tax exemption", "explain tax exemption"},
		{"I want to know about funding", "about funding"},
		{"register a startup", "register a startup"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, preprocessQuery(tc.in), "input %q", tc.in)
	}
}
