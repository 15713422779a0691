package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/pkg/config"
)

func testTemplates(t *testing.T) config.Templates {
	t.Helper()
	tax, err := config.LoadTaxonomy("")
	require.NoError(t, err)
	return tax.Templates
}

func fundingResult(url string, similarity float64) domain.SearchResult {
	return domain.SearchResult{
		ChunkID: "c1",
		Text:    "The Startup India Seed Fund Scheme provides financial assistance to early stage startups.",
		Metadata: domain.ChunkMetadata{
			Title: "Seed Fund Scheme",
			URL:   url,
			Topic: "funding",
		},
		Similarity: similarity,
	}
}

func TestComposeNoResultsSkipsGeneration(t *testing.T) {
	ai := &fakeAI{chatResponse: "should never be used"}
	c := NewComposer(ai, testTemplates(t), "StartupGuru", 0.3)

	answer := c.Compose(context.Background(), "obscure query", nil, domain.IntentInfo{Topic: domain.TopicGeneral}, 0.0)

	assert.Equal(t, testTemplates(t).NoResults, answer.Text)
	assert.True(t, answer.FallbackUsed)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, ai.chatCalls)
}

func TestComposeLowConfidenceUsesExcerpts(t *testing.T) {
	ai := &fakeAI{chatResponse: "should never be used"}
	c := NewComposer(ai, testTemplates(t), "StartupGuru", 0.3)

	results := []domain.SearchResult{fundingResult("https://www.startupindia.gov.in/funding", 0.2)}
	answer := c.Compose(context.Background(), "funding", results, domain.IntentInfo{Topic: "funding"}, 0.2)

	assert.True(t, strings.HasPrefix(answer.Text, testTemplates(t).ConfidenceLow))
	assert.Contains(t, answer.Text, "According to Seed Fund Scheme:")
	assert.True(t, answer.FallbackUsed)
	assert.Zero(t, ai.chatCalls)
	require.Len(t, answer.Sources, 1)
}

func TestComposeHighConfidenceCallsGeneration(t *testing.T) {
	ai := &fakeAI{chatResponse: "Startups can apply for the Seed Fund Scheme."}
	c := NewComposer(ai, testTemplates(t), "StartupGuru", 0.3)

	results := []domain.SearchResult{fundingResult("https://www.startupindia.gov.in/funding", 0.8765)}
	answer := c.Compose(context.Background(), "funding options", results, domain.IntentInfo{Topic: "funding", QueryType: domain.QueryTypeList}, 0.9)

	assert.Equal(t, 1, ai.chatCalls)
	assert.Contains(t, answer.Text, "Seed Fund Scheme")
	assert.Contains(t, answer.Text, "Source: https://www.startupindia.gov.in/funding")
	assert.False(t, answer.FallbackUsed)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, 0.877, answer.Sources[0].Similarity)

	assert.Contains(t, ai.lastPrompt, "[Document 1]")
	assert.Contains(t, ai.lastPrompt, "comprehensive list")
	assert.Contains(t, ai.lastSystem, "StartupGuru")
}

func TestComposeGenerationFailureFallsBackToExcerpts(t *testing.T) {
	ai := &fakeAI{chatErr: errors.New("model timeout")}
	c := NewComposer(ai, testTemplates(t), "StartupGuru", 0.3)

	results := []domain.SearchResult{fundingResult("https://www.startupindia.gov.in/funding", 0.8)}
	answer := c.Compose(context.Background(), "funding", results, domain.IntentInfo{Topic: "funding"}, 0.9)

	assert.True(t, answer.FallbackUsed)
	assert.Contains(t, answer.Text, "According to Seed Fund Scheme:")
}

func TestComposeCollapsesBlankRuns(t *testing.T) {
	ai := &fakeAI{chatResponse: "First paragraph.\n\n\n\nSecond paragraph."}
	c := NewComposer(ai, testTemplates(t), "StartupGuru", 0.3)

	results := []domain.SearchResult{fundingResult("https://www.startupindia.gov.in/funding", 0.8)}
	answer := c.Compose(context.Background(), "q", results, domain.IntentInfo{Topic: "funding"}, 0.9)

	assert.Contains(t, answer.Text, "First paragraph.\n\nSecond paragraph.")
	assert.NotContains(t, answer.Text, "\n\n\n")
}

func TestComposeDoesNotCiteFAQSource(t *testing.T) {
	ai := &fakeAI{chatResponse: "An answer."}
	c := NewComposer(ai, testTemplates(t), "StartupGuru", 0.3)

	results := []domain.SearchResult{fundingResult(domain.FAQSourceURL, 0.8)}
	answer := c.Compose(context.Background(), "q", results, domain.IntentInfo{Topic: "funding"}, 0.9)

	assert.NotContains(t, answer.Text, "Source:")
}

func TestComposePromptInstructionsFollowQueryType(t *testing.T) {
	templates := testTemplates(t)
	cases := map[string]string{
		domain.QueryTypeDefinition: "clear definition",
		domain.QueryTypeProcess:    "step-by-step",
		domain.QueryTypeCriteria:   "eligibility criteria",
		domain.QueryTypeGeneral:    "comprehensive answer",
	}
	for queryType, want := range cases {
		ai := &fakeAI{chatResponse: "ok"}
		c := NewComposer(ai, templates, "StartupGuru", 0.3)
		results := []domain.SearchResult{fundingResult("https://example.gov", 0.8)}

		c.Compose(context.Background(), "q", results, domain.IntentInfo{Topic: "funding", QueryType: queryType}, 0.9)

		assert.Contains(t, ai.lastPrompt, want, "query type %s", queryType)
	}
}
