package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/port"
	"github.com/startupguru/startupguru/pkg/config"
)

const (
	// maxContextDocs chunks go into the LLM prompt.
	maxContextDocs = 4
	// maxContextChars truncates each prompt chunk.
	maxContextChars = 800
	// excerptDocs chunks feed the template fallback.
	excerptDocs = 2
	// excerptChars truncates each fallback excerpt.
	excerptChars = 300
)

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Composer builds the final answer: an LLM completion grounded on retrieved
// chunks when confidence clears the threshold, a verbatim-excerpt template
// otherwise.
type Composer struct {
	ai            port.AIProvider
	templates     config.Templates
	appName       string
	minConfidence float64
}

// NewComposer creates a composer with the given response templates.
func NewComposer(ai port.AIProvider, templates config.Templates, appName string, minConfidence float64) *Composer {
	return &Composer{ai: ai, templates: templates, appName: appName, minConfidence: minConfidence}
}

// Compose produces the answer for a scored retrieval. A completion-provider
// failure falls back to verbatim excerpts rather than surfacing a transport
// error. With zero results no completion call is made at all.
func (c *Composer) Compose(ctx context.Context, query string, results []domain.SearchResult, intent domain.IntentInfo, confidence float64) domain.Answer {
	if confidence < c.minConfidence {
		return c.composeLowConfidence(results)
	}

	prompt := c.buildPrompt(query, results, intent.QueryType)
	system := fmt.Sprintf("You are %s, an expert assistant for Startup India policies and procedures.", c.appName)

	text, err := c.ai.Chat(ctx, system, prompt)
	fallback := false
	if err != nil {
		slog.Error("generation failed, using excerpt fallback", "error", err)
		text = c.excerptResponse(results)
		fallback = true
	}

	return domain.Answer{
		Text:         c.postProcess(text, results),
		Sources:      extractSources(results),
		FallbackUsed: fallback,
	}
}

func (c *Composer) composeLowConfidence(results []domain.SearchResult) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{
			Text:         c.templates.NoResults,
			Sources:      []domain.Source{},
			FallbackUsed: true,
		}
	}

	top := results
	if len(top) > excerptDocs {
		top = top[:excerptDocs]
	}
	text := c.templates.ConfidenceLow + "\n\n" + c.excerptResponse(top)
	return domain.Answer{
		Text:         c.postProcess(text, top),
		Sources:      extractSources(top),
		FallbackUsed: true,
	}
}

// buildPrompt labels the top chunks as [Document i] blocks and appends
// formatting guidance matched to the query type.
func (c *Composer) buildPrompt(query string, results []domain.SearchResult, queryType string) string {
	top := results
	if len(top) > maxContextDocs {
		top = top[:maxContextDocs]
	}

	parts := make([]string, len(top))
	for i, r := range top {
		content := r.Text
		if len(content) > maxContextChars {
			content = content[:maxContextChars] + "..."
		}
		parts[i] = fmt.Sprintf("[Document %d]:\n%s", i+1, content)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are %s, an expert assistant for Startup India information.
Use ONLY the provided context to answer the user's question accurately and comprehensively.

Context:
%s

User Question: %s

Guidelines:
- Answer based ONLY on the provided context
- Be specific, detailed, and helpful
- Include relevant procedures, requirements, or criteria when applicable
- If the context doesn't fully answer the question, say so clearly
- Format your response with bullet points or numbered lists when appropriate
- Mention specific schemes, programs, or documents when relevant`,
		c.appName, strings.Join(parts, "\n\n"), query)

	switch queryType {
	case domain.QueryTypeDefinition:
		b.WriteString("\n- Provide a clear definition and explanation\n- Include any relevant categories or types\n- Mention key characteristics or features")
	case domain.QueryTypeProcess:
		b.WriteString("\n- Provide step-by-step instructions\n- Include required documents or prerequisites\n- Mention timeframes if available\n- Highlight important deadlines or conditions")
	case domain.QueryTypeCriteria:
		b.WriteString("\n- List all eligibility criteria clearly\n- Organize by categories if applicable\n- Include any exclusions or special conditions\n- Mention verification requirements")
	case domain.QueryTypeList:
		b.WriteString("\n- Provide a comprehensive list\n- Categorize items if applicable\n- Include brief descriptions for each item\n- Mention any application procedures if relevant")
	default:
		b.WriteString("\n- Provide a comprehensive answer\n- Include all relevant details from the context")
	}
	b.WriteString("\n\nAnswer:")

	return b.String()
}

// excerptResponse concatenates top chunk excerpts verbatim, the degraded
// answer when the LLM is unavailable.
func (c *Composer) excerptResponse(results []domain.SearchResult) string {
	if len(results) == 0 {
		return c.templates.NoResults
	}

	top := results
	if len(top) > excerptDocs {
		top = top[:excerptDocs]
	}

	parts := make([]string, len(top))
	for i, r := range top {
		content := r.Text
		if len(content) > excerptChars {
			content = content[:excerptChars] + "..."
		}
		title := r.Metadata.Title
		if title == "" {
			title = "Document"
		}
		parts[i] = fmt.Sprintf("According to %s: %s", title, content)
	}
	return strings.Join(parts, "\n\n")
}

// postProcess collapses runs of blank lines and appends a source citation
// when the top result has a real external url and the text does not already
// cite one.
func (c *Composer) postProcess(text string, results []domain.SearchResult) string {
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if !strings.Contains(text, "Source:") && len(results) > 0 {
		url := results[0].Metadata.URL
		if url != "" && url != domain.FAQSourceURL {
			text += "\n\nSource: " + url
		}
	}
	return text
}

func extractSources(results []domain.SearchResult) []domain.Source {
	sources := make([]domain.Source, len(results))
	for i, r := range results {
		title := r.Metadata.Title
		if title == "" {
			title = "Unknown Document"
		}
		topic := r.Metadata.Topic
		if topic == "" {
			topic = domain.TopicGeneral
		}
		sources[i] = domain.Source{
			Title:      title,
			URL:        r.Metadata.URL,
			Topic:      topic,
			Similarity: roundSimilarity(r.Similarity),
		}
	}
	return sources
}

func roundSimilarity(s float64) float64 {
	return float64(int(s*1000+0.5)) / 1000
}
