package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/port"
)

const responseExcerptLen = 200

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	queryPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(can you|could you|please|tell me|what is|what are|how to|how do|how can)\s+`),
		regexp.MustCompile(`(?i)^(i want to know|i need to know|i am looking for)\s+`),
	}
)

// QueryRequest is one user question with optional session attribution.
type QueryRequest struct {
	Message      string
	SessionID    string
	IncludeDebug bool
}

// QueryService runs the full query pipeline: validate, preprocess,
// classify, retrieve, score, compose, log. Everything past validation
// degrades rather than fails, so the caller always gets a structured result.
type QueryService struct {
	intents        *IntentClassifier
	retriever      *Retriever
	composer       *Composer
	queryLog       port.QueryLog
	maxQueryLength int
	minConfidence  float64
}

// NewQueryService wires the query pipeline.
func NewQueryService(intents *IntentClassifier, retriever *Retriever, composer *Composer, queryLog port.QueryLog, maxQueryLength int, minConfidence float64) *QueryService {
	if maxQueryLength <= 0 {
		maxQueryLength = 500
	}
	return &QueryService{
		intents:        intents,
		retriever:      retriever,
		composer:       composer,
		queryLog:       queryLog,
		maxQueryLength: maxQueryLength,
		minConfidence:  minConfidence,
	}
}

// Process resolves one query. The only error it returns is a
// *port.ValidationError for rejected input; every internal failure mode is
// absorbed into a degraded-but-valid result.
func (s *QueryService) Process(ctx context.Context, req QueryRequest) (domain.QueryResult, error) {
	start := time.Now()

	if strings.TrimSpace(req.Message) == "" {
		return domain.QueryResult{}, &port.ValidationError{Message: "Please enter a question."}
	}
	if len(req.Message) > s.maxQueryLength {
		return domain.QueryResult{}, &port.ValidationError{
			Message: fmt.Sprintf("Query too long. Please keep it under %d characters.", s.maxQueryLength),
		}
	}

	processed := preprocessQuery(req.Message)
	intent := s.intents.Classify(processed)
	results := s.retriever.Retrieve(ctx, processed, intent)
	confidence := scoreConfidence(results, intent)
	answer := s.composer.Compose(ctx, processed, results, intent, confidence)

	elapsed := time.Since(start).Seconds()
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// A failed log write never fails the query.
	s.appendLog(ctx, domain.QueryRecord{
		Timestamp:       time.Now().UTC(),
		Query:           req.Message,
		ResponseExcerpt: excerpt(answer.Text, responseExcerptLen),
		Confidence:      confidence,
		RetrievedDocs:   len(results),
		ProcessingTime:  elapsed,
		TopicDetected:   intent.Topic,
		FallbackUsed:    confidence < s.minConfidence,
		SessionID:       sessionID,
	})

	result := domain.QueryResult{
		Response:          answer.Text,
		Confidence:        confidence,
		Sources:           answer.Sources,
		TopicDetected:     intent.Topic,
		ProcessingTime:    elapsed,
		RetrievedDocCount: len(results),
	}
	if req.IncludeDebug {
		result.Debug = debugInfo(processed, intent, results)
	}

	slog.Info("query processed", "topic", intent.Topic, "confidence", confidence,
		"results", len(results), "elapsed_s", elapsed)
	return result, nil
}

func (s *QueryService) appendLog(ctx context.Context, rec domain.QueryRecord) {
	if s.queryLog == nil {
		return
	}
	if err := s.queryLog.Append(ctx, rec); err != nil {
		slog.Error("query log append failed", "error", err)
	}
}

// preprocessQuery normalises whitespace and strips leading question
// boilerplate so keyword scoring sees the substantive words.
func preprocessQuery(query string) string {
	query = strings.TrimSpace(whitespaceRe.ReplaceAllString(query, " "))
	for _, re := range queryPrefixes {
		query = re.ReplaceAllString(query, "")
	}
	return strings.TrimSpace(query)
}

func excerpt(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

func debugInfo(processed string, intent domain.IntentInfo, results []domain.SearchResult) map[string]any {
	top := results
	if len(top) > 2 {
		top = top[:2]
	}
	return map[string]any{
		"processed_query": processed,
		"intent_info":     intent,
		"retrieved_docs":  top,
	}
}
