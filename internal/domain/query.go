package domain

import "time"

// TopicGeneral is the fallback topic when no keyword list scores.
const TopicGeneral = "general"

// Query type labels assigned by the intent classifier, in precedence order.
const (
	QueryTypeDefinition = "definition"
	QueryTypeProcess    = "process"
	QueryTypeCriteria   = "criteria"
	QueryTypeList       = "list"
	QueryTypeGeneral    = "general"
)

// IntentInfo is the per-query intent signal derived from keyword scoring.
// Topic is always a defined label, never empty.
type IntentInfo struct {
	Topic           string         `json:"topic"`
	QueryType       string         `json:"query_type"`
	IntentScores    map[string]int `json:"intent_scores"`
	MatchedKeywords []string       `json:"keywords_found"`
}

// Source is one citation attached to an answer.
type Source struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Topic      string  `json:"topic"`
	Similarity float64 `json:"similarity"`
}

// Answer is the composed response text with its citations.
type Answer struct {
	Text         string   `json:"text"`
	Sources      []Source `json:"sources"`
	FallbackUsed bool     `json:"fallback_used"`
}

// QueryResult is the structured outcome returned to the caller for every
// processed query, degraded or not.
type QueryResult struct {
	Response          string         `json:"response"`
	Confidence        float64        `json:"confidence"`
	Sources           []Source       `json:"sources"`
	TopicDetected     string         `json:"topic_detected"`
	ProcessingTime    float64        `json:"processing_time"`
	RetrievedDocCount int            `json:"retrieved_docs_count"`
	Debug             map[string]any `json:"debug,omitempty"`
}

// QueryRecord is one append-only analytics row, written synchronously before
// the response is returned and never mutated afterwards.
type QueryRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	Query           string    `json:"query"`
	ResponseExcerpt string    `json:"response_excerpt"`
	Confidence      float64   `json:"confidence"`
	RetrievedDocs   int       `json:"retrieved_docs"`
	ProcessingTime  float64   `json:"processing_time"`
	TopicDetected   string    `json:"topic_detected"`
	FallbackUsed    bool      `json:"fallback_used"`
	SessionID       string    `json:"session_id"`
}

// QueryLogStats aggregates the query log for the stats endpoint.
type QueryLogStats struct {
	TotalQueries       int            `json:"total_queries"`
	AvgConfidence      float64        `json:"average_confidence"`
	AvgProcessingTime  float64        `json:"average_processing_time"`
	TopicDistribution  map[string]int `json:"topic_distribution"`
	LastQueryTimestamp time.Time      `json:"last_query_time"`
}
