package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// FAQSourceURL is the pseudo-url carried by seeded FAQ pattern chunks.
// It is never surfaced as a citation.
const FAQSourceURL = "internal://faq"

// Chunk is a bounded segment of a source document, the atomic unit of
// retrieval. Its ID is derived from (source URL, index) so re-ingesting the
// same document overwrites instead of duplicating.
type Chunk struct {
	ID          string `json:"chunk_id"`
	Text        string `json:"text"`
	SourceURL   string `json:"url"`
	Title       string `json:"title"`
	Topic       string `json:"topic"`
	Section     string `json:"section"`
	SourceType  string `json:"source_type"`
	Index       int    `json:"chunk_index"`
	TotalInDoc  int    `json:"total_chunks"`
	CharLength  int    `json:"chunk_length"`
	WordCount   int    `json:"word_count"`
	LastUpdated string `json:"last_updated"`
}

// ChunkMetadata is the metadata record persisted alongside each embedding.
type ChunkMetadata struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Topic       string `json:"topic"`
	Section     string `json:"section"`
	SourceType  string `json:"source_type"`
	ChunkID     string `json:"chunk_id"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
	ChunkLength int    `json:"chunk_length"`
	WordCount   int    `json:"word_count"`
	LastUpdated string `json:"last_updated"`
}

// Metadata returns the stored metadata view of the chunk.
func (c Chunk) Metadata() ChunkMetadata {
	return ChunkMetadata{
		Title:       c.Title,
		URL:         c.SourceURL,
		Topic:       c.Topic,
		Section:     c.Section,
		SourceType:  c.SourceType,
		ChunkID:     c.ID,
		ChunkIndex:  c.Index,
		TotalChunks: c.TotalInDoc,
		ChunkLength: c.CharLength,
		WordCount:   c.WordCount,
		LastUpdated: c.LastUpdated,
	}
}

// ChunkID derives the canonical chunk id from a source URL and chunk index.
// The id is the first 32 hex characters of a SHA-256 digest of "url#index",
// fixed-width and collision-resistant. This derivation is part of the storage
// contract: identical (url, index) pairs always map to the same id.
func ChunkID(url string, index int) string {
	sum := sha256.Sum256([]byte(url + "#" + strconv.Itoa(index)))
	return hex.EncodeToString(sum[:])[:32]
}

// NewChunk builds a chunk for one split segment of a document.
func NewChunk(doc SourceDocument, index, total int, text string) Chunk {
	return Chunk{
		ID:          ChunkID(doc.URL, index),
		Text:        text,
		SourceURL:   doc.URL,
		Title:       doc.Title,
		Topic:       doc.Topic,
		Section:     doc.Section,
		SourceType:  doc.SourceType,
		Index:       index,
		TotalInDoc:  total,
		CharLength:  len(text),
		WordCount:   len(strings.Fields(text)),
		LastUpdated: doc.LastUpdated,
	}
}

// SearchResult is one nearest-neighbour match, ephemeral per query.
// Similarity is 1 - Distance for the cosine metric, so it is monotonic
// non-increasing in distance.
type SearchResult struct {
	ChunkID    string        `json:"id"`
	Text       string        `json:"content"`
	Metadata   ChunkMetadata `json:"metadata"`
	Distance   float64       `json:"distance"`
	Similarity float64       `json:"similarity"`
}

// CollectionStats summarises the stored corpus.
type CollectionStats struct {
	TotalChunks int            `json:"total_chunks"`
	Topics      map[string]int `json:"topics"`
	Sections    map[string]int `json:"sections"`
	SourceTypes map[string]int `json:"source_types"`
}
