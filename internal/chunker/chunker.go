// Package chunker splits document text into overlapping retrieval chunks.
package chunker

import "strings"

// DefaultChunkSize is the target number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the number of characters shared by adjacent chunks.
const DefaultChunkOverlap = 200

// DefaultMinLength is the shortest chunk kept after trimming.
const DefaultMinLength = 50

// DefaultSeparators is the split preference order, most natural first:
// paragraph break, line break, sentence punctuation, clause punctuation,
// whitespace.
var DefaultSeparators = []string{"\n\n", "\n", ".", "!", "?", ";", ",", " "}

// Splitter splits text recursively: it cuts on the most natural separator
// present, and segments still exceeding the chunk size recurse with the next
// separator. Output is fully deterministic for a given input and config.
type Splitter struct {
	chunkSize  int
	overlap    int
	minLength  int
	separators []string
}

// New creates a splitter. Non-positive arguments fall back to defaults, and
// an overlap at or above the chunk size is clamped to a quarter of it.
func New(chunkSize, overlap, minLength int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		minLength:  minLength,
		separators: DefaultSeparators,
	}
}

// Split returns the ordered chunk texts for the given document text.
// Chunks shorter than the minimum viable length after trimming are dropped.
func (s *Splitter) Split(text string) []string {
	var out []string
	for _, raw := range s.split(text, s.separators) {
		trimmed := strings.TrimSpace(raw)
		if len(trimmed) >= s.minLength {
			out = append(out, trimmed)
		}
	}
	return out
}

func (s *Splitter) split(text string, separators []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	sep := ""
	var rest []string
	for i, cand := range separators {
		if strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}
	if sep == "" {
		// No separator left: cut fixed-size windows.
		return s.windows(text)
	}

	// Separators stay attached to the preceding piece so merged chunks are
	// byte-exact slices of the input.
	parts := splitAfter(text, sep)

	var final []string
	var pending []string
	for _, p := range parts {
		if len(p) <= s.chunkSize {
			pending = append(pending, p)
			continue
		}
		final = append(final, s.merge(pending)...)
		pending = nil
		final = append(final, s.split(p, rest)...)
	}
	return append(final, s.merge(pending)...)
}

// merge packs small pieces into chunks up to the chunk size, carrying a tail
// of up to overlap characters into the next chunk.
func (s *Splitter) merge(parts []string) []string {
	var chunks []string
	var buf []string
	bufLen := 0
	for _, p := range parts {
		if bufLen > 0 && bufLen+len(p) > s.chunkSize {
			chunks = append(chunks, strings.Join(buf, ""))
			for bufLen > s.overlap || (bufLen > 0 && bufLen+len(p) > s.chunkSize) {
				bufLen -= len(buf[0])
				buf = buf[1:]
			}
		}
		buf = append(buf, p)
		bufLen += len(p)
	}
	if bufLen > 0 {
		chunks = append(chunks, strings.Join(buf, ""))
	}
	return chunks
}

// windows cuts text into chunkSize slices stepping chunkSize-overlap.
func (s *Splitter) windows(text string) []string {
	step := s.chunkSize - s.overlap
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + s.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}

func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
