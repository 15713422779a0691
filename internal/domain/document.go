package domain

// SourceDocument is one scraped policy page as delivered by the scraper.
// Documents are immutable once ingested; re-scraping the same URL produces
// a new document whose chunks supersede the old ones via id-stable upserts.
type SourceDocument struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Topic       string `json:"topic"`
	Section     string `json:"section"`
	SourceType  string `json:"source_type,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// MinContentLength is the shortest document content worth ingesting.
// Anything below this carries no retrievable signal.
const MinContentLength = 200
