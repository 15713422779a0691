// Package loader reads scraped policy documents from disk.
package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/startupguru/startupguru/internal/domain"
)

// LoadDir reads every .json file in dir, one SourceDocument per file, the
// format the scraper writes. Unreadable or malformed files are logged and
// skipped; only a missing directory is an error. Files load in name order so
// repeated runs see the same sequence.
func LoadDir(dir string) ([]domain.SourceDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scraped dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]domain.SourceDocument, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable document", "file", name, "error", err)
			continue
		}
		var doc domain.SourceDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			slog.Warn("skipping malformed document", "file", name, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	slog.Info("loaded scraped documents", "dir", dir, "count", len(docs))
	return docs, nil
}
