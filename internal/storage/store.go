package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// Default file names under the data directory.
const (
	// RawArticlesFile holds fetched articles before enrichment.
	RawArticlesFile = "articles.json"

	// ProcessedArticlesFile holds enriched articles ready for site
	// generation.
	ProcessedArticlesFile = "processed_articles.json"
)

// Store reads and writes article collections under a data directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Path returns the absolute path of a store file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// SaveArticles writes the collection to the named store file atomically.
func (s *Store) SaveArticles(name string, articles []*model.Article) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode articles: %w", err)
	}

	// Write to a temp file in the same directory, then rename. Rename is
	// atomic on the same filesystem, so readers never see a half-written
	// store.
	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write articles: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	s.logger.Info("saved articles", "count", len(articles), "path", path)
	return nil
}

// LoadArticles reads the named store file. A missing file is not an
// error: it returns an empty collection with a warning, so first runs and
// partial pipelines work without setup. A corrupt file is an error.
func (s *Store) LoadArticles(name string) ([]*model.Article, error) {
	path := s.Path(name)

	data, err := os.ReadFile(path) //nolint:gosec // Store path is derived from configured data dir
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("article store not found, starting empty", "path", path)
			return []*model.Article{}, nil
		}
		return nil, fmt.Errorf("failed to read article store: %w", err)
	}

	var articles []*model.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("article store %s is corrupt: %w", path, err)
	}

	return articles, nil
}
