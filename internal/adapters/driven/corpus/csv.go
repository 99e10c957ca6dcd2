// Package corpus provides the sources a preprocessing run reads movies from.
package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CorpusSource = (*CSVSource)(nil)

var errNoCorpusFile = errors.New("no corpus file matches")

// CSVSourceConfig holds configuration for the CSV corpus source.
type CSVSourceConfig struct {
	// Patterns are doublestar globs tried in order; the first pattern with a
	// match wins, and within a pattern the lexically first path is used.
	Patterns []string

	// FallbackToSample substitutes the built-in sample corpus when no file
	// matches. A matched file that cannot be read is still an error.
	FallbackToSample bool

	// SamplePath, when set, is where the sample corpus is written after a fallback.
	SamplePath string

	Logger *slog.Logger
}

// CSVSource reads a corpus from a CSV file with a header row.
type CSVSource struct {
	cfg    CSVSourceConfig
	logger *slog.Logger
}

// NewCSVSource creates a CSV corpus source.
func NewCSVSource(cfg CSVSourceConfig) *CSVSource {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{cfg: cfg, logger: logger}
}

// Name identifies the source for logging.
func (s *CSVSource) Name() string {
	return "csv"
}

// Load finds and parses the corpus file.
func (s *CSVSource) Load(ctx context.Context) (*domain.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.find()
	if errors.Is(err, errNoCorpusFile) {
		return s.fallback(fmt.Errorf("%w: %v", domain.ErrCorpusUnavailable, err))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorpusUnavailable, err)
	}

	// A file that exists but cannot be read is a hard failure; only a
	// missing file may be replaced by the sample.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrCorpusUnavailable, path, err)
	}
	defer f.Close()

	corpus, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCorpusUnavailable, path, err)
	}

	s.logger.Info("corpus loaded", "path", path, "movies", corpus.Len(), "columns", corpus.Columns)
	return corpus, nil
}

func (s *CSVSource) find() (string, error) {
	for _, pattern := range s.cfg.Patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return "", fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		files := matches[:0]
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				files = append(files, m)
			}
		}
		if len(files) > 0 {
			sort.Strings(files)
			return files[0], nil
		}
	}
	return "", fmt.Errorf("%w: %v", errNoCorpusFile, s.cfg.Patterns)
}

func (s *CSVSource) fallback(cause error) (*domain.Corpus, error) {
	if !s.cfg.FallbackToSample {
		return nil, cause
	}
	s.logger.Warn("corpus unavailable, using built-in sample dataset", "error", cause)

	sample := Sample()
	if s.cfg.SamplePath != "" {
		if err := WriteCSVFile(s.cfg.SamplePath, sample); err != nil {
			s.logger.Warn("failed to write sample dataset", "path", s.cfg.SamplePath, "error", err)
		} else {
			s.logger.Info("sample dataset written", "path", s.cfg.SamplePath)
		}
	}
	return sample, nil
}

// ReadCSV parses a corpus from CSV. The header must contain a title column;
// header names are matched case-insensitively and stored lower-cased.
func ReadCSV(r io.Reader) (*domain.Corpus, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	titleCol := -1
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if columns[i] == domain.FieldTitle && titleCol == -1 {
			titleCol = i
		}
	}
	if titleCol == -1 {
		return nil, errors.New("missing title column")
	}

	corpus := &domain.Corpus{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", corpus.Len()+1, err)
		}

		var movie domain.Movie
		for i, value := range record {
			if i < len(columns) && columns[i] != "" {
				movie.SetField(columns[i], value)
			}
		}
		movie.Title = strings.TrimSpace(movie.Title)
		if movie.Title == "" {
			continue
		}
		corpus.Movies = append(corpus.Movies, movie)
	}
	return corpus, nil
}

// WriteCSVFile writes a corpus as CSV, creating parent directories.
func WriteCSVFile(path string, corpus *domain.Corpus) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(corpus.Columns); err != nil {
		return err
	}
	for i := range corpus.Movies {
		row := make([]string, len(corpus.Columns))
		for j, col := range corpus.Columns {
			row[j] = corpus.Movies[i].Field(col)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
