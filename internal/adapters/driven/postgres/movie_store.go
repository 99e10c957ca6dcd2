package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.CorpusStore = (*MovieStore)(nil)
	_ driven.RunRecorder = (*MovieStore)(nil)
)

// movieColumns is the corpus schema exposed by the movies table.
var movieColumns = []string{
	domain.FieldTitle,
	domain.FieldGenres,
	domain.FieldKeywords,
	domain.FieldOverview,
	domain.FieldCast,
	domain.FieldDirector,
}

// MovieStore reads and writes the movie corpus in the movies table.
type MovieStore struct {
	db *DB
}

// NewMovieStore creates a new MovieStore
func NewMovieStore(db *DB) *MovieStore {
	return &MovieStore{db: db}
}

// Name identifies the source for logging.
func (s *MovieStore) Name() string {
	return "postgres"
}

// Load reads every movie ordered by position then id.
func (s *MovieStore) Load(ctx context.Context) (*domain.Corpus, error) {
	query := `
		SELECT title, genres, keywords, overview, cast_members, director, extra
		FROM movies
		ORDER BY position, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query movies: %v", domain.ErrCorpusUnavailable, err)
	}
	defer rows.Close()

	corpus := &domain.Corpus{Columns: append([]string(nil), movieColumns...)}
	extraColumns := make(map[string]struct{})

	for rows.Next() {
		var m domain.Movie
		var genres, keywords, overview, castMembers, director sql.NullString
		var extra []byte
		if err := rows.Scan(&m.Title, &genres, &keywords, &overview, &castMembers, &director, &extra); err != nil {
			return nil, fmt.Errorf("%w: scan movie: %v", domain.ErrCorpusUnavailable, err)
		}
		m.Genres = genres.String
		m.Keywords = keywords.String
		m.Overview = overview.String
		m.Cast = castMembers.String
		m.Director = director.String

		if len(extra) > 0 {
			fields, err := decodeExtra(extra)
			if err != nil {
				return nil, fmt.Errorf("%w: decode extra for %q: %v", domain.ErrCorpusUnavailable, m.Title, err)
			}
			for k, v := range fields {
				m.SetField(k, v)
				extraColumns[k] = struct{}{}
			}
		}
		corpus.Movies = append(corpus.Movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate movies: %v", domain.ErrCorpusUnavailable, err)
	}

	extras := make([]string, 0, len(extraColumns))
	for col := range extraColumns {
		if !corpus.HasColumn(col) {
			extras = append(extras, col)
		}
	}
	sort.Strings(extras)
	corpus.Columns = append(corpus.Columns, extras...)
	return corpus, nil
}

// Replace swaps the whole movies table for the given corpus in one transaction.
func (s *MovieStore) Replace(ctx context.Context, corpus *domain.Corpus) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM movies"); err != nil {
			return fmt.Errorf("clear movies: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO movies (position, title, genres, keywords, overview, cast_members, director, extra)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i := range corpus.Movies {
			m := &corpus.Movies[i]
			extra, err := encodeExtra(m.Extra)
			if err != nil {
				return fmt.Errorf("encode extra for %q: %w", m.Title, err)
			}
			if _, err := stmt.ExecContext(ctx,
				i,
				m.Title,
				NullString(m.Genres),
				NullString(m.Keywords),
				NullString(m.Overview),
				NullString(m.Cast),
				NullString(m.Director),
				extra,
			); err != nil {
				return fmt.Errorf("insert %q: %w", m.Title, err)
			}
		}
		return nil
	})
}

// Count returns the number of stored movies.
func (s *MovieStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n)
	return n, err
}

// RecordRun stores a completed preprocessing manifest.
func (s *MovieStore) RecordRun(ctx context.Context, m *domain.Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preprocess_runs (run_id, created_at, movie_count, vocabulary_size, duplicate_count, manifest)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING
	`, m.RunID, m.CreatedAt, m.MovieCount, m.VocabularySize, m.DuplicateCount, string(data))
	return err
}

// encodeExtra stores the columns outside the fixed schema as a JSON object.
// A movie without extras is stored as {} so the column is never NULL.
func encodeExtra(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	data, err := json.Marshal(m)
	return string(data), err
}

func decodeExtra(data []byte) (map[string]string, error) {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
