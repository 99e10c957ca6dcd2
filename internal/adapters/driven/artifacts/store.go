// Package artifacts persists preprocessing outputs as zstd-compressed JSON blobs.
package artifacts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ArtifactStore = (*FileStore)(nil)

// ManifestFile is the name of the run manifest inside the artifact directory.
const ManifestFile = domain.ManifestFileName

// DefaultFileNames returns the default blob file name for each artifact.
func DefaultFileNames() map[domain.ArtifactKind]string {
	names := make(map[domain.ArtifactKind]string, len(domain.AllArtifacts))
	for _, kind := range domain.AllArtifacts {
		names[kind] = kind.DefaultFileName()
	}
	return names
}

// FileStoreConfig holds configuration for the FileStore.
type FileStoreConfig struct {
	// Dir is the artifact directory. Created on Save if missing.
	Dir string

	// FileNames overrides individual blob names. Kinds not present keep their default.
	FileNames map[domain.ArtifactKind]string

	Logger *slog.Logger
}

// FileStore is a directory-backed ArtifactStore. Each blob is replaced
// atomically through a temp file and rename.
type FileStore struct {
	dir    string
	names  map[domain.ArtifactKind]string
	logger *slog.Logger
}

// NewFileStore creates a FileStore.
func NewFileStore(cfg FileStoreConfig) *FileStore {
	names := DefaultFileNames()
	for kind, name := range cfg.FileNames {
		if name != "" {
			names[kind] = name
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: cfg.Dir, names: names, logger: logger}
}

// Path returns the absolute location of an artifact.
func (s *FileStore) Path(kind domain.ArtifactKind) string {
	return filepath.Join(s.dir, s.names[kind])
}

// Save writes all five blobs followed by the manifest.
func (s *FileStore) Save(ctx context.Context, bundle *domain.ArtifactBundle) (*domain.Manifest, error) {
	if bundle == nil || !bundle.Snapshot.Valid() {
		return nil, fmt.Errorf("save artifacts: %w: incomplete bundle", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	blobs := map[domain.ArtifactKind]any{
		domain.ArtifactSimilarityMatrix: bundle.Similarity,
		domain.ArtifactTFIDFMatrix:      bundle.TFIDF,
		domain.ArtifactVectorizer:       bundle.Vectorizer,
		domain.ArtifactMovieIndices:     bundle.Index,
		domain.ArtifactProcessedMovies:  bundle.Movies,
	}

	manifest := &domain.Manifest{
		RunID:          uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		Files:          make(map[domain.ArtifactKind]string, len(blobs)),
		Checksums:      make(map[domain.ArtifactKind]string, len(blobs)),
		MovieCount:     bundle.Movies.Len(),
		DuplicateCount: bundle.Index.Duplicates,
	}
	if bundle.Vectorizer != nil {
		manifest.VocabularySize = len(bundle.Vectorizer.Terms)
		manifest.Params = bundle.Vectorizer.Params
	}

	for _, kind := range domain.AllArtifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := s.Path(kind)
		sum, err := writeBlob(path, blobs[kind])
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", kind, err)
		}
		manifest.Files[kind] = path
		manifest.Checksums[kind] = sum
		s.logger.Debug("artifact written", "kind", kind, "path", path)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := atomicWrite(filepath.Join(s.dir, ManifestFile), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	s.logger.Info("artifacts saved", "dir", s.dir, "run_id", manifest.RunID, "movies", manifest.MovieCount)
	return manifest, nil
}

// Load restores the serving snapshot. Any missing, unreadable or inconsistent
// serving blob yields domain.ErrArtifactsUnavailable and no snapshot.
func (s *FileStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	if missing := s.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrArtifactsUnavailable, strings.Join(missing, ", "))
	}

	snap := &domain.Snapshot{
		Similarity: &domain.SimilarityMatrix{},
		Index:      &domain.TitleIndex{},
		Movies:     &domain.ProcessedCorpus{},
	}
	targets := map[domain.ArtifactKind]any{
		domain.ArtifactSimilarityMatrix: snap.Similarity,
		domain.ArtifactMovieIndices:     snap.Index,
		domain.ArtifactProcessedMovies:  snap.Movies,
	}
	for _, kind := range domain.ServingArtifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := readBlob(s.Path(kind), targets[kind]); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrArtifactsUnavailable, kind, err)
		}
	}

	if len(snap.Similarity.Values) != snap.Similarity.N*snap.Similarity.N {
		return nil, fmt.Errorf("%w: similarity matrix has %d values for n=%d",
			domain.ErrArtifactsUnavailable, len(snap.Similarity.Values), snap.Similarity.N)
	}
	if !snap.Valid() {
		return nil, fmt.Errorf("%w: row counts disagree (matrix=%d index=%d movies=%d)",
			domain.ErrArtifactsUnavailable, snap.Similarity.Size(), snap.Index.Len(), snap.Movies.Len())
	}
	return snap, nil
}

// LoadVectorizer restores the fitted vectorizer model.
func (s *FileStore) LoadVectorizer(ctx context.Context) (*domain.VectorizerModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model := &domain.VectorizerModel{}
	if err := readBlob(s.Path(domain.ArtifactVectorizer), model); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrArtifactsUnavailable, domain.ArtifactVectorizer, err)
	}
	return model, nil
}

// Exists reports whether every serving blob is present.
func (s *FileStore) Exists(ctx context.Context) bool {
	return len(s.missing()) == 0
}

// Manifest reads the manifest of the last completed run.
func (s *FileStore) Manifest(ctx context.Context) (*domain.Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

func (s *FileStore) missing() []string {
	var missing []string
	for _, kind := range domain.ServingArtifacts {
		info, err := os.Stat(s.Path(kind))
		if err != nil || info.IsDir() {
			missing = append(missing, s.names[kind])
		}
	}
	return missing
}

// writeBlob encodes v as JSON through a zstd encoder and returns the sha256
// of the compressed bytes.
func writeBlob(path string, v any) (string, error) {
	hasher := sha256.New()
	err := atomicWrite(path, func(w io.Writer) error {
		enc, err := zstd.NewWriter(io.MultiWriter(w, hasher))
		if err != nil {
			return fmt.Errorf("create zstd writer: %w", err)
		}
		if err := json.NewEncoder(enc).Encode(v); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func readBlob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("create zstd reader: %w", err)
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// atomicWrite writes to a temp file in the target directory and renames it
// over path once fully synced.
func atomicWrite(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
