package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/reelscout/internal/similarity"
)

// recordingRecorder captures recorded manifests
type recordingRecorder struct {
	manifests []*domain.Manifest
	err       error
}

func (r *recordingRecorder) RecordRun(ctx context.Context, m *domain.Manifest) error {
	r.manifests = append(r.manifests, m)
	return r.err
}

func testCorpus() *domain.Corpus {
	return &domain.Corpus{
		Columns: []string{"title", "genres", "keywords", "overview"},
		Movies: []domain.Movie{
			{Title: "Alien", Genres: "Horror Sci-Fi", Keywords: "space alien creature", Overview: "A crew in space meets an alien"},
			{Title: "Aliens", Genres: "Action Horror Sci-Fi", Keywords: "space alien marines", Overview: "Marines fight aliens in space"},
			{Title: "Heat", Genres: "Crime Drama", Keywords: "heist detective thief", Overview: "A detective hunts a thief"},
			{Title: "Ronin", Genres: "Action Crime", Keywords: "heist mercenary car chase", Overview: "Mercenaries plan a heist"},
		},
	}
}

func newTestPreprocessService(source *mocks.MockCorpusSource, store *mocks.MockArtifactStore, lock *mocks.MockDistributedLock, recorder *recordingRecorder) *preprocessService {
	cfg := PreprocessConfig{
		Source: source,
		Store:  store,
		Lock:   lock,
		Params: domain.DefaultTFIDFParams(),
		Logger: discardLogger(),
	}
	if recorder != nil {
		cfg.Recorder = recorder
	}
	return NewPreprocessService(cfg).(*preprocessService)
}

func TestPreprocessService_Run(t *testing.T) {
	store := mocks.NewMockArtifactStore()
	lock := mocks.NewMockDistributedLock()
	recorder := &recordingRecorder{}
	svc := newTestPreprocessService(mocks.NewMockCorpusSource(testCorpus()), store, lock, recorder)

	manifest, err := svc.Run(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, 4, manifest.MovieCount)
	assert.Greater(t, manifest.VocabularySize, 0)

	bundle := store.Bundle()
	require.NotNil(t, bundle)
	assert.True(t, bundle.Snapshot.Valid())
	assert.True(t, similarity.IsSymmetric(bundle.Similarity))
	for i := 0; i < bundle.Similarity.Size(); i++ {
		assert.InDelta(t, 1.0, bundle.Similarity.At(i, i), 1e-9)
	}
	// The two Alien films share more vocabulary with each other than with Heat.
	assert.Greater(t, bundle.Similarity.At(0, 1), bundle.Similarity.At(0, 2))

	assert.Contains(t, bundle.Movies.Columns, "combined_features")
	assert.NotEmpty(t, bundle.Movies.Movies[0].CombinedFeatures)
	assert.Equal(t, []string{"acquire:preprocess", "release:preprocess"}, lock.History())
	assert.False(t, lock.IsHeld(PreprocessLockName))
	assert.Len(t, recorder.manifests, 1)
	assert.True(t, svc.ArtifactsExist(context.Background()))
}

func TestPreprocessService_SkipsWhenArtifactsExist(t *testing.T) {
	store := mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot())
	source := mocks.NewMockCorpusSource(testCorpus())
	lock := mocks.NewMockDistributedLock()
	svc := newTestPreprocessService(source, store, lock, nil)

	manifest, err := svc.Run(context.Background(), false)

	assert.NoError(t, err)
	assert.Nil(t, manifest)
	assert.Equal(t, 0, source.Calls)
	assert.Equal(t, 0, store.SaveCalls)
	assert.Empty(t, lock.History())
}

func TestPreprocessService_ForceRebuilds(t *testing.T) {
	store := mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot())
	source := mocks.NewMockCorpusSource(testCorpus())
	svc := newTestPreprocessService(source, store, mocks.NewMockDistributedLock(), nil)

	manifest, err := svc.Run(context.Background(), true)

	require.NoError(t, err)
	assert.NotNil(t, manifest)
	assert.Equal(t, 1, source.Calls)
	assert.Equal(t, 4, store.Bundle().Movies.Len())
}

func TestPreprocessService_LockHeld(t *testing.T) {
	lock := mocks.NewMockDistributedLock()
	lock.SetLockHeld(PreprocessLockName, time.Minute)
	source := mocks.NewMockCorpusSource(testCorpus())
	svc := newTestPreprocessService(source, mocks.NewMockArtifactStore(), lock, nil)

	_, err := svc.Run(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrPreprocessInProgress)
	assert.Equal(t, 0, source.Calls)
}

func TestPreprocessService_LockError(t *testing.T) {
	lock := mocks.NewMockDistributedLock()
	lock.AcquireFn = func(name string, ttl time.Duration) (bool, error) {
		return false, errors.New("connection refused")
	}
	svc := newTestPreprocessService(mocks.NewMockCorpusSource(testCorpus()), mocks.NewMockArtifactStore(), lock, nil)

	_, err := svc.Run(context.Background(), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPreprocessService_CorpusErrors(t *testing.T) {
	tests := []struct {
		name   string
		source *mocks.MockCorpusSource
	}{
		{"source fails", &mocks.MockCorpusSource{Err: domain.ErrCorpusUnavailable}},
		{"empty corpus", mocks.NewMockCorpusSource(&domain.Corpus{Columns: []string{"title"}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockArtifactStore()
			lock := mocks.NewMockDistributedLock()
			svc := newTestPreprocessService(tt.source, store, lock, nil)

			_, err := svc.Run(context.Background(), false)

			assert.ErrorIs(t, err, domain.ErrCorpusUnavailable)
			assert.Equal(t, 0, store.SaveCalls)
			assert.False(t, lock.IsHeld(PreprocessLockName))
		})
	}
}

func TestPreprocessService_InvalidParams(t *testing.T) {
	lock := mocks.NewMockDistributedLock()
	svc := newTestPreprocessService(mocks.NewMockCorpusSource(testCorpus()), mocks.NewMockArtifactStore(), lock, nil)
	svc.params.MaxDF = 1.5

	_, err := svc.Run(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Empty(t, lock.History())
}

func TestPreprocessService_VocabularyTooSmall(t *testing.T) {
	corpus := &domain.Corpus{
		Columns: []string{"title", "genres"},
		Movies:  []domain.Movie{{Title: "A", Genres: "Drama"}, {Title: "B", Genres: "Comedy"}},
	}
	store := mocks.NewMockArtifactStore()
	svc := newTestPreprocessService(mocks.NewMockCorpusSource(corpus), store, mocks.NewMockDistributedLock(), nil)

	// Two documents cannot satisfy the default document frequency bounds.
	_, err := svc.Run(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Equal(t, 0, store.SaveCalls)
}

func TestPreprocessService_SaveError(t *testing.T) {
	store := mocks.NewMockArtifactStore()
	store.SaveFn = func(bundle *domain.ArtifactBundle) (*domain.Manifest, error) {
		return nil, errors.New("disk full")
	}
	lock := mocks.NewMockDistributedLock()
	svc := newTestPreprocessService(mocks.NewMockCorpusSource(testCorpus()), store, lock, nil)

	_, err := svc.Run(context.Background(), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, lock.IsHeld(PreprocessLockName))
}

func TestPreprocessService_RecorderFailureIsNotFatal(t *testing.T) {
	recorder := &recordingRecorder{err: errors.New("db down")}
	svc := newTestPreprocessService(mocks.NewMockCorpusSource(testCorpus()), mocks.NewMockArtifactStore(), mocks.NewMockDistributedLock(), recorder)

	manifest, err := svc.Run(context.Background(), false)

	assert.NoError(t, err)
	assert.NotNil(t, manifest)
}

// holderLock adds holder lookup to the mock lock
type holderLock struct {
	*mocks.MockDistributedLock
	holder string
	calls  int
}

func (h *holderLock) Holder(ctx context.Context, name string) (string, error) {
	h.calls++
	return h.holder, nil
}

func TestPreprocessService_LockHeldAsksForHolder(t *testing.T) {
	lock := &holderLock{MockDistributedLock: mocks.NewMockDistributedLock(), holder: "worker-2:42:abc"}
	lock.SetLockHeld(PreprocessLockName, time.Minute)
	svc := NewPreprocessService(PreprocessConfig{
		Source: mocks.NewMockCorpusSource(testCorpus()),
		Store:  mocks.NewMockArtifactStore(),
		Lock:   lock,
		Params: domain.DefaultTFIDFParams(),
		Logger: discardLogger(),
	})

	_, err := svc.Run(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrPreprocessInProgress)
	assert.Equal(t, 1, lock.calls)
}

func TestPreprocessService_RenewLock(t *testing.T) {
	lock := mocks.NewMockDistributedLock()
	svc := newTestPreprocessService(mocks.NewMockCorpusSource(testCorpus()), mocks.NewMockArtifactStore(), lock, nil)
	svc.lockTTL = 30 * time.Millisecond

	acquired, err := lock.Acquire(context.Background(), PreprocessLockName, svc.lockTTL)
	require.NoError(t, err)
	require.True(t, acquired)

	stop := svc.renewLock(context.Background())
	require.Eventually(t, func() bool {
		return lock.Extends() >= 2
	}, 2*time.Second, 5*time.Millisecond)
	stop()

	n := lock.Extends()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, lock.Extends(), "no renewals after stop")
}

func TestPreprocessService_RenewLockFailureIsLogged(t *testing.T) {
	lock := mocks.NewMockDistributedLock()
	lock.ExtendFn = func(name string, ttl time.Duration) error {
		return domain.ErrLockNotHeld
	}
	svc := newTestPreprocessService(mocks.NewMockCorpusSource(testCorpus()), mocks.NewMockArtifactStore(), lock, nil)
	svc.lockTTL = 15 * time.Millisecond

	stop := svc.renewLock(context.Background())
	require.Eventually(t, func() bool {
		return lock.Extends() >= 1
	}, 2*time.Second, 5*time.Millisecond)
	stop()
}
