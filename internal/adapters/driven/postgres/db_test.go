package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNullString(t *testing.T) {
	if ns := NullString(""); ns.Valid {
		t.Error("expected empty string to map to NULL")
	}
	ns := NullString("Drama")
	if !ns.Valid || ns.String != "Drama" {
		t.Errorf("unexpected %+v", ns)
	}
}

func TestHashLockName(t *testing.T) {
	a := hashLockName("preprocess")
	if a != hashLockName("preprocess") {
		t.Error("expected stable hash")
	}
	if a == hashLockName("other") {
		t.Error("expected distinct names to hash differently")
	}
}

func TestExtraColumns(t *testing.T) {
	empty, err := encodeExtra(nil)
	if err != nil || empty != "{}" {
		t.Fatalf("expected {} for no extras, got %q (%v)", empty, err)
	}

	encoded, err := encodeExtra(map[string]string{"tagline": "In space no one can hear you scream", "year": "1979"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields, err := decodeExtra([]byte(encoded))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["tagline"] != "In space no one can hear you scream" || fields["year"] != "1979" {
		t.Errorf("unexpected fields %v", fields)
	}

	if _, err := decodeExtra([]byte("not json")); err == nil {
		t.Error("expected an error for malformed extra column")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/reelscout")
	if cfg.MaxOpenConns != 25 || cfg.MaxIdleConns != 5 {
		t.Errorf("unexpected pool settings %+v", cfg)
	}
	if cfg.ConnectAttempts != 5 || cfg.RetryDelay <= 0 {
		t.Errorf("unexpected retry settings %+v", cfg)
	}
}

func TestPingWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}
	cfg := Config{ConnectAttempts: 5, RetryDelay: time.Millisecond, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	if err := pingWithRetry(context.Background(), ping, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 pings, got %d", calls)
	}
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	refused := errors.New("connection refused")
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		return refused
	}
	cfg := Config{ConnectAttempts: 2, RetryDelay: time.Millisecond, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := pingWithRetry(context.Background(), ping, cfg)
	if !errors.Is(err, refused) {
		t.Fatalf("expected wrapped ping error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 pings, got %d", calls)
	}
}

func TestPingWithRetry_ZeroAttemptsPingsOnce(t *testing.T) {
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		return nil
	}
	if err := pingWithRetry(context.Background(), ping, Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 ping, got %d", calls)
	}
}

func TestPingWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ping := func(context.Context) error {
		cancel()
		return errors.New("connection refused")
	}
	cfg := Config{ConnectAttempts: 5, RetryDelay: time.Hour, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := pingWithRetry(ctx, ping, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
