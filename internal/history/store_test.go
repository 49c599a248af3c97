package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/ucma/internal/model"
)

// setupTestStore creates a store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleOutcomes(start time.Time) []model.Outcome {
	return []model.Outcome{
		{Item: "HEAD", Status: model.StatusSucceeded, Started: start, Duration: 120 * time.Millisecond},
		{Item: "bad-ref", Status: model.StatusFailed, Stage: "extractor", Error: "unknown revision", Started: start, Duration: 5 * time.Millisecond},
		{Item: "v1.0", Status: model.StatusSucceeded, Started: start, Duration: 80 * time.Millisecond},
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "newdir", "subdir")
		s, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if s.Path() != filepath.Join(dir, FileName) {
			t.Errorf("unexpected path %q", s.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "missing")
		_, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("expected not found error, got %v", err)
		}
		if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
			t.Error("directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s1, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if _, err := s1.Record(context.Background(), &Run{StartedAt: time.Now()}, sampleOutcomes(time.Now())); err != nil {
			t.Fatalf("Record: %v", err)
		}
		_ = s1.Close()

		s2, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer s2.Close()

		runs, err := s2.ListRuns(context.Background(), 0)
		if err != nil || len(runs) != 1 {
			t.Errorf("expected 1 persisted run, got %d (%v)", len(runs), err)
		}
	})
}

func TestRecordAndOutcomes(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

	run := &Run{
		StartedAt: start,
		Duration:  200 * time.Millisecond,
		Extractor: "extractor:git.extractor:New",
		Analyzer:  "analyzer:tree.analyzer:New",
		Reporter:  "reporter:markdown.reporter:New",
	}
	id, err := s.Record(ctx, run, sampleOutcomes(start))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" || run.ID != id {
		t.Fatalf("expected assigned id, got %q / %q", id, run.ID)
	}
	if run.Items != 3 || run.Failed != 1 {
		t.Errorf("expected 3 items 1 failed, got %d/%d", run.Items, run.Failed)
	}

	got, err := s.FindRun(ctx, id)
	if err != nil {
		t.Fatalf("FindRun: %v", err)
	}
	if !got.StartedAt.Equal(start) || got.Duration != run.Duration {
		t.Errorf("timestamps not preserved: %v %v", got.StartedAt, got.Duration)
	}
	if got.Extractor != run.Extractor || got.Reporter != run.Reporter || got.Failed != 1 {
		t.Errorf("unexpected run: %+v", got)
	}

	outcomes, err := s.Outcomes(ctx, id)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	want := sampleOutcomes(start)
	if len(outcomes) != len(want) {
		t.Fatalf("expected %d outcomes, got %d", len(want), len(outcomes))
	}
	for i := range want {
		if outcomes[i].Item != want[i].Item || outcomes[i].Status != want[i].Status ||
			outcomes[i].Stage != want[i].Stage || outcomes[i].Error != want[i].Error ||
			outcomes[i].Duration != want[i].Duration || !outcomes[i].Started.Equal(start) {
			t.Errorf("outcome %d: got %+v, want %+v", i, outcomes[i], want[i])
		}
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := range 4 {
		id, err := s.Record(ctx, &Run{StartedAt: base.Add(time.Duration(i) * time.Hour)}, nil)
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		ids = append(ids, id)
	}

	t.Run("newest first with limit", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		if len(runs) != 2 || runs[0].ID != ids[3] || runs[1].ID != ids[2] {
			t.Errorf("unexpected order: %+v", runs)
		}
	})

	t.Run("zero limit returns all", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 0)
		if err != nil || len(runs) != 4 {
			t.Errorf("expected 4 runs, got %d (%v)", len(runs), err)
		}
	})

	t.Run("empty batch has no outcomes", func(t *testing.T) {
		outcomes, err := s.Outcomes(ctx, ids[0])
		if err != nil || len(outcomes) != 0 {
			t.Errorf("expected no outcomes, got %v (%v)", outcomes, err)
		}
	})
}

func TestFindRun(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"abc-1", "abc-2", "def-1"} {
		if _, err := s.Record(ctx, &Run{ID: id, StartedAt: time.Now()}, nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	testCases := []struct {
		name    string
		prefix  string
		wantID  string
		wantErr error
	}{
		{name: "exact id", prefix: "abc-2", wantID: "abc-2"},
		{name: "unique prefix", prefix: "def", wantID: "def-1"},
		{name: "ambiguous prefix", prefix: "abc", wantErr: ErrAmbiguousRun},
		{name: "no match", prefix: "zzz", wantErr: ErrRunNotFound},
		{name: "empty prefix", prefix: "", wantErr: ErrRunNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run, err := s.FindRun(ctx, tc.prefix)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindRun: %v", err)
			}
			if run.ID != tc.wantID {
				t.Errorf("expected %s, got %s", tc.wantID, run.ID)
			}
		})
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := range 5 {
		id, err := s.Record(ctx, &Run{StartedAt: base.Add(time.Duration(i) * time.Minute)}, sampleOutcomes(base))
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		ids = append(ids, id)
	}

	n, err := s.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 pruned runs, got %d", n)
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil || len(runs) != 2 || runs[0].ID != ids[4] {
		t.Errorf("unexpected remaining runs: %+v (%v)", runs, err)
	}
	if outcomes, err := s.Outcomes(ctx, ids[0]); err != nil || len(outcomes) != 0 {
		t.Errorf("pruned run still has outcomes: %v (%v)", outcomes, err)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 5, 6, 7, 8, 9, 10, time.UTC)
	if got := parseTimestamp(formatTimestamp(ts)); !got.Equal(ts) {
		t.Errorf("round trip: got %v, want %v", got, ts)
	}
	if got := parseTimestamp("2026-05-06 07:08:09"); got.IsZero() {
		t.Error("expected sqlite datetime format to parse")
	}
	if got := parseTimestamp("garbage"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
	if formatTimestamp(time.Time{}) != "" {
		t.Error("zero time should format as empty")
	}
}
