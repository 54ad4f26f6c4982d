package recorder_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/testutil"
)

// testFernetKey is a valid base64 fernet key used only in tests.
const testFernetKey = "cw_0x689RpI-jtRR7oE8h_eQsKImvJapLeSbXpwF4e4="

func setupRecorder(t *testing.T, encryptionKey string) *recorder.SQLiteRecorder {
	t.Helper()

	db := testutil.SetupTestDB(t)
	rec, err := recorder.NewSQLiteRecorder(db, encryptionKey)
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}
	return rec
}

func TestNewSQLiteRecorder(t *testing.T) {
	t.Run("rejects malformed encryption key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		_, err := recorder.NewSQLiteRecorder(db, "not-a-key")
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
	})
}

func TestSQLiteRecorder_RecordAndGet(t *testing.T) {
	rec := setupRecorder(t, "")

	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	created := testutil.NewRun().
		WithKind(recorder.KindChart).
		WithStatus(recorder.StatusPartial).
		WithStartedAt(started).
		WithFetchErrors("ZZZZ: No data available").
		Build(t, rec)

	got, err := rec.Get(created.ID)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}

	if got.Kind != recorder.KindChart {
		t.Errorf("Expected kind chart, got %q", got.Kind)
	}
	if got.Status != recorder.StatusPartial {
		t.Errorf("Expected status partial, got %q", got.Status)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("Expected started at %v, got %v", started, got.StartedAt)
	}
	if got.ErrorCount != 1 {
		t.Errorf("Expected 1 error, got %d", got.ErrorCount)
	}
	if len(got.FetchErrors) != 1 || got.FetchErrors[0] != "ZZZZ: No data available" {
		t.Errorf("Unexpected fetch errors %v", got.FetchErrors)
	}
}

func TestSQLiteRecorder_Get(t *testing.T) {
	t.Run("unknown ID", func(t *testing.T) {
		rec := setupRecorder(t, "")

		_, err := rec.Get("0b28ee84-4f36-4b6a-9e38-6fbd66a58c6f")
		if !errors.Is(err, apperrors.ErrRunNotFound) {
			t.Errorf("Expected ErrRunNotFound, got %v", err)
		}
	})
}

func TestSQLiteRecorder_List(t *testing.T) {
	rec := setupRecorder(t, "")

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := testutil.NewRun().WithStartedAt(base).Build(t, rec)
	second := testutil.NewRun().WithStartedAt(base.Add(time.Hour)).Build(t, rec)

	runs, err := rec.List()
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second.ID {
		t.Errorf("Expected most recent run first, got %q", runs[0].ID)
	}
	if runs[1].ID != first.ID {
		t.Errorf("Expected oldest run last, got %q", runs[1].ID)
	}
}

func TestSQLiteRecorder_Delete(t *testing.T) {
	rec := setupRecorder(t, "")
	run := testutil.NewRun().Build(t, rec)

	t.Run("removes the run", func(t *testing.T) {
		if err := rec.Delete(run.ID); err != nil {
			t.Fatalf("Failed to delete run: %v", err)
		}
		if _, err := rec.Get(run.ID); !errors.Is(err, apperrors.ErrRunNotFound) {
			t.Errorf("Expected ErrRunNotFound after delete, got %v", err)
		}
	})

	t.Run("unknown ID", func(t *testing.T) {
		err := rec.Delete("0b28ee84-4f36-4b6a-9e38-6fbd66a58c6f")
		if !errors.Is(err, apperrors.ErrRunNotFound) {
			t.Errorf("Expected ErrRunNotFound, got %v", err)
		}
	})
}

func TestSQLiteRecorder_Payload(t *testing.T) {
	payload := testutil.WatchlistCSV("AAA", "BBB")

	t.Run("round trips when encryption is configured", func(t *testing.T) {
		rec := setupRecorder(t, testFernetKey)
		run := testutil.NewRun().WithPayload(payload).Build(t, rec)

		got, err := rec.Get(run.ID)
		if err != nil {
			t.Fatalf("Failed to get run: %v", err)
		}
		if !bytes.Equal(got.Payload, payload) {
			t.Errorf("Expected payload %q, got %q", payload, got.Payload)
		}
	})

	t.Run("is not stored without a key", func(t *testing.T) {
		rec := setupRecorder(t, "")
		run := testutil.NewRun().WithPayload(payload).Build(t, rec)

		got, err := rec.Get(run.ID)
		if err != nil {
			t.Fatalf("Failed to get run: %v", err)
		}
		if got.Payload != nil {
			t.Errorf("Expected no payload, got %q", got.Payload)
		}
	})

	t.Run("is never returned by List", func(t *testing.T) {
		rec := setupRecorder(t, testFernetKey)
		testutil.NewRun().WithPayload(payload).Build(t, rec)

		runs, err := rec.List()
		if err != nil {
			t.Fatalf("Failed to list runs: %v", err)
		}
		if runs[0].Payload != nil {
			t.Error("Expected List to omit payloads")
		}
	})
}

func TestNoopRecorder(t *testing.T) {
	rec := recorder.NewNoopRecorder()

	if err := rec.Record(&recorder.Run{ID: "x"}); err != nil {
		t.Errorf("Unexpected error from Record: %v", err)
	}

	runs, err := rec.List()
	if err != nil {
		t.Errorf("Unexpected error from List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected no runs, got %d", len(runs))
	}

	if _, err := rec.Get("x"); !errors.Is(err, apperrors.ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
	if err := rec.Delete("x"); !errors.Is(err, apperrors.ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("Unexpected error from Close: %v", err)
	}
}
