package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vibestyle/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLiteHistoryRepository {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleLog(n int) domain.HistoryLog {
	var log domain.HistoryLog
	for i := 0; i < n; i++ {
		log = log.Record(domain.TransformationResult{
			ID:          fmt.Sprintf("e%d", i),
			BeforeImage: "data:image/jpeg;base64,AAAA",
			AfterImage:  "data:image/jpeg;base64,BBBB",
			Technique:   "Wolf Cut",
			ColorLabel:  "Icy Platinum",
			StyleLabel:  "Wolf Cut",
			CreatedAt:   time.Date(2026, 1, 2, 3, 4, i, 0, time.UTC),
		})
	}
	return log
}

func TestSQLiteHistoryRepository_RoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	log := sampleLog(3)

	require.NoError(t, repo.Save(ctx, "vibestyle_history:a", log))

	loaded, err := repo.Load(ctx, "vibestyle_history:a")
	require.NoError(t, err)
	if diff := cmp.Diff(log.Entries(), loaded.Entries()); diff != "" {
		t.Errorf("読み込んだ履歴が一致しません (-want +got):\n%s", diff)
	}
}

func TestSQLiteHistoryRepository_Overwrite(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "k", sampleLog(2)))
	require.NoError(t, repo.Save(ctx, "k", sampleLog(5)))

	loaded, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Len())
}

func TestSQLiteHistoryRepository_MissingKey(t *testing.T) {
	repo := openTestDB(t)

	loaded, err := repo.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestSQLiteHistoryRepository_CorruptValue(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.putRaw(ctx, "k", `{"not":"an array"`))

	_, err := repo.Load(ctx, "k")
	assert.True(t, errors.Is(err, domain.ErrMalformedHistory), "壊れた値はErrMalformedHistoryになるべきです: %v", err)
}

func TestSQLiteHistoryRepository_OversizedValueIsTruncated(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	entries := make([]string, 15)
	for i := range entries {
		entries[i] = fmt.Sprintf(`{"beforeImage":"b","afterImage":"a","technique":"t","colorLabel":"c%d","styleLabel":"s"}`, i)
	}
	raw := "[" + strings.Join(entries, ",") + "]"
	require.NoError(t, repo.putRaw(ctx, "k", raw))

	loaded, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, domain.HistoryCapacity, loaded.Len())
	assert.Equal(t, "c0", loaded.Entries()[0].ColorLabel)
}

func TestSQLiteHistoryRepository_DeleteAndKeys(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	require.NoError(t, repo.Save(ctx, "vibestyle_history:a", sampleLog(1)))
	require.NoError(t, repo.Save(ctx, "vibestyle_history:b", sampleLog(1)))
	require.NoError(t, repo.Save(ctx, "other", sampleLog(1)))

	keys, err := repo.Keys(ctx, "vibestyle_history")
	require.NoError(t, err)
	assert.Equal(t, []string{"vibestyle_history:b", "vibestyle_history:a"}, keys)

	require.NoError(t, repo.Delete(ctx, "vibestyle_history:b"))
	require.NoError(t, repo.Delete(ctx, "never-existed"))

	keys, err = repo.Keys(ctx, "vibestyle_history")
	require.NoError(t, err)
	assert.Equal(t, []string{"vibestyle_history:a"}, keys)
}

func TestOpenSQLite_InMemory(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Save(ctx, "k", sampleLog(1)))
	loaded, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}
