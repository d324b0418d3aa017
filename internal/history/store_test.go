package history

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := newTestStore(t)

	id1, err := s.Record("analysis", "web_app", "an online store", 0.85, 4, false)
	require.NoError(t, err)
	assert.Greater(t, id1, int64(0))

	id2, err := s.Record("analysis", "general_software", "build something cool", 0.0, 2, true)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	runs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, id2, runs[0].ID)
	assert.Equal(t, "general_software", runs[0].Domain)
	assert.True(t, runs[0].Escalated)

	assert.Equal(t, "web_app", runs[1].Domain)
	assert.False(t, runs[1].Escalated)
	assert.Equal(t, 0.85, runs[1].Confidence)
	assert.Equal(t, 4, runs[1].Complexity)
}

func TestStore_HashesDescriptions(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Record("analysis", "web_app", "a secret project description", 0.9, 3, false)
	require.NoError(t, err)

	runs, err := s.Recent(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	// Hex SHA-256, never the raw text.
	assert.Len(t, runs[0].DescriptionHash, 64)
	assert.NotContains(t, runs[0].DescriptionHash, "secret")
}

func TestStore_EmptyDescriptionStoresEmptyHash(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Record("mission_map", "web_app", "", 0.85, 4, false)
	require.NoError(t, err)

	runs, err := s.Recent(1)
	require.NoError(t, err)
	assert.Empty(t, runs[0].DescriptionHash)
}

func TestStore_RecentLimit(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := s.Record("analysis", "cli_tooling", "a cli", 0.7, 2, false)
		require.NoError(t, err)
	}

	runs, err := s.Recent(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	// Non-positive limit falls back to the default.
	runs, err = s.Recent(0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Record("analysis", "web_app", "a store", 0.8, 4, false)
	require.NoError(t, err)
	_, err = s.Record("decomposition", "web_app", "", 0.8, 4, false)
	require.NoError(t, err)
	_, err = s.Record("analysis", "", "vague", 0.1, 2, true)
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 1, stats.Escalations)
	assert.Equal(t, 2, stats.RunsByStage["analysis"])
	assert.Equal(t, 1, stats.RunsByStage["decomposition"])
	assert.Equal(t, 2, stats.RunsByDomain["web_app"])
	assert.NotContains(t, stats.RunsByDomain, "")
	assert.InDelta(t, (0.8+0.8+0.1)/3, stats.AvgConfidence, 0.001)
}

func TestStore_StatsOnEmptyJournal(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRuns)
	assert.Equal(t, 0, stats.Escalations)
	assert.Equal(t, 0.0, stats.AvgConfidence)
}

func TestNew_OpenFailure(t *testing.T) {
	original := openDB
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("injected open failure")
	}
	defer func() { openDB = original }()

	_, err := New(Config{DataDir: filepath.Join(t.TempDir(), "journal")})
	assert.Error(t, err)
}
