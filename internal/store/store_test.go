// internal/store/store_test.go
package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nthenge/sokoreach/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	progress := model.NewCampaignProgress(10)
	progress.LastProcessedIndex = 4
	progress.Processed = 5
	progress.Sent = 4
	progress.Failed = 1
	progress.StartTime = &started

	state := model.NewSendingState()
	state.TotalSent = 4
	state.SentToday = 4
	state.SentThisHour = 2
	state.CurrentDate = "2026-03-10"
	state.CurrentHour = 9
	state.NextBatchDelayAt = 13
	state.HourlyCounts["2026-03-10 09:00"] = 2

	require.NoError(t, s.Save(progress, &state))

	gotProgress, gotState, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, gotProgress)
	require.NotNil(t, gotState)

	assert.Equal(t, 4, gotProgress.LastProcessedIndex)
	assert.Equal(t, 5, gotProgress.Processed)
	assert.Equal(t, 10, gotProgress.TotalRecipients)
	require.NotNil(t, gotProgress.StartTime)
	assert.True(t, gotProgress.StartTime.Equal(started))

	assert.Equal(t, 4, gotState.TotalSent)
	assert.Equal(t, 13, gotState.NextBatchDelayAt)
	assert.Equal(t, 2, gotState.HourlyCounts["2026-03-10 09:00"])
}

func TestLoadMissingFilesReturnsNils(t *testing.T) {
	s := NewFileStore(t.TempDir())

	progress, state, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, progress)
	assert.Nil(t, state)
}

func TestLoadToleratesCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, os.WriteFile(s.ProgressPath, []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(s.StatsPath, []byte("also not json"), 0o644))

	progress, state, err := s.Load()
	require.NoError(t, err, "corrupt state must never be fatal")
	assert.Nil(t, progress)
	assert.Nil(t, state)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	state := model.NewSendingState()
	require.NoError(t, s.Save(model.NewCampaignProgress(3), &state))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestSaveCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := NewFileStore(dir)

	state := model.NewSendingState()
	require.NoError(t, s.Save(nil, &state))

	_, err := os.Stat(s.StatsPath)
	assert.NoError(t, err)
}

func TestResetRemovesStateFiles(t *testing.T) {
	s := NewFileStore(t.TempDir())
	state := model.NewSendingState()
	require.NoError(t, s.Save(model.NewCampaignProgress(1), &state))

	require.NoError(t, s.Reset())

	progress, got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, progress)
	assert.Nil(t, got)

	// Resetting an already clean directory is fine.
	assert.NoError(t, s.Reset())
}
