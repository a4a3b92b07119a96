// internal/store/store.go
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nthenge/sokoreach/internal/model"
)

const (
	progressFile = "campaign_progress.json"
	statsFile    = "sending_stats.json"
)

// ProgressStore persists campaign progress and the rate-limit ledger
// between runs.
type ProgressStore interface {
	Save(progress *model.CampaignProgress, state *model.SendingState) error
	Load() (*model.CampaignProgress, *model.SendingState, error)
	Reset() error
}

// FileStore keeps both documents as JSON files in one directory.
// Writes go to a temp file first and are renamed into place, so a
// crash mid-write can never leave a truncated file behind. A missing
// or corrupt file on load is treated as no prior state.
type FileStore struct {
	ProgressPath string
	StatsPath    string
}

var _ ProgressStore = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	return &FileStore{
		ProgressPath: filepath.Join(dir, progressFile),
		StatsPath:    filepath.Join(dir, statsFile),
	}
}

func (s *FileStore) Save(progress *model.CampaignProgress, state *model.SendingState) error {
	if progress != nil {
		if err := writeAtomic(s.ProgressPath, progress); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
	}
	if state != nil {
		if err := writeAtomic(s.StatsPath, state); err != nil {
			return fmt.Errorf("save sending stats: %w", err)
		}
	}
	return nil
}

// Load reads whatever state survives from a previous run. Either
// return value may be nil; unreadable files are logged and skipped so
// a damaged data directory never blocks a campaign.
func (s *FileStore) Load() (*model.CampaignProgress, *model.SendingState, error) {
	var progress *model.CampaignProgress
	var state *model.SendingState

	var p model.CampaignProgress
	if ok := readJSON(s.ProgressPath, &p); ok {
		progress = &p
	}
	var st model.SendingState
	if ok := readJSON(s.StatsPath, &st); ok {
		state = &st
	}
	return progress, state, nil
}

// Reset removes both files so the next run starts clean.
func (s *FileStore) Reset() error {
	for _, path := range []string{s.ProgressPath, s.StatsPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reset %s: %w", path, err)
		}
	}
	return nil
}

func writeAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Could not read %s: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("⚠️ Ignoring corrupt state file %s: %v", path, err)
		return false
	}
	return true
}
