package framework

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArtifactStore persists per-run diagnostic files: failure screenshots keyed
// by scenario name and timestamp, and the RunReport itself. Each run writes
// into its own subdirectory so successive runs never collide.
type ArtifactStore struct {
	dir   string
	runID string
}

func NewArtifactStore(baseDir string) (*ArtifactStore, error) {
	runID := uuid.New().String()
	dir := filepath.Join(baseDir, time.Now().Format("20060102-150405")+"-"+runID[:8])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &ArtifactStore{dir: dir, runID: runID}, nil
}

func (s *ArtifactStore) Dir() string   { return s.dir }
func (s *ArtifactStore) RunID() string { return s.runID }

// SaveScreenshot writes a page snapshot captured on scenario failure and
// returns its path for inclusion in the Outcome.
func (s *ArtifactStore) SaveScreenshot(scenario string, data []byte) (string, error) {
	name := fmt.Sprintf("%s-%s.png", slug(scenario), time.Now().Format("150405.000"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing screenshot: %w", err)
	}
	return path, nil
}

// SaveReport persists the RunReport as the run's diagnostic record.
func (s *ArtifactStore) SaveReport(report RunReport) (string, error) {
	path := filepath.Join(s.dir, "report.json")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("writing run report: %w", err)
	}
	defer f.Close()
	if err := report.WriteJSON(f); err != nil {
		return "", fmt.Errorf("writing run report: %w", err)
	}
	return path, nil
}

func slug(name string) string {
	mapper := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}
	return strings.Map(mapper, name)
}
