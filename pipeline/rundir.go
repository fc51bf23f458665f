package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// RunDir is a timestamped output directory for one pipeline run. Every
// phase writes under a fixed subfolder so results remain auditable after
// the fact.
type RunDir struct {
	Root string
}

const (
	subdirRawData      = "raw_data"
	subdirAnalysis     = "analysis"
	subdirFinal        = "final_datasets"
	subdirManualReview = "manual_review"
	subdirReports      = "reports"
)

// NewRunDir creates run_<timestamp> under base with all phase subfolders.
func NewRunDir(base string) (*RunDir, error) {
	root := filepath.Join(base, "run_"+time.Now().Format("20060102_150405"))
	return OpenRunDir(root)
}

// OpenRunDir creates (or reuses) a run directory at an explicit path, so
// later phases can attach to an earlier phase's run.
func OpenRunDir(root string) (*RunDir, error) {
	for _, sub := range []string{
		subdirRawData, subdirAnalysis, subdirFinal, subdirManualReview, subdirReports,
	} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create run directory %s: %w", sub, err)
		}
	}
	return &RunDir{Root: root}, nil
}

func (r *RunDir) RawData(name string) string      { return filepath.Join(r.Root, subdirRawData, name) }
func (r *RunDir) Analysis(name string) string     { return filepath.Join(r.Root, subdirAnalysis, name) }
func (r *RunDir) Final(name string) string        { return filepath.Join(r.Root, subdirFinal, name) }
func (r *RunDir) ManualReview(name string) string { return filepath.Join(r.Root, subdirManualReview, name) }
func (r *RunDir) Reports(name string) string      { return filepath.Join(r.Root, subdirReports, name) }

// CopyInput snapshots a source file into raw_data/ for provenance.
func (r *RunDir) CopyInput(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer src.Close()

	dst, err := os.Create(r.RawData(filepath.Base(path)))
	if err != nil {
		return fmt.Errorf("failed to snapshot input %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy input %s: %w", path, err)
	}
	return nil
}
