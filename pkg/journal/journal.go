package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunRecord captures the outcome of one full sync run for audit.
type RunRecord struct {
	Timestamp  time.Time        `json:"timestamp"`
	Sequence   int              `json:"sequence"`
	Markets    int              `json:"markets"`
	Failed     int              `json:"failed"`
	RowsAdded  int64            `json:"rows_added"`
	DurationMs int64            `json:"duration_ms"`
	RowCounts  map[string]int64 `json:"row_counts,omitempty"`
	Errors     []string         `json:"errors,omitempty"`
}

// Writer persists run records to a directory as JSON files.
type Writer struct {
	dir   string
	seq   int
	nowFn func() time.Time
}

// NewWriter constructs a journal writer rooted at dir.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "journal"
	}
	_ = os.MkdirAll(dir, 0o755)
	return &Writer{dir: dir, nowFn: time.Now}
}

// WriteRun writes one run record to a timestamped JSON file and returns
// its path.
func (w *Writer) WriteRun(rec *RunRecord) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("journal: nil record")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = w.nowFn()
	}
	w.seq++
	rec.Sequence = w.seq
	name := fmt.Sprintf("run_%s_%05d.json", rec.Timestamp.UTC().Format("20060102_150405"), w.seq)
	path := filepath.Join(w.dir, name)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
