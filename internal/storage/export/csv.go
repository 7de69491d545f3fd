// Package export writes round history as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/louisbranch/mindvsmachine/internal/game/round"
)

// Header lists the CSV columns in output order.
var Header = []string{"prediction", "generated", "timestamp", "game_mode", "min_val", "max_val", "algorithm"}

// FilenameLayout names exported files after their export time.
const FilenameLayout = "20060102_150405"

// WriteCSV writes a header and one row per round. No rounds writes nothing.
func WriteCSV(w io.Writer, rounds []round.Round) error {
	if len(rounds) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rounds {
		if err := cw.Write(record(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Filename returns the export file name for an export made at now.
func Filename(now time.Time) string {
	return "sessions_" + now.Format(FilenameLayout) + ".csv"
}

// ExportFile writes rounds to dir/sessions_<time>.csv and returns the path.
func ExportFile(dir string, rounds []round.Round, now time.Time) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path = filepath.Join(dir, Filename(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", closeErr)
		}
	}()
	if err := WriteCSV(f, rounds); err != nil {
		return "", err
	}
	return path, nil
}

func record(r round.Round) []string {
	prediction := ""
	if r.Prediction != nil {
		prediction = strconv.Itoa(*r.Prediction)
	}
	return []string{
		prediction,
		strconv.Itoa(r.Generated),
		round.FormatTimestamp(r.Timestamp),
		string(r.Mode),
		strconv.Itoa(r.Min),
		strconv.Itoa(r.Max),
		string(r.Algorithm),
	}
}
