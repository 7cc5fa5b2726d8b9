package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/vireolab/vireo/config"
)

// MetricsWriter appends StepStats rows to metrics.csv in the output
// directory. A nil MetricsWriter is valid and discards everything, so the
// headless loop never branches on whether output is enabled.
type MetricsWriter struct {
	dir           string
	file          *os.File
	headerWritten bool
	rows          int
}

// NewMetricsWriter creates the output directory and opens metrics.csv.
// Returns nil if dir is empty (output disabled).
func NewMetricsWriter(dir string) (*MetricsWriter, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "metrics.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating metrics.csv: %w", err)
	}

	return &MetricsWriter{dir: dir, file: f}, nil
}

// WriteConfig saves the effective run configuration next to the metrics.
func (m *MetricsWriter) WriteConfig(cfg *config.Config) error {
	if m == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(m.dir, "config.yaml"))
}

// WriteStep appends one row, writing the header on first use.
func (m *MetricsWriter) WriteStep(row StepStats) error {
	if m == nil {
		return nil
	}

	records := []StepStats{row}
	if !m.headerWritten {
		if err := gocsv.Marshal(records, m.file); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		m.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, m.file); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	m.rows++
	return nil
}

// Rows returns the number of rows written.
func (m *MetricsWriter) Rows() int {
	if m == nil {
		return 0
	}
	return m.rows
}

// Close flushes and closes the underlying file.
func (m *MetricsWriter) Close() error {
	if m == nil || m.file == nil {
		return nil
	}
	return m.file.Close()
}
