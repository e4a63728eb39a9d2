package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"olympicstats/pkg/contracts/domain"
)

// AnalysisDocument is the structured records export of a report run
type AnalysisDocument struct {
	RunID       string                                         `json:"run_id"`
	GeneratedAt time.Time                                      `json:"generated_at"`
	Source      string                                         `json:"source"`
	Analyses    map[domain.AnalysisType][]map[string]interface{} `json:"analyses"`
}

// JSONWriter writes tabular results as arrays of records keyed by header
type JSONWriter struct{}

// NewJSONWriter creates a JSON writer
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

// Records converts t into header-keyed records. Numeric text becomes a
// JSON number.
func (w *JSONWriter) Records(t domain.Tabular) []map[string]interface{} {
	return recordMaps(t.Header(), t.Records())
}

// WriteDocument writes doc to path, indented
func (w *JSONWriter) WriteDocument(path string, doc AnalysisDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis document: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
