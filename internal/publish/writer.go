package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
)

// FileName is the document name under each data directory
const FileName = "daily-stocks.json"

// prettyOptions: 2-space indent, arrays always expanded, keys in struct order
var prettyOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "  ", SortKeys: false}

// Writer writes the document to the data and public data directories
// ⭐ SSOT: daily-stocks.json 저장은 여기서만
type Writer struct {
	baseDir string
	logger  *logger.Logger
}

// NewWriter creates a writer rooted at baseDir
func NewWriter(baseDir string, log *logger.Logger) *Writer {
	return &Writer{baseDir: baseDir, logger: log}
}

// Paths returns the destinations in write order
func (w *Writer) Paths() []string {
	return []string{
		filepath.Join(w.baseDir, "data", FileName),
		filepath.Join(w.baseDir, "public", "data", FileName),
	}
}

// Write overwrites both destinations, creating directories as needed
func (w *Writer) Write(ctx context.Context, doc contracts.DailyStocks) ([]string, error) {
	data, err := Encode(doc)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, 2)
	for _, path := range w.Paths() {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create directory for %s: %w", path, err)
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	w.logger.WithFields(map[string]interface{}{
		"paths":       written,
		"total_picks": doc.TotalPicks,
		"bytes":       len(data),
	}).Info("Daily stocks written")

	return written, nil
}

// Encode renders the document as indented JSON
func Encode(doc contracts.DailyStocks) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal daily stocks: %w", err)
	}

	return pretty.PrettyOptions(buf.Bytes(), prettyOptions), nil
}

// Read loads a previously written document
func Read(path string) (*contracts.DailyStocks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc contracts.DailyStocks
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
