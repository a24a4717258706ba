// Package dataset defines the client-side record of the active uploaded
// dataset and the decode step from the backend's wire shapes.
package dataset

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/datadeck-dev/datadeck/internal/api"
)

// PreviewDisplayLimit caps how many preview rows are ever shown, regardless
// of how many the backend materialized.
const PreviewDisplayLimit = 20

// SampleRowsChoices are the sample sizes the backend accepts for upload.
var SampleRowsChoices = []int{50, 100, 500, 1000, 2000}

// Shape is a (rows, columns) pair.
type Shape struct {
	Rows    int
	Columns int
}

// Sniff holds the backend's format detection results, opaque to the client.
type Sniff struct {
	Filetype  string
	Encoding  string
	Delimiter string
	Ext       string
}

// ColumnStat describes one column of the dataset.
type ColumnStat struct {
	Column    string
	NullCount int
	NullRatio float64 // percentage in [0, 100]
	Dtype     string
}

// Binding identifies and describes the currently active dataset. A Binding is
// either fully populated or not held at all; dependents never see a partial
// one.
type Binding struct {
	DatasetID   string
	Columns     []string
	ShapeTotal  Shape
	ShapeSample Shape
	Sniff       Sniff
	Ext         string
	RawPath     string
	Preview     []map[string]string
	Stats       []ColumnStat
}

// DisplayPreview returns the preview rows capped at PreviewDisplayLimit.
func (b *Binding) DisplayPreview() []map[string]string {
	if len(b.Preview) <= PreviewDisplayLimit {
		return b.Preview
	}
	return b.Preview[:PreviewDisplayLimit]
}

// Summary is the one-line dataset context shown alongside the chat.
func (b *Binding) Summary() string {
	return fmt.Sprintf("%s | %d rows × %d cols | %s",
		b.DatasetID, b.ShapeTotal.Rows, b.ShapeTotal.Columns,
		strings.ToUpper(b.Sniff.Filetype))
}

// DecodeError reports an upload response whose shape does not match the wire
// contract.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding upload response: %s: %s", e.Field, e.Reason)
}

// AllowedFile reports whether the filename has one of the delimited-text
// extensions the client accepts. The backend remains authoritative on
// content sniffing.
func AllowedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".txt":
		return true
	}
	return false
}

// ValidSampleRows reports whether n is one of SampleRowsChoices.
func ValidSampleRows(n int) bool {
	for _, c := range SampleRowsChoices {
		if n == c {
			return true
		}
	}
	return false
}

// DecodeBinding builds a Binding from a successful upload response. It fails
// with a *DecodeError on any shape mismatch rather than defaulting silently.
// The caller must only pass responses with Success=true.
func DecodeBinding(resp *api.UploadResponse) (*Binding, error) {
	if resp.DatasetID == "" {
		return nil, &DecodeError{Field: "dataset_id", Reason: "missing"}
	}
	if resp.Meta == nil {
		return nil, &DecodeError{Field: "meta", Reason: "missing"}
	}
	if len(resp.Meta.Columns) == 0 {
		return nil, &DecodeError{Field: "meta.columns", Reason: "empty"}
	}

	total, err := decodeShape("meta.shape_total", resp.Meta.ShapeTotal)
	if err != nil {
		return nil, err
	}
	sample, err := decodeShape("meta.shape_sample", resp.Meta.ShapeSample)
	if err != nil {
		return nil, err
	}

	stats, err := decodeStats(resp.DtypeDF, resp.Meta.Columns)
	if err != nil {
		return nil, err
	}

	return &Binding{
		DatasetID:   resp.DatasetID,
		Columns:     append([]string(nil), resp.Meta.Columns...),
		ShapeTotal:  total,
		ShapeSample: sample,
		Sniff: Sniff{
			Filetype:  resp.Meta.Sniff.Filetype,
			Encoding:  resp.Meta.Sniff.Encoding,
			Delimiter: resp.Meta.Sniff.Delimiter,
			Ext:       resp.Meta.Sniff.Ext,
		},
		Ext:     resp.Meta.Ext,
		RawPath: resp.Meta.RawPath,
		Preview: decodePreview(resp.PreviewDF, resp.Meta.Columns),
		Stats:   stats,
	}, nil
}

func decodeShape(field string, raw []int) (Shape, error) {
	if len(raw) != 2 {
		return Shape{}, &DecodeError{Field: field, Reason: fmt.Sprintf("want 2 elements, got %d", len(raw))}
	}
	if raw[0] < 0 || raw[1] < 0 {
		return Shape{}, &DecodeError{Field: field, Reason: "negative dimension"}
	}
	return Shape{Rows: raw[0], Columns: raw[1]}, nil
}

// decodeStats checks that the statistics table covers exactly the schema's
// column set. Order may differ from the schema; the set may not.
func decodeStats(entries []api.DtypeEntry, columns []string) ([]ColumnStat, error) {
	if len(entries) != len(columns) {
		return nil, &DecodeError{
			Field:  "dtype_df",
			Reason: fmt.Sprintf("%d entries for %d columns", len(entries), len(columns)),
		}
	}

	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	stats := make([]ColumnStat, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !known[e.Column] {
			return nil, &DecodeError{Field: "dtype_df", Reason: fmt.Sprintf("unknown column %q", e.Column)}
		}
		if seen[e.Column] {
			return nil, &DecodeError{Field: "dtype_df", Reason: fmt.Sprintf("duplicate entry for %q", e.Column)}
		}
		seen[e.Column] = true
		if e.NullCount < 0 {
			return nil, &DecodeError{Field: "dtype_df", Reason: fmt.Sprintf("negative null_count for %q", e.Column)}
		}
		if e.NullRatio < 0 || e.NullRatio > 100 {
			return nil, &DecodeError{Field: "dtype_df", Reason: fmt.Sprintf("null_ratio %v out of range for %q", e.NullRatio, e.Column)}
		}
		stats = append(stats, ColumnStat{
			Column:    e.Column,
			NullCount: e.NullCount,
			NullRatio: e.NullRatio,
			Dtype:     e.Dtype,
		})
	}
	return stats, nil
}

// decodePreview flattens the raw preview rows to display strings keyed by
// column name. Missing or null cells become empty strings.
func decodePreview(rows []map[string]json.RawMessage, columns []string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, raw := range rows {
		row := make(map[string]string, len(columns))
		for _, col := range columns {
			row[col] = cellString(raw[col])
		}
		out = append(out, row)
	}
	return out
}

// cellString renders one JSON cell value for display.
func cellString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// Numbers, booleans and nested values keep their JSON text.
	return string(raw)
}
