// Package api implements the HTTP client for the data-analysis agent backend.
// This file defines the wire-level request and response shapes.
package api

import "encoding/json"

// Message is a single conversation turn as the backend stores it.
type Message struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// messagesResponse is the body of GET /messages.
type messagesResponse struct {
	Messages []Message `json:"messages"`
}

// chatRequest is the body of POST /chat.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the body of a successful POST /chat.
type chatResponse struct {
	Response string `json:"response"`
}

// SniffMeta holds the backend's file format detection results. The client
// never interprets these beyond display.
type SniffMeta struct {
	Filetype  string `json:"filetype"`
	Encoding  string `json:"encoding"`
	Delimiter string `json:"delimiter"`
	Ext       string `json:"ext"`
}

// UploadMeta describes the ingested dataset.
type UploadMeta struct {
	Sniff       SniffMeta `json:"sniff"`
	ShapeSample []int     `json:"shape_sample"` // [rows, columns]
	ShapeTotal  []int     `json:"shape_total"`  // [rows, columns]
	Columns     []string  `json:"columns"`
	Ext         string    `json:"ext"`
	RawPath     string    `json:"raw_path"`
}

// DtypeEntry is one row of the per-column statistics table.
type DtypeEntry struct {
	Column    string  `json:"column"`
	NullCount int     `json:"null_count"`
	NullRatio float64 `json:"null_ratio"` // percentage in [0, 100]
	Dtype     string  `json:"dtype"`
}

// UploadResponse is the body of POST /upload. On success=false only Message
// is meaningful; the optional fields stay nil.
type UploadResponse struct {
	Success   bool                         `json:"success"`
	Message   string                       `json:"message"`
	DatasetID string                       `json:"dataset_id,omitempty"`
	Meta      *UploadMeta                  `json:"meta,omitempty"`
	PreviewDF []map[string]json.RawMessage `json:"preview_df,omitempty"`
	DtypeDF   []DtypeEntry                 `json:"dtype_df,omitempty"`
}

// profileResponse is the body of GET /profile. The nested shape mirrors the
// backend's category/key layout; only personal.info_list is read.
type profileResponse struct {
	Success bool `json:"success"`
	Profile *struct {
		Personal *struct {
			InfoList []string `json:"info_list"`
		} `json:"personal"`
	} `json:"profile"`
}

// saveFactRequest is the body of POST /profile. Category and key are fixed by
// the backend's current profile scheme.
type saveFactRequest struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}
