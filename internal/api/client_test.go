package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestUploadSendsMultipartForm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("got %s %s, want POST /upload", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("sample_rows"); got != "100" {
			t.Errorf("sample_rows = %q, want 100", got)
		}

		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("reading file part: %v", err)
		}
		defer f.Close()
		if header.Filename != "data.csv" {
			t.Errorf("filename = %q, want data.csv", header.Filename)
		}

		json.NewEncoder(w).Encode(UploadResponse{
			Success:   true,
			DatasetID: "ds-42",
			Meta: &UploadMeta{
				Sniff:       SniffMeta{Filetype: "csv", Encoding: "utf-8", Delimiter: ",", Ext: "csv"},
				ShapeSample: []int{100, 3},
				ShapeTotal:  []int{120, 3},
				Columns:     []string{"a", "b", "c"},
			},
			DtypeDF: []DtypeEntry{
				{Column: "a", Dtype: "int64"},
				{Column: "b", Dtype: "float64"},
				{Column: "c", Dtype: "object"},
			},
		})
	})

	resp, err := client.Upload(context.Background(), "data.csv", strings.NewReader("a,b,c\n1,2,3\n"), 100)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !resp.Success || resp.DatasetID != "ds-42" {
		t.Errorf("resp = %+v, want success with ds-42", resp)
	}
	if len(resp.Meta.Columns) != 3 {
		t.Errorf("columns = %v, want 3 entries", resp.Meta.Columns)
	}
}

func TestUploadApplicationFailurePassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(UploadResponse{Success: false, Message: "unsupported delimiter"})
	})

	resp, err := client.Upload(context.Background(), "data.csv", strings.NewReader("x"), 50)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Message != "unsupported delimiter" {
		t.Errorf("Message = %q, want the server message", resp.Message)
	}
}

func TestChatRoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("got %s %s, want POST /chat", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if body["message"] != "average of A?" {
			t.Errorf("message = %q", body["message"])
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "The average is 4.2."})
	})

	reply, err := client.Chat(context.Background(), "average of A?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "The average is 4.2." {
		t.Errorf("reply = %q", reply)
	}
}

func TestNon2xxWithDetailBecomesStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "model not loaded"})
	})

	_, err := client.Chat(context.Background(), "hi")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", se.StatusCode)
	}
	if se.Detail != "model not loaded" {
		t.Errorf("Detail = %q, want the structured detail", se.Detail)
	}
}

func TestNon2xxWithoutDetailHasNoDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	})

	err := client.Reset(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.Detail != "" {
		t.Errorf("Detail = %q, want empty for an unstructured body", se.Detail)
	}
}

func TestMessagesDecodesTranscript(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s, want /messages", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"messages": []Message{
				{Role: "user", Content: "hello"},
				{Role: "assistant", Content: "hi there"},
			},
		})
	})

	msgs, err := client.Messages(context.Background())
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Content != "hi there" {
		t.Errorf("msgs = %+v", msgs)
	}
}

func TestProfileAbsentIsEmptyList(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no profile", `{"success": true}`},
		{"no personal bucket", `{"success": true, "profile": {}}`},
		{"success false", `{"success": false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			facts, err := client.Profile(context.Background())
			if err != nil {
				t.Fatalf("Profile failed: %v", err)
			}
			if len(facts) != 0 {
				t.Errorf("facts = %v, want empty", facts)
			}
		})
	}
}

func TestSaveFactPostsFixedCategoryAndKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/profile" {
			t.Errorf("got %s %s, want POST /profile", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if body["category"] != "personal" || body["key"] != "name" {
			t.Errorf("category/key = %q/%q, want personal/name", body["category"], body["key"])
		}
		if body["value"] != "allergic to peanuts" {
			t.Errorf("value = %q", body["value"])
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.SaveFact(context.Background(), "allergic to peanuts"); err != nil {
		t.Fatalf("SaveFact failed: %v", err)
	}
}

func TestResetUsesDeleteClearData(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/clear-data" {
		t.Errorf("got %s %s, want DELETE /clear-data", gotMethod, gotPath)
	}
}

func TestTransportErrorIsNotStatusError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := client.Chat(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected a transport error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("transport failure surfaced as StatusError: %v", err)
	}
}

func TestUserMessagePrefersDetail(t *testing.T) {
	err := &StatusError{StatusCode: 500, Detail: "backend exploded"}
	if got := UserMessage(err, "generic"); got != "backend exploded" {
		t.Errorf("UserMessage = %q, want detail", got)
	}
	if got := UserMessage(errors.New("dial tcp: refused"), "generic"); got != "generic" {
		t.Errorf("UserMessage = %q, want fallback", got)
	}
	if got := UserMessage(&AppError{Message: "declined"}, "generic"); got != "declined" {
		t.Errorf("UserMessage = %q, want app message", got)
	}
}
