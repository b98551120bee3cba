package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
)

func claudeServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "sk-test" {
			t.Errorf("x-api-key = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         DefaultClaudeModel,
			"content":       []map[string]any{{"type": "text", "text": text}},
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]any{"input_tokens": 12, "output_tokens": 34},
		})
	}))
}

func TestNewClaude_NoKey(t *testing.T) {
	if s := NewClaude("", "", 0, time.Second); s != nil {
		t.Error("NewClaude without key should be nil")
	}
	s := NewClaude("sk", "", 0, time.Second)
	if s.model != DefaultClaudeModel || s.maxTokens != DefaultClaudeMaxTokens {
		t.Errorf("defaults = %q, %d", s.model, s.maxTokens)
	}
}

func TestClaude_Generate(t *testing.T) {
	srv := claudeServer(t, http.StatusOK, "```mermaid\nsequenceDiagram\n    A->>B: hi\n```")
	defer srv.Close()

	s := NewClaude("sk-test", "", 0, 5*time.Second, option.WithBaseURL(srv.URL))
	res := s.Generate(context.Background(), diagram.Request{Title: "Greeting", Kind: diagram.KindSequence})
	if !res.OK() {
		t.Fatalf("Generate() error: %v", res.Err)
	}
	if res.Response.Source != "sequenceDiagram\n    A->>B: hi" {
		t.Errorf("Source = %q", res.Response.Source)
	}
}

func TestClaude_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		text   string
		code   errors.Code
	}{
		{"api error", http.StatusInternalServerError, "", errors.ErrCodeNetwork},
		{"prose only", http.StatusOK, "I would draw two boxes.", errors.ErrCodeGenerationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := claudeServer(t, tt.status, tt.text)
			defer srv.Close()

			res := NewClaude("sk-test", "", 0, 5*time.Second, option.WithBaseURL(srv.URL)).
				Generate(context.Background(), diagram.Request{Title: "X"})
			if !errors.Is(res.Err, tt.code) {
				t.Errorf("error = %v, want code %s", res.Err, tt.code)
			}
		})
	}
}
