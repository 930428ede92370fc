package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sidetalk/sidetalk/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.Session
	}{
		{
			name:    "basic session",
			session: internal.CreateTestSession("basic"),
		},
		{
			name: "empty session",
			session: &internal.Session{
				Name:     "empty",
				Messages: []internal.Message{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.session, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			output := buf.String()
			var session internal.Session
			if err := json.Unmarshal([]byte(output), &session); err != nil {
				t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, output)
			}

			if session.Name != tt.session.Name {
				t.Errorf("round-tripped name = %q, want %q", session.Name, tt.session.Name)
			}
			if len(session.Messages) != len(tt.session.Messages) {
				t.Errorf("round-tripped %d messages, want %d", len(session.Messages), len(tt.session.Messages))
			}

			// Verify it's pretty-printed (contains indentation)
			if !strings.Contains(output, "  ") {
				t.Error("Output should be pretty-printed with indentation")
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
