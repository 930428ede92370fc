package export

import (
	"bytes"
	"testing"

	"github.com/sidetalk/sidetalk/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	session := internal.CreateTestSession("yaml session")

	var buf bytes.Buffer
	exporter := &YAMLExporter{}
	if err := exporter.Export(session, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid YAML: %v\nOutput: %s", err, buf.String())
	}

	if decoded["name"] != "yaml session" {
		t.Errorf("decoded name = %v, want %q", decoded["name"], "yaml session")
	}
	msgs, ok := decoded["messages"].([]interface{})
	if !ok || len(msgs) != len(session.Messages) {
		t.Errorf("decoded messages = %v, want %d entries", decoded["messages"], len(session.Messages))
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	exporter := &YAMLExporter{}
	if got := exporter.Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
