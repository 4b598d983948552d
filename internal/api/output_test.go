package api

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"subject_name": "Maths", "type": "Lecture"}

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatalf("OutputTo() error = %v", err)
		}
		if !strings.Contains(buf.String(), "subject_name: Maths") {
			t.Errorf("yaml output = %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatalf("OutputTo() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"subject_name": "Maths"`) {
			t.Errorf("json output = %q", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := OutputTo(&bytes.Buffer{}, OutputFormat("xml"), data); err == nil {
			t.Error("OutputTo(xml) should fail")
		}
	})

	t.Run("file by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		if err := OutputToFile(data, path); err != nil {
			t.Fatalf("OutputToFile() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(got), "{") {
			t.Errorf("file content = %q, want json", got)
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	defer SetOutputFormat("yaml")

	SetOutputFormat("json")
	if GetOutputFormat() != OutputFormatJSON {
		t.Errorf("GetOutputFormat() = %q, want json", GetOutputFormat())
	}
	SetOutputFormat("bogus")
	if GetOutputFormat() != DefaultOutput {
		t.Errorf("GetOutputFormat() = %q, want default", GetOutputFormat())
	}
}
