package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mj1618/a11y-bridge/internal/events"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"gopkg.in/yaml.v3"
)

func sampleReplay() ReplayResult {
	return ReplayResult{
		File:      "batches.yaml",
		Platforms: []string{"headless"},
		Batches: []BatchResult{{
			Platform: "headless",
			Batch:    1,
			Version:  2,
			Notifications: []events.Notification{
				{Kind: events.KindFocusChanged, Target: model.NewNodeID(3)},
			},
			Events: []platform.NativeEvent{
				{Platform: "headless", Name: "focus-changed", Target: 2},
			},
		}},
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintYAML(&buf, sampleReplay()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	// YAML output should be multi-line
	if strings.Count(out, "\n") <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", out)
	}
	if !strings.Contains(out, "target: \"3\"") && !strings.Contains(out, "target: 3") {
		t.Errorf("node ids should be rendered as text, got:\n%s", out)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["file"] != "batches.yaml" {
		t.Errorf("file: got %v, want batches.yaml", decoded["file"])
	}
}

func TestPrintJSON_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, sampleReplay()); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") > 1 {
		t.Errorf("compact output should be single line, got:\n%s", buf.String())
	}
	var decoded ReplayResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Batches) != 1 || decoded.Batches[0].Notifications[0].Target != model.NewNodeID(3) {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestPrintPrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintPrettyJSON(&buf, sampleReplay()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"file\"") {
		t.Errorf("pretty output should be indented, got:\n%s", buf.String())
	}
}

func TestFprint_UsesFormat(t *testing.T) {
	defer func(f Format, p bool) { OutputFormat, PrettyOutput = f, p }(OutputFormat, PrettyOutput)

	tests := []struct {
		format Format
		pretty bool
		prefix string
	}{
		{FormatYAML, false, "file:"},
		{FormatJSON, false, "{\"file\""},
		{FormatJSON, true, "{\n"},
	}
	for _, tt := range tests {
		OutputFormat, PrettyOutput = tt.format, tt.pretty
		var buf bytes.Buffer
		if err := Fprint(&buf, sampleReplay()); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), tt.prefix) {
			t.Errorf("%s pretty=%v: got %q", tt.format, tt.pretty, buf.String()[:20])
		}
	}

	OutputFormat = "xml"
	if err := Fprint(&bytes.Buffer{}, 1); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("ParseFormat(toml) should fail")
	}
}

func TestInspectResult_OmitEmpty(t *testing.T) {
	data, err := yaml.Marshal(InspectResult{File: "f", Root: model.NewNodeID(1), Count: 1})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"focus", "tree", "nodes"} {
		if _, ok := m[key]; ok {
			t.Errorf("empty %s should be omitted", key)
		}
	}
	if _, ok := m["root"]; !ok {
		t.Error("root should always be present")
	}
}
