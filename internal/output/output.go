package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/a11y-bridge/internal/events"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format: %s (use yaml or json)", s)
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Writer is where Print writes. Commands point it at their output stream.
var Writer io.Writer = os.Stdout

// BatchResult is the outcome of one replayed update batch on one platform.
type BatchResult struct {
	Platform      string                 `yaml:"platform"                json:"platform"`
	Batch         int                    `yaml:"batch"                   json:"batch"`
	Version       uint64                 `yaml:"version"                 json:"version"`
	Error         string                 `yaml:"error,omitempty"         json:"error,omitempty"`
	Diff          *tree.Diff             `yaml:"diff,omitempty"          json:"diff,omitempty"`
	Notifications []events.Notification  `yaml:"notifications,omitempty" json:"notifications,omitempty"`
	Events        []platform.NativeEvent `yaml:"events,omitempty"        json:"events,omitempty"`
	Failed        int                    `yaml:"failed,omitempty"        json:"failed,omitempty"`
}

// ReplayResult is the top-level output of the `replay` command.
type ReplayResult struct {
	File      string        `yaml:"file"      json:"file"`
	Platforms []string      `yaml:"platforms" json:"platforms"`
	Batches   []BatchResult `yaml:"batches"   json:"batches"`
}

// InspectResult is the top-level output of the `inspect` command. Exactly
// one of Tree and Nodes is set.
type InspectResult struct {
	File    string          `yaml:"file"            json:"file"`
	Version uint64          `yaml:"version"         json:"version"`
	Root    model.NodeID    `yaml:"root"            json:"root"`
	Focus   model.NodeID    `yaml:"focus,omitempty" json:"focus,omitempty"`
	Count   int             `yaml:"count"           json:"count"`
	Tree    *tree.TreeNode  `yaml:"tree,omitempty"  json:"tree,omitempty"`
	Nodes   []tree.FlatNode `yaml:"nodes,omitempty" json:"nodes,omitempty"`
}

// Print serializes v to Writer in the current output format.
func Print(v interface{}) error {
	return Fprint(Writer, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(w, v)
		}
		return PrintJSON(w, v)
	case FormatYAML:
		return PrintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to w as compact single-line JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintPrettyJSON serializes v to w as indented JSON.
func PrintPrettyJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v to w as YAML.
func PrintYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
