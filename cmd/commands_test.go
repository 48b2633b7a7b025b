package cmd

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/projector"
	"github.com/mj1618/a11y-bridge/internal/server"
)

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := yaml.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return v
}

func eventNames(evs []platform.NativeEvent) string {
	names := make([]string, len(evs))
	for i, ev := range evs {
		names[i] = ev.Name
	}
	return strings.Join(names, ",")
}

func TestReplay_Headless(t *testing.T) {
	out, err := runCLI(t, "replay", "testdata/batches.yaml", "--platform", "headless", "--diff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := decodeOutput[output.ReplayResult](t, out)
	if len(res.Batches) != 4 {
		t.Fatalf("expected 4 batch results, got %d", len(res.Batches))
	}

	want := []struct {
		version uint64
		events  string
		failed  bool
	}{
		{2, "property-changed,focus-changed", false},
		{3, "children-changed,property-changed,property-changed,live-region-changed", false},
		{3, "", true},
		{4, "node-removed,children-changed", false},
	}
	for i, w := range want {
		b := res.Batches[i]
		if b.Batch != i+1 || b.Platform != "headless" {
			t.Errorf("batch %d: got batch %d on %s", i+1, b.Batch, b.Platform)
		}
		if b.Version != w.version {
			t.Errorf("batch %d: version %d, want %d", i+1, b.Version, w.version)
		}
		if got := eventNames(b.Events); got != w.events {
			t.Errorf("batch %d: events %q, want %q", i+1, got, w.events)
		}
		if (b.Error != "") != w.failed {
			t.Errorf("batch %d: error %q", i+1, b.Error)
		}
	}
	if d := res.Batches[3].Diff; d == nil || len(d.Removed) != 1 || len(d.Added) != 1 {
		t.Errorf("batch 4: expected one removal and one addition, got %+v", d)
	}
	if n := res.Batches[0].Notifications; len(n) != 2 || n[1].Target != model.NewNodeID(4) {
		t.Errorf("batch 1: unexpected notifications %+v", n)
	}
}

func TestReplay_AllPlatforms(t *testing.T) {
	out, err := runCLI(t, "replay", "testdata/batches.yaml", "--platform", "all", "--notifications=false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := decodeOutput[output.ReplayResult](t, out)
	if strings.Join(res.Platforms, ",") != "atspi,headless,uia" {
		t.Errorf("unexpected platforms %v", res.Platforms)
	}
	if len(res.Batches) != 12 {
		t.Fatalf("expected 12 batch results, got %d", len(res.Batches))
	}
	for i, b := range res.Batches {
		if want := res.Platforms[i/4]; b.Platform != want {
			t.Errorf("result %d: platform %s, want %s", i, b.Platform, want)
		}
		if len(b.Notifications) != 0 {
			t.Errorf("result %d: notifications should be omitted", i)
		}
		if b.Error == "" && len(b.Events) == 0 {
			t.Errorf("result %d: expected native events", i)
		}
	}
}

func TestReplay_Errors(t *testing.T) {
	if _, err := runCLI(t, "replay", "testdata/batches.yaml", "--platform", "cocoa"); err == nil {
		t.Error("expected error for unknown platform")
	}
	if _, err := runCLI(t, "replay", "testdata/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInspect(t *testing.T) {
	out, err := runCLI(t, "inspect", "testdata/batches.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := decodeOutput[output.InspectResult](t, out)
	if res.Count != 5 || res.Version != 4 {
		t.Errorf("got count %d version %d, want 5 and 4", res.Count, res.Version)
	}
	if res.Tree == nil || len(res.Tree.Children) != 3 {
		t.Fatalf("expected nested tree with 3 children, got %+v", res.Tree)
	}
	if res.Tree.Children[0].ID != model.NewNodeID(3) {
		t.Errorf("first child should be the link, got %s", res.Tree.Children[0].ID)
	}
}

func TestInspect_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []uint64
	}{
		{"flat", []string{"--flat"}, []uint64{1, 3, 4, 5, 6}},
		{"roles", []string{"--roles", "interactive"}, []uint64{3, 4}},
		{"focused", []string{"--focused"}, []uint64{4}},
		{"text", []string{"--text", "SAVED"}, []uint64{5, 6}},
		{"bbox", []string{"--bbox", "0,270,400,30"}, []uint64{1, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"inspect", "testdata/batches.yaml"}, tt.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			res := decodeOutput[output.InspectResult](t, out)
			if len(res.Nodes) != len(tt.want) {
				t.Fatalf("got %d nodes, want %d", len(res.Nodes), len(tt.want))
			}
			for i, id := range tt.want {
				if res.Nodes[i].ID != model.NewNodeID(id) {
					t.Errorf("node %d: got %s, want %d", i, res.Nodes[i].ID, id)
				}
			}
		})
	}

	if _, err := runCLI(t, "inspect", "testdata/batches.yaml", "--roles", "blimp"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestQuery(t *testing.T) {
	out, err := runCLI(t, "query", "testdata/batches.yaml", "--platform", "headless")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := decodeOutput[server.NodeResult](t, out)
	if root.ID != model.NewNodeID(1) || root.Role.Name != "window" || root.Children != 3 {
		t.Errorf("unexpected root %+v", root)
	}

	out, err = runCLI(t, "query", "testdata/batches.yaml", "--platform", "headless", "--hit", "20,20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit := decodeOutput[server.NodeResult](t, out); hit.ID != model.NewNodeID(3) {
		t.Errorf("hit: got %s, want 3", hit.ID)
	}

	out, err = runCLI(t, "query", "testdata/batches.yaml", "--platform", "headless", "--children")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if children := decodeOutput[[]server.NodeResult](t, out); len(children) != 3 {
		t.Errorf("expected 3 children, got %d", len(children))
	}

	out, err = runCLI(t, "query", "testdata/batches.yaml", "--platform", "uia", "--node", "4", "--text", "7:word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := decodeOutput[projector.TextRange](t, out)
	if r != (projector.TextRange{Start: 6, End: 11, Text: "there"}) {
		t.Errorf("text: got %+v", r)
	}

	out, err = runCLI(t, "query", "testdata/batches.yaml", "--platform", "headless", "--node", "6", "--property", "name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := decodeOutput[platform.NativeProperty](t, out); p.Value != "Saved" {
		t.Errorf("property: got %v", p.Value)
	}
}

func TestQuery_Errors(t *testing.T) {
	tests := [][]string{
		{"--node", "2"},
		{"--node", "x"},
		{"--hit", "1"},
		{"--property", "bogus"},
		{"--platform", "cocoa"},
	}
	for _, extra := range tests {
		args := append([]string{"query", "testdata/batches.yaml", "--platform", "headless"}, extra...)
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", extra)
		}
	}
}
