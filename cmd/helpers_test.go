package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/text"
)

func TestLoadBatches(t *testing.T) {
	batches, err := loadBatches("testdata/batches.yaml", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batches) != 5 {
		t.Fatalf("expected 5 batches, got %d", len(batches))
	}
	if batches[0].Tree == nil || batches[0].Tree.Root != model.NewNodeID(1) {
		t.Errorf("initial batch should declare root 1, got %+v", batches[0].Tree)
	}
	if got := batches[1].Patches[0].Patch.Name; got == nil || *got != "Save As" {
		t.Errorf("expected rename patch, got %v", got)
	}
}

func TestLoadBatches_Stdin(t *testing.T) {
	src := "tree: {root: 1}\nnodes:\n  - id: 1\n    node: {role: window}\n---\nfocus: 1\n"
	batches, err := loadBatches("-", strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
}

func TestLoadBatches_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"unknown key", "tree: {root: 1}\ncolour: red\n"},
		{"bad role", "nodes:\n  - id: 1\n    node: {role: blimp}\n"},
		{"bad id", "focus: nope\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadBatches("-", strings.NewReader(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := loadBatches("testdata/missing.yaml", nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPlatformNames(t *testing.T) {
	all, err := platformNames("all")
	if err != nil || strings.Join(all, ",") != "atspi,headless,uia" {
		t.Errorf("all: got %v, %v", all, err)
	}
	two, err := platformNames(" uia , atspi ")
	if err != nil || strings.Join(two, ",") != "uia,atspi" {
		t.Errorf("list: got %v, %v", two, err)
	}
	if _, err := platformNames("cocoa"); !errors.Is(err, platform.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if _, err := platformNames(","); err == nil {
		t.Error("expected error for empty selection")
	}
}

func TestParseTextFlag(t *testing.T) {
	tests := []struct {
		in      string
		offset  int
		unit    text.Unit
		wantErr bool
	}{
		{"3", 3, text.UnitWord, false},
		{"0:character", 0, text.UnitCharacter, false},
		{"12: line", 12, text.UnitLine, false},
		{"-1:word", 0, 0, true},
		{"x:word", 0, 0, true},
		{"1:page", 0, 0, true},
	}
	for _, tt := range tests {
		offset, unit, err := parseTextFlag(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (offset != tt.offset || unit != tt.unit) {
			t.Errorf("%q: got %d %v, want %d %v", tt.in, offset, unit, tt.offset, tt.unit)
		}
	}
}

func TestBBoxRect(t *testing.T) {
	saved := cfg
	defer func() { cfg = saved }()
	cfg.ScaleFactor = 2
	cfg.WindowOrigin = model.Point{X: 100, Y: 50}

	r, err := bboxRect("100,50,200,100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.Rect{X0: 0, Y0: 0, X1: 100, Y1: 50}
	if *r != want {
		t.Errorf("got %+v, want %+v", *r, want)
	}
	if r, err := bboxRect(""); r != nil || err != nil {
		t.Errorf("empty bbox: got %v, %v", r, err)
	}
	if _, err := bboxRect("1,2,3"); err == nil {
		t.Error("expected error for short bbox")
	}
}

func TestApplyAll(t *testing.T) {
	if _, err := applyAll([]model.TreeUpdate{{}}); err == nil {
		t.Error("expected error for an initial batch without a root")
	}

	batches, err := loadBatches("testdata/batches.yaml", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, err := applyAll(batches)
	if err != nil {
		t.Fatalf("rejected follow-up batches should be skipped: %v", err)
	}
	if snap.Contains(model.NewNodeID(2)) || !snap.Contains(model.NewNodeID(3)) {
		t.Error("final batch should have replaced node 2 with node 3")
	}
}
