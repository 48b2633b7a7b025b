package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// loadBatches reads a stream of YAML documents, one TreeUpdate each.
// The first document is the initial tree. A path of "-" reads stdin.
func loadBatches(path string, stdin io.Reader) ([]model.TreeUpdate, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var batches []model.TreeUpdate
	for {
		var u model.TreeUpdate
		err := dec.Decode(&u)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s document %d: %w", path, len(batches)+1, err)
		}
		batches = append(batches, u)
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("%s: no tree updates", path)
	}
	return batches, nil
}

// platformNames expands a comma-separated --platform value. "all"
// selects every platform in the catalog.
func platformNames(flag string) ([]string, error) {
	catalog := bridge.Platforms()
	if flag == "all" {
		return catalog.Names(), nil
	}
	var names []string
	for _, name := range strings.Split(flag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := catalog[name]; !ok {
			return nil, fmt.Errorf("%w: %s (use one of %s)", platform.ErrUnsupported, name, strings.Join(catalog.Names(), ", "))
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, errors.New("no platform selected")
	}
	return names, nil
}

// newAdapter initializes the named platform from the loaded config and
// builds an adapter over initial.
func newAdapter(name string, initial model.TreeUpdate, notifier platform.Notifier) (*bridge.Adapter, error) {
	p, err := bridge.Platforms().New(name)
	if err != nil {
		return nil, err
	}
	ctx, err := platform.Init(p, cfg.InitOptions())
	if err != nil {
		return nil, err
	}
	return bridge.New(ctx, initial, notifier,
		bridge.WithLogger(logger.L),
		bridge.WithActionQueueSize(cfg.ActionQueueSize),
	)
}

// applyAll folds batches into a store without any platform. A rejected
// batch after the first is logged and skipped, as the adapter would.
func applyAll(batches []model.TreeUpdate) (*tree.Snapshot, error) {
	store := tree.NewStore(tree.WithLogger(logger.L))
	snap, _, err := store.Apply(batches[0])
	if err != nil {
		return nil, fmt.Errorf("initial tree: %w", err)
	}
	for i, u := range batches[1:] {
		if next, _, err := store.Apply(u); err != nil {
			logger.Warn("batch rejected", "batch", i+1, "error", err)
		} else {
			snap = next
		}
	}
	return snap, nil
}

// updateAll applies batches to a, logging and skipping rejected ones.
func updateAll(a *bridge.Adapter, batches []model.TreeUpdate) {
	for i, u := range batches {
		if _, err := a.Update(u); err != nil {
			logger.Warn("batch rejected", "batch", i+1, "error", err)
		}
	}
}

// bboxRect converts a device "x,y,w,h" box into logical coordinates.
func bboxRect(s string) (*model.Rect, error) {
	if s == "" {
		return nil, nil
	}
	b, err := platform.ParseBBox(s)
	if err != nil {
		return nil, err
	}
	c := platform.Coordinates{Scale: cfg.ScaleFactor, Origin: cfg.WindowOrigin}
	r := c.RectFromDevice(*b)
	return &r, nil
}
