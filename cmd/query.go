package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/platform/headless"
	"github.com/mj1618/a11y-bridge/internal/registry"
	"github.com/mj1618/a11y-bridge/internal/server"
	"github.com/mj1618/a11y-bridge/internal/text"
)

var queryCmd = &cobra.Command{
	Use:   "query FILE",
	Short: "Ask a platform what it exposes for a node of the final tree",
	Long: `Apply a stream of tree updates, then answer one platform query the way an
assistive technology would see it: a node's native role and properties, its
children, the node under a device pixel, a platform property, or a text unit.

Examples:
  a11y-bridge query testdata/batches.yaml --platform uia
  a11y-bridge query testdata/batches.yaml --platform atspi --node 4 --property Text.CharacterCount
  a11y-bridge query testdata/batches.yaml --hit 120,45
  a11y-bridge query testdata/batches.yaml --node 4 --text 3:word --platform uia`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().String("platform", "", "Platform to query (default: config platform)")
	queryCmd.Flags().String("node", "", "Node id to query (default: root)")
	queryCmd.Flags().String("hit", "", "Hit-test the device point x,y starting at --node")
	queryCmd.Flags().Bool("children", false, "Describe the node's children")
	queryCmd.Flags().String("property", "", "Print a single platform property")
	queryCmd.Flags().String("text", "", "Print the text unit at offset:unit (unit: character, word, line, document)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("platform")
	nodeFlag, _ := cmd.Flags().GetString("node")
	hitFlag, _ := cmd.Flags().GetString("hit")
	children, _ := cmd.Flags().GetBool("children")
	property, _ := cmd.Flags().GetString("property")
	textFlag, _ := cmd.Flags().GetString("text")
	if name == "" {
		name = cfg.Platform
	}

	batches, err := loadBatches(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	a, err := newAdapter(name, batches[0], headless.NewRecorder())
	if err != nil {
		return err
	}
	defer a.Close()
	updateAll(a, batches[1:])

	h, err := queryTarget(a, nodeFlag)
	if err != nil {
		return err
	}
	proj := a.Projector()

	if hitFlag != "" {
		pt, err := platform.ParsePoint(hitFlag)
		if err != nil {
			return err
		}
		if h, err = proj.HitTest(h, pt); err != nil {
			return err
		}
	}

	switch {
	case property != "":
		prop, err := proj.Property(h, property)
		if err != nil {
			return fmt.Errorf("%s: %w", property, err)
		}
		return output.Print(prop)
	case textFlag != "":
		offset, unit, err := parseTextFlag(textFlag)
		if err != nil {
			return err
		}
		r, err := proj.TextRangeAt(h, offset, unit)
		if err != nil {
			return err
		}
		return output.Print(r)
	case children:
		handles, err := proj.Children(h)
		if err != nil {
			return err
		}
		nodes := make([]server.NodeResult, 0, len(handles))
		for _, c := range handles {
			n, err := server.Describe(proj, c)
			if err != nil {
				return err
			}
			nodes = append(nodes, n)
		}
		return output.Print(nodes)
	}

	n, err := server.Describe(proj, h)
	if err != nil {
		return err
	}
	return output.Print(n)
}

func queryTarget(a *bridge.Adapter, nodeFlag string) (registry.Handle, error) {
	if nodeFlag == "" {
		return a.Projector().Root()
	}
	id, err := model.ParseNodeID(nodeFlag)
	if err != nil {
		return 0, err
	}
	return a.Registry().HandleFor(a.Snapshot(), id)
}

// parseTextFlag parses "offset:unit"; the unit defaults to word.
func parseTextFlag(s string) (int, text.Unit, error) {
	offsetStr, unitStr, found := strings.Cut(s, ":")
	offset, err := strconv.Atoi(strings.TrimSpace(offsetStr))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid --text %q: expected offset:unit", s)
	}
	if !found {
		return offset, text.UnitWord, nil
	}
	unit, err := text.ParseUnit(strings.TrimSpace(unitStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --text %q: %w", s, err)
	}
	return offset, unit, nil
}
