package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Apply every tree update and print the resulting abstract tree",
	Long: `Apply a stream of tree updates and print the final tree. Filters imply --flat.

Examples:
  a11y-bridge inspect testdata/batches.yaml
  a11y-bridge inspect testdata/batches.yaml --roles interactive
  a11y-bridge inspect testdata/batches.yaml --text save --bbox 0,0,400,100`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("flat", false, "Print a flat list with path breadcrumbs")
	inspectCmd.Flags().String("roles", "", "Comma-separated roles or meta-roles (interactive, text) to include")
	inspectCmd.Flags().String("text", "", "Only nodes whose name, value, or description contains this text")
	inspectCmd.Flags().Bool("focused", false, "Only the focused node")
	inspectCmd.Flags().String("bbox", "", "Only nodes intersecting this device box (x,y,w,h)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	flat, _ := cmd.Flags().GetBool("flat")
	rolesFlag, _ := cmd.Flags().GetString("roles")
	text, _ := cmd.Flags().GetString("text")
	focused, _ := cmd.Flags().GetBool("focused")
	bboxFlag, _ := cmd.Flags().GetString("bbox")

	var roles []model.Role
	if rolesFlag != "" {
		var err error
		if roles, err = model.ExpandRoles(strings.Split(rolesFlag, ",")); err != nil {
			return err
		}
	}
	bbox, err := bboxRect(bboxFlag)
	if err != nil {
		return err
	}

	batches, err := loadBatches(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	snap, err := applyAll(batches)
	if err != nil {
		return err
	}

	result := output.InspectResult{
		File:    args[0],
		Version: snap.Version(),
		Root:    snap.Root(),
		Focus:   snap.Focus(),
		Count:   snap.Len(),
	}
	if !flat && len(roles) == 0 && bbox == nil && text == "" && !focused {
		if nested, ok := tree.Nest(snap, snap.Root()); ok {
			result.Tree = &nested
		}
		return output.Print(result)
	}

	nodes := tree.FilterFlat(tree.Flatten(snap), roles, bbox)
	nodes = tree.FilterByText(nodes, text)
	if focused {
		nodes = tree.FilterByFocused(nodes)
	}
	if nodes == nil {
		nodes = []tree.FlatNode{}
	}
	result.Nodes = nodes
	return output.Print(result)
}
