package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform/headless"
	"github.com/mj1618/a11y-bridge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [FILE]",
	Short: "Start an MCP server exposing one adapter as tools",
	Long: `Start a Model Context Protocol (MCP) server over one adapter. Agents can push tree
updates, query the platform view of any node, request actions, and drain the native
events raised, without shell overhead.

The adapter starts from the updates in FILE, or from an empty window.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  a11y-bridge serve
  a11y-bridge serve testdata/batches.yaml --platform atspi
  a11y-bridge serve --transport streamable-http --port 8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().String("platform", "", "Platform to project to (default: config platform)")
}

// emptyWindow is the initial tree when serve is given no file.
func emptyWindow() model.TreeUpdate {
	root := model.NewNodeID(1)
	return model.TreeUpdate{
		Tree:  &model.TreeInfo{Root: root},
		Nodes: []model.NodeUpdate{{ID: root, Node: &model.Node{Role: model.RoleWindow, Name: cfg.App.Name}}},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	name, _ := cmd.Flags().GetString("platform")
	if name == "" {
		name = cfg.Platform
	}

	batches := []model.TreeUpdate{emptyWindow()}
	if len(args) == 1 {
		var err error
		if batches, err = loadBatches(args[0], cmd.InOrStdin()); err != nil {
			return err
		}
	}

	rec := headless.NewRecorder()
	a, err := newAdapter(name, batches[0], rec)
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}
	defer a.Close()
	updateAll(a, batches[1:])
	rec.Reset()

	// There is no application behind a served tree, so requested actions
	// are only logged.
	go func() {
		_ = a.RunActions(cmd.Context(), model.ActionHandlerFunc(func(req model.ActionRequest) {
			logger.Info("action requested", "id", req.ID, "action", req.Action, "target", req.Target)
		}))
	}()

	return server.New(a, rec).Serve(server.Config{Transport: transport, Port: port})
}
