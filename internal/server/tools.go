package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	// tree
	s.mcp.AddTool(
		mcp.NewTool("tree",
			mcp.WithDescription("Show the current accessibility tree as abstract nodes. Returns ids, roles, names, and values."),
			mcp.WithBoolean("flat", mcp.Description("Return a flat list with path breadcrumbs instead of a nested tree")),
			mcp.WithString("roles", mcp.Description("Comma-separated roles or meta-roles (interactive, text) to keep; implies flat")),
		),
		s.handleTree,
	)

	// node
	s.mcp.AddTool(
		mcp.NewTool("node",
			mcp.WithDescription("Describe a node as the native platform sees it: role, parent, children, device bounds, and platform properties"),
			mcp.WithNumber("handle", mcp.Description("Platform handle (default: root)")),
			mcp.WithString("property", mcp.Description("Return only this platform property")),
		),
		s.handleNode,
	)

	// children
	s.mcp.AddTool(
		mcp.NewTool("children",
			mcp.WithDescription("List the handles and roles of a node's children in order"),
			mcp.WithNumber("handle", mcp.Description("Platform handle (default: root)")),
		),
		s.handleChildren,
	)

	// hit_test
	s.mcp.AddTool(
		mcp.NewTool("hit_test",
			mcp.WithDescription("Find the deepest visible node at a device pixel"),
			mcp.WithNumber("x", mcp.Description("Device X coordinate"), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Device Y coordinate"), mcp.Required()),
			mcp.WithNumber("handle", mcp.Description("Start the search at this handle (default: root)")),
		),
		s.handleHitTest,
	)

	// text
	s.mcp.AddTool(
		mcp.NewTool("text",
			mcp.WithDescription("Query a node's text in platform offsets: the unit enclosing an offset, or the offset after moving by units"),
			mcp.WithNumber("handle", mcp.Description("Platform handle"), mcp.Required()),
			mcp.WithNumber("offset", mcp.Description("Offset in the platform's text encoding (default: 0)")),
			mcp.WithString("unit", mcp.Description("Unit: character, word, line, document (default: word)")),
			mcp.WithNumber("move", mcp.Description("Move by this many units instead of returning a range")),
		),
		s.handleText,
	)

	// focus
	s.mcp.AddTool(
		mcp.NewTool("focus",
			mcp.WithDescription("Return the focused node, if any"),
		),
		s.handleFocus,
	)

	// action
	s.mcp.AddTool(
		mcp.NewTool("action",
			mcp.WithDescription("Request an action on a node as an assistive technology would (focus, blur, default, setValue, setNumericValue, increment, decrement, expand, collapse, scrollIntoView, setTextSelection, showContextMenu)"),
			mcp.WithNumber("handle", mcp.Description("Platform handle"), mcp.Required()),
			mcp.WithString("action", mcp.Description("Action to request"), mcp.Required()),
			mcp.WithString("value", mcp.Description("Value for setValue")),
			mcp.WithNumber("number", mcp.Description("Value for setNumericValue")),
			mcp.WithNumber("anchor", mcp.Description("Selection anchor for setTextSelection, in characters")),
			mcp.WithNumber("focus", mcp.Description("Selection focus for setTextSelection, in characters")),
		),
		s.handleAction,
	)

	// update
	s.mcp.AddTool(
		mcp.NewTool("update",
			mcp.WithDescription("Apply a tree update given as YAML (nodes, patches, deleted, tree, focus) and raise its notifications"),
			mcp.WithString("update", mcp.Description("TreeUpdate document in YAML or JSON"), mcp.Required()),
		),
		s.handleUpdate,
	)

	// window_focus
	s.mcp.AddTool(
		mcp.NewTool("window_focus",
			mcp.WithDescription("Tell the adapter whether the host window has keyboard focus"),
			mcp.WithBoolean("focused", mcp.Description("Window focus state"), mcp.Required()),
		),
		s.handleWindowFocus,
	)

	// events
	s.mcp.AddTool(
		mcp.NewTool("events",
			mcp.WithDescription("Return and clear the native events raised since the last call"),
		),
		s.handleEvents,
	)

	// stats
	s.mcp.AddTool(
		mcp.NewTool("stats",
			mcp.WithDescription("Summarize tree version, node and handle counts, action queue, and notification totals"),
		),
		s.handleStats,
	)
}
