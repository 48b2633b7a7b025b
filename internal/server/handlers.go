package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/projector"
	"github.com/mj1618/a11y-bridge/internal/registry"
	"github.com/mj1618/a11y-bridge/internal/text"
	"github.com/mj1618/a11y-bridge/internal/tree"
)

// resultToText serializes a tool result to YAML for the MCP response.
func resultToText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

func toolResult(v interface{}, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultToText(v)), nil
}

// NodeResult is a node as one platform exposes it.
type NodeResult struct {
	Handle     registry.Handle           `yaml:"handle"               json:"handle"`
	ID         model.NodeID              `yaml:"id"                   json:"id"`
	Role       platform.NativeRole       `yaml:"role"                 json:"role"`
	Parent     registry.Handle           `yaml:"parent,omitempty"     json:"parent,omitempty"`
	Index      int                       `yaml:"index"                json:"index"`
	Children   int                       `yaml:"children,omitempty"   json:"children,omitempty"`
	Focused    bool                      `yaml:"focused,omitempty"    json:"focused,omitempty"`
	Bounds     *platform.DeviceRect      `yaml:"bounds,omitempty"     json:"bounds,omitempty"`
	Properties []platform.NativeProperty `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// ChildResult is one entry of the children tool.
type ChildResult struct {
	Handle registry.Handle `yaml:"handle" json:"handle"`
	Role   string          `yaml:"role"   json:"role"`
	Name   string          `yaml:"name,omitempty" json:"name,omitempty"`
}

// TextResult answers the text tool.
type TextResult struct {
	Handle   registry.Handle `yaml:"handle"          json:"handle"`
	Length   int             `yaml:"length"          json:"length"`
	Unit     string          `yaml:"unit"            json:"unit"`
	Range    *TextRange      `yaml:"range,omitempty" json:"range,omitempty"`
	Offset   *int            `yaml:"offset,omitempty" json:"offset,omitempty"`
	Moved    *int            `yaml:"moved,omitempty" json:"moved,omitempty"`
	Encoding string          `yaml:"encoding"        json:"encoding"`
}

// TextRange mirrors projector.TextRange for output.
type TextRange struct {
	Start int    `yaml:"start" json:"start"`
	End   int    `yaml:"end"   json:"end"`
	Text  string `yaml:"text"  json:"text"`
}

// UpdateResult answers the update and window_focus tools.
type UpdateResult struct {
	Version uint64   `yaml:"version"          json:"version"`
	Sent    int      `yaml:"sent"             json:"sent"`
	Failed  int      `yaml:"failed,omitempty" json:"failed,omitempty"`
	Errors  []string `yaml:"errors,omitempty" json:"errors,omitempty"`
}

var encodingNames = map[text.Encoding]string{
	text.EncodingCharacters: "characters",
	text.EncodingCodePoints: "code-points",
	text.EncodingUTF16:      "utf-16",
	text.EncodingBytes:      "bytes",
}

// Describe collects what platform p exposes about h.
func Describe(p *projector.Projector, h registry.Handle) (NodeResult, error) {
	view, err := p.View(h)
	if err != nil {
		return NodeResult{}, err
	}
	role, err := p.Role(h)
	if err != nil {
		return NodeResult{}, err
	}
	props, err := p.Properties(h)
	if err != nil {
		return NodeResult{}, err
	}
	return NodeResult{
		Handle:     h,
		ID:         view.ID,
		Role:       role,
		Parent:     view.Parent,
		Index:      view.Index,
		Children:   view.ChildCount,
		Focused:    view.Focused,
		Bounds:     view.Bounds,
		Properties: props,
	}, nil
}

// target resolves the optional handle argument, defaulting to the root.
func (s *Server) target(params map[string]interface{}) (registry.Handle, error) {
	h, ok, err := handleParam(params, "handle")
	if err != nil || ok {
		return h, err
	}
	return s.adapter.Projector().Root()
}

func (s *Server) handleTree(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	snap := s.adapter.Snapshot()
	result := output.InspectResult{
		Version: snap.Version(),
		Root:    snap.Root(),
		Focus:   snap.Focus(),
		Count:   snap.Len(),
	}

	roleNames := listParam(params, "roles")
	if boolParam(params, "flat", false) || len(roleNames) > 0 {
		nodes := tree.Flatten(snap)
		if len(roleNames) > 0 {
			roles, err := model.ExpandRoles(roleNames)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			nodes = tree.FilterFlat(nodes, roles, nil)
		}
		result.Nodes = nodes
		return toolResult(result, nil)
	}

	if nested, ok := tree.Nest(snap, snap.Root()); ok {
		result.Tree = &nested
	}
	return toolResult(result, nil)
}

func (s *Server) handleNode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	h, err := s.target(params)
	if err != nil {
		return toolResult(nil, err)
	}
	proj := s.adapter.Projector()

	if name := stringParam(params, "property", ""); name != "" {
		return toolResult(proj.Property(h, name))
	}

	return toolResult(Describe(proj, h))
}

func (s *Server) handleChildren(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, err := s.target(request.GetArguments())
	if err != nil {
		return toolResult(nil, err)
	}
	proj := s.adapter.Projector()
	handles, err := proj.Children(h)
	if err != nil {
		return toolResult(nil, err)
	}
	children := make([]ChildResult, 0, len(handles))
	for _, c := range handles {
		role, err := proj.Role(c)
		if err != nil {
			return toolResult(nil, err)
		}
		_, n, err := proj.Node(c)
		if err != nil {
			return toolResult(nil, err)
		}
		children = append(children, ChildResult{Handle: c, Role: role.Name, Name: n.Name})
	}
	return toolResult(children, nil)
}

func (s *Server) handleHitTest(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	x, okX := floatParam(params, "x")
	y, okY := floatParam(params, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}
	h, err := s.target(params)
	if err != nil {
		return toolResult(nil, err)
	}
	hit, err := s.adapter.Projector().HitTest(h, platform.DevicePoint{X: int(x), Y: int(y)})
	if err != nil {
		return toolResult(nil, err)
	}
	return s.handleNode(context.Background(), withHandle(hit))
}

func withHandle(h registry.Handle) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "node"
	req.Params.Arguments = map[string]interface{}{"handle": float64(h)}
	return req
}

func (s *Server) handleText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	h, ok, err := handleParam(params, "handle")
	if err != nil {
		return toolResult(nil, err)
	}
	if !ok {
		return mcp.NewToolResultError("handle is required"), nil
	}
	unit, err := text.ParseUnit(stringParam(params, "unit", "word"))
	if err != nil {
		return toolResult(nil, err)
	}
	offset := intParam(params, "offset", 0)
	proj := s.adapter.Projector()

	length, err := proj.TextLength(h)
	if err != nil {
		return toolResult(nil, err)
	}
	result := TextResult{
		Handle:   h,
		Length:   length,
		Unit:     unit.String(),
		Encoding: encodingNames[s.adapter.Platform().Encoding()],
	}
	if _, move := params["move"]; move {
		pos, moved, err := proj.MoveText(h, offset, unit, intParam(params, "move", 0))
		if err != nil {
			return toolResult(nil, err)
		}
		result.Offset, result.Moved = &pos, &moved
		return toolResult(result, nil)
	}
	r, err := proj.TextRangeAt(h, offset, unit)
	if err != nil {
		return toolResult(nil, err)
	}
	result.Range = &TextRange{Start: r.Start, End: r.End, Text: r.Text}
	return toolResult(result, nil)
}

func (s *Server) handleFocus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, ok, err := s.adapter.Projector().Focus()
	if err != nil {
		return toolResult(nil, err)
	}
	if !ok {
		return mcp.NewToolResultText("focused: false\n"), nil
	}
	return s.handleNode(ctx, withHandle(h))
}

func (s *Server) handleAction(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	h, ok, err := handleParam(params, "handle")
	if err != nil {
		return toolResult(nil, err)
	}
	if !ok {
		return mcp.NewToolResultError("handle is required"), nil
	}
	act, err := model.ParseAction(stringParam(params, "action", ""))
	if err != nil {
		return toolResult(nil, err)
	}

	var data model.ActionData
	if _, present := params["value"]; present {
		v := stringParam(params, "value", "")
		data.Value = &v
	}
	if n, present := floatParam(params, "number"); present {
		data.NumericValue = &n
	}
	if _, present := params["anchor"]; present {
		anchor := intParam(params, "anchor", 0)
		data.TextSelection = &model.TextSelection{Anchor: anchor, Focus: intParam(params, "focus", anchor)}
	}
	return toolResult(s.adapter.Request(h, act, data))
}

func (s *Server) handleUpdate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := stringParam(request.GetArguments(), "update", "")
	var u model.TreeUpdate
	if err := yaml.Unmarshal([]byte(doc), &u); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse update: %s", err)), nil
	}
	report, err := s.adapter.Update(u)
	if err != nil {
		return toolResult(nil, err)
	}
	return toolResult(s.updateResult(report.Sent, report.Failed, report.Errors), nil)
}

func (s *Server) handleWindowFocus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report := s.adapter.SetWindowFocused(boolParam(request.GetArguments(), "focused", true))
	return toolResult(s.updateResult(report.Sent, report.Failed, report.Errors), nil)
}

func (s *Server) updateResult(sent, failed int, errs []error) UpdateResult {
	r := UpdateResult{Version: s.adapter.Snapshot().Version(), Sent: sent, Failed: failed}
	for _, err := range errs {
		r.Errors = append(r.Errors, err.Error())
	}
	return r
}

func (s *Server) handleEvents(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.recorder == nil {
		return mcp.NewToolResultError("events are not recorded by this server"), nil
	}
	evs := s.recorder.Drain()
	if evs == nil {
		evs = []platform.NativeEvent{}
	}
	return toolResult(evs, nil)
}

func (s *Server) handleStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.adapter.Stats(), nil)
}
