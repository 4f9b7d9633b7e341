// Package mcp exposes one explorer session over the Model Context Protocol:
// selection and stepping tools, the three chart specifications, legend and
// axis-range events, the tabular view, and the notes recorder. Transport is
// stdio; one server process owns one session.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openclimatedata/ghgdash/internal/dataset"
	"github.com/openclimatedata/ghgdash/internal/notes"
	"github.com/openclimatedata/ghgdash/internal/session"
	"github.com/openclimatedata/ghgdash/internal/viewsync"
)

// ServerConfig holds the collaborators of the MCP server.
type ServerConfig struct {
	Session *session.Session
	Store   *dataset.Store
	Notes   *notes.Store
	Version string
}

// sessionMu serializes tool calls. The mcp-go library dispatches handlers
// concurrently via goroutines, but the session's event model requires each
// interaction to be handled to completion before the next starts.
var sessionMu sync.Mutex

// NewServer creates the MCP server with all explorer tools and resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"ghgdash",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerSelectionTool(s, cfg.Session)
	registerSelectTool(s, cfg.Session)
	registerStepTool(s, cfg.Session)
	registerChartsTool(s, cfg.Session)
	registerLegendTool(s, cfg.Session)
	registerRelayoutTool(s, cfg.Session)
	registerTableTool(s, cfg.Session, cfg.Store)
	registerExportTool(s, cfg.Session, cfg.Store)
	registerNoteSaveTool(s, cfg.Session)
	if cfg.Notes != nil {
		registerNotesTool(s, cfg.Notes)
	}

	registerSelectionResource(s, cfg.Session)
	return s
}

// selectionPayload is the JSON shape of the current selection and its option
// lists.
type selectionPayload struct {
	Country         string   `json:"country"`
	CountryCode     string   `json:"country_code"`
	Category        string   `json:"category"`
	Entity          string   `json:"entity"`
	SourceScenario  string   `json:"source_scenario"`
	CountryOptions  []string `json:"country_options"`
	CategoryOptions []string `json:"category_options"`
	EntityOptions   []string `json:"entity_options"`
	ScenarioOptions []string `json:"source_scenario_options"`
	Token           uint64   `json:"token"`
}

func snapshotSelection(sess *session.Session) selectionPayload {
	return selectionPayload{
		Country:         sess.CountryName(),
		CountryCode:     sess.CountryCode(),
		Category:        sess.CategoryCode(),
		Entity:          sess.Entity(),
		SourceScenario:  sess.Scenario(),
		CountryOptions:  sess.CountryOptions(),
		CategoryOptions: sess.CategoryOptions(),
		EntityOptions:   sess.EntityOptions(),
		ScenarioOptions: sess.ScenarioOptions(),
		Token:           sess.Token(),
	}
}

func registerSelectionTool(s *server.MCPServer, sess *session.Session) {
	tool := mcp.NewTool("ghg_selection",
		mcp.WithDescription("Read the current selection (country, category, entity, source-scenario) and all option lists."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		data, _ := json.MarshalIndent(snapshotSelection(sess), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerSelectTool(s *server.MCPServer, sess *session.Session) {
	tool := mcp.NewTool("ghg_select",
		mcp.WithDescription("Change the selection. Any combination of country (display name), category code, entity, and source-scenario; omitted dimensions keep their current value. Source-scenario options are refreshed automatically."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("country", mcp.Description("Country display name, e.g. 'Germany'")),
		mcp.WithString("category", mcp.Description("Category code, e.g. 'M.0.EL'")),
		mcp.WithString("entity", mcp.Description("Entity name, e.g. 'CO2' or 'KYOTOGHG (AR6GWP100)'")),
		mcp.WithString("source_scenario", mcp.Description("Source-scenario label, e.g. 'PRIMAP-hist v2.5, HISTCR'")),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		country, category, entity := sess.CountryName(), sess.CategoryCode(), sess.Entity()
		scenario := sess.Scenario()
		if v, err := req.RequireString("country"); err == nil && v != "" {
			country = v
		}
		if v, err := req.RequireString("category"); err == nil && v != "" {
			category = v
		}
		if v, err := req.RequireString("entity"); err == nil && v != "" {
			entity = v
		}
		if v, err := req.RequireString("source_scenario"); err == nil && v != "" {
			scenario = v
		}

		if err := sess.SetAll(country, category, entity, scenario); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("select error: %v", err)), nil
		}
		data, _ := json.MarshalIndent(snapshotSelection(sess), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStepTool(s *server.MCPServer, sess *session.Session) {
	tool := mcp.NewTool("ghg_step",
		mcp.WithDescription("Step one dropdown forward or backward with wraparound, like the explorer's arrow buttons."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("dimension",
			mcp.Required(),
			mcp.Description("Which dropdown to step"),
			mcp.Enum("country", "category", "entity"),
		),
		mcp.WithNumber("steps",
			mcp.Description("Number of steps; negative steps backward (default: 1)"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		dim, err := req.RequireString("dimension")
		if err != nil {
			return mcp.NewToolResultError("dimension is required"), nil
		}
		steps := 1
		if v, err := req.RequireFloat("steps"); err == nil && v != 0 {
			steps = int(v)
		}

		var ev session.Event
		switch dim {
		case "country":
			ev = session.StepCountry{Steps: steps}
		case "category":
			ev = session.StepCategory{Steps: steps}
		case "entity":
			ev = session.StepEntity{Steps: steps}
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown dimension %q", dim)), nil
		}
		if _, err := sess.Handle(ctx, ev); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("step error: %v", err)), nil
		}
		data, _ := json.MarshalIndent(snapshotSelection(sess), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerChartsTool(s *server.MCPServer, sess *session.Session) {
	tool := mcp.NewTool("ghg_charts",
		mcp.WithDescription("Build the chart specifications for the current selection: scenario overview, category breakdown, and entity (gas) breakdown."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("chart",
			mcp.Description("Limit output to one chart (default: all three)"),
			mcp.Enum("overview", "category", "entity"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		u, err := sess.Rebuild()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("chart error: %v", err)), nil
		}

		out := map[string]interface{}{"token": u.Token}
		which, _ := req.RequireString("chart")
		if which == "" || which == "overview" {
			out["overview"] = u.Overview
		}
		if which == "" || which == "category" {
			out["category_split"] = u.CategorySplit
		}
		if which == "" || which == "entity" {
			out["entity_split"] = u.EntitySplit
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerLegendTool(s *server.MCPServer, sess *session.Session) {
	tool := mcp.NewTool("ghg_legend_toggle",
		mcp.WithDescription("Toggle one overview line's visibility. Visibility is independent of the selection and survives selection changes."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("line",
			mcp.Required(),
			mcp.Description("Source-scenario name of the line"),
		),
		mcp.WithBoolean("visible",
			mcp.Description("New visibility (default: false, i.e. hide)"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		line, err := req.RequireString("line")
		if err != nil {
			return mcp.NewToolResultError("line is required"), nil
		}
		visible := false
		if v, err := req.RequireString("visible"); err == nil && v == "true" {
			visible = true
		}
		u, err := sess.Handle(ctx, session.ToggleLine{Line: line, Visible: visible})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("toggle error: %v", err)), nil
		}
		data, _ := json.MarshalIndent(u.Overview, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerRelayoutTool(s *server.MCPServer, sess *session.Session) {
	tool := mcp.NewTool("ghg_relayout",
		mcp.WithDescription("Report a pan/zoom/reset on one chart and propagate the view window to its siblings. Omitting every range and autorange is a no-op, as for drag-mode toggles."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Chart the user interacted with"),
			mcp.Enum("overview", "category", "entity"),
		),
		mcp.WithNumber("x0", mcp.Description("New x-range start (year)")),
		mcp.WithNumber("x1", mcp.Description("New x-range end (year)")),
		mcp.WithNumber("y0", mcp.Description("New y-range lower bound")),
		mcp.WithNumber("y1", mcp.Description("New y-range upper bound")),
		mcp.WithBoolean("autorange", mcp.Description("Reset the source chart to autorange")),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		srcName, err := req.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError("source is required"), nil
		}
		var src viewsync.Chart
		switch srcName {
		case "overview":
			src = viewsync.Overview
		case "category":
			src = viewsync.CategorySplit
		case "entity":
			src = viewsync.EntitySplit
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown chart %q", srcName)), nil
		}

		change := viewsync.Relayout{}
		x0, errX0 := req.RequireFloat("x0")
		x1, errX1 := req.RequireFloat("x1")
		if errX0 == nil && errX1 == nil {
			change.XRange = &[2]float64{x0, x1}
		}
		y0, errY0 := req.RequireFloat("y0")
		y1, errY1 := req.RequireFloat("y1")
		if errY0 == nil && errY1 == nil {
			change.YRange = &[2]float64{y0, y1}
		}
		if v, err := req.RequireString("autorange"); err == nil && v == "true" {
			change.Autorange = true
		}

		u, err := sess.Handle(ctx, session.Relayout{Source: src, Change: change})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("relayout error: %v", err)), nil
		}

		type rangeInfo struct {
			Chart string      `json:"chart"`
			X     *[2]float64 `json:"x,omitempty"`
			Y     *[2]float64 `json:"y,omitempty"`
			Auto  bool        `json:"autorange"`
		}
		out := struct {
			Updated []rangeInfo `json:"updated"`
		}{Updated: []rangeInfo{}}
		for _, c := range u.RangesChanged {
			r := sess.Ranges().Get(c)
			out.Updated = append(out.Updated, rangeInfo{
				Chart: c.String(), X: r.X, Y: r.Y, Auto: r.Auto,
			})
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}
