package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openclimatedata/ghgdash/internal/dataset"
	"github.com/openclimatedata/ghgdash/internal/export"
	"github.com/openclimatedata/ghgdash/internal/notes"
	"github.com/openclimatedata/ghgdash/internal/session"
)

func registerTableTool(s *server.MCPServer, sess *session.Session, store *dataset.Store) {
	tool := mcp.NewTool("ghg_table",
		mcp.WithDescription("Tabular view of the current selection: one row per year, one column per available source-scenario. Rows where every scenario is missing are dropped."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithNumber("from_year", mcp.Description("First year to include (default: full range)")),
		mcp.WithNumber("to_year", mcp.Description("Last year to include (default: full range)")),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		tbl, err := store.Table(sess.Entity(), sess.CountryCode(), sess.CategoryCode(), sess.ScenarioOptions())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("table error: %v", err)), nil
		}

		fromYear := math.Inf(-1)
		toYear := math.Inf(1)
		if v, err := req.RequireFloat("from_year"); err == nil {
			fromYear = v
		}
		if v, err := req.RequireFloat("to_year"); err == nil {
			toYear = v
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s, %s, %s [%s]\n", tbl.Entity, tbl.Area, tbl.Category, tbl.Unit)
		b.WriteString("year")
		for _, sc := range tbl.Scenarios {
			b.WriteString("\t" + sc)
		}
		b.WriteString("\n")
		for i, year := range tbl.Years {
			if float64(year) < fromYear || float64(year) > toYear {
				continue
			}
			fmt.Fprintf(&b, "%d", year)
			for _, v := range tbl.Values[i] {
				if math.IsNaN(v) {
					b.WriteString("\t")
				} else {
					fmt.Fprintf(&b, "\t%.6g", v)
				}
			}
			b.WriteString("\n")
		}
		return mcp.NewToolResultText(b.String()), nil
	})
}

func registerExportTool(s *server.MCPServer, sess *session.Session, store *dataset.Store) {
	tool := mcp.NewTool("ghg_export",
		mcp.WithDescription("Export the current selection's data table to an XLSX workbook on disk."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("path",
			mcp.Description("Output file path (default: ghgdash-<area>-<category>.xlsx in the working directory)"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		tbl, err := store.Table(sess.Entity(), sess.CountryCode(), sess.CategoryCode(), sess.ScenarioOptions())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export error: %v", err)), nil
		}

		path, _ := req.RequireString("path")
		if path == "" {
			path = fmt.Sprintf("ghgdash-%s-%s.xlsx", sess.CountryCode(), sess.CategoryCode())
		}
		if err := export.WriteXLSX(path, tbl); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export error: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("wrote %s (%s, %s, %s; %d years, %d scenarios)",
			path, tbl.Entity, tbl.Area, tbl.Category, len(tbl.Years), len(tbl.Scenarios))), nil
	})
}

func registerNoteSaveTool(s *server.MCPServer, sess *session.Session) {
	tool := mcp.NewTool("ghg_note_save",
		mcp.WithDescription("Save a note for the current selection (country, category, entity). Notes are append-only: saving again for the same selection adds a new note and keeps the old ones."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Note text"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		u, err := sess.Handle(ctx, session.SaveNote{Text: text})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("note error: %v", err)), nil
		}
		return mcp.NewToolResultText(u.NoteStatus), nil
	})
}

func registerNotesTool(s *server.MCPServer, noteStore *notes.Store) {
	tool := mcp.NewTool("ghg_notes",
		mcp.WithDescription("List all saved notes, oldest first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		all, err := noteStore.ReadAll(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("notes error: %v", err)), nil
		}
		if len(all) == 0 {
			return mcp.NewToolResultText("No notes saved yet."), nil
		}

		type noteOut struct {
			ID        int64  `json:"id"`
			Country   string `json:"country"`
			Category  string `json:"category"`
			Entity    string `json:"entity"`
			Text      string `json:"text"`
			CreatedAt string `json:"created_at"`
		}
		out := make([]noteOut, 0, len(all))
		for _, n := range all {
			out = append(out, noteOut{
				ID:        n.ID,
				Country:   n.Country,
				Category:  n.Category,
				Entity:    n.Entity,
				Text:      n.Text,
				CreatedAt: n.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			})
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}
