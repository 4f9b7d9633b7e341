package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openclimatedata/ghgdash/internal/dataset"
	"github.com/openclimatedata/ghgdash/internal/notes"
	"github.com/openclimatedata/ghgdash/internal/session"
)

// helper: fixture-backed session with an in-memory notes store
func setupTestServer(t *testing.T) (*server.MCPServer, *session.Session) {
	t.Helper()

	store := dataset.Fixture()
	noteStore, err := notes.Open(":memory:")
	if err != nil {
		t.Fatalf("opening notes store: %v", err)
	}
	t.Cleanup(func() { noteStore.Close() })

	sess, err := session.New(store, noteStore, session.DefaultConfig)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	srv := NewServer(ServerConfig{Session: sess, Store: store, Notes: noteStore, Version: "test"})
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	return srv, sess
}

// callTool invokes an MCP tool through the server's JSON-RPC entry point.
func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]interface{}) *mcplib.CallToolResult {
	t.Helper()

	raw, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	result := srv.HandleMessage(context.Background(), raw)

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}
	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}

	callResult := &mcplib.CallToolResult{IsError: resp.Result.IsError}
	for _, c := range resp.Result.Content {
		if c.Type == "text" {
			callResult.Content = append(callResult.Content, mcplib.NewTextContent(c.Text))
		}
	}
	return callResult
}

func getTextContent(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content found")
	return ""
}

func TestSelectionTool(t *testing.T) {
	srv, _ := setupTestServer(t)

	result := callTool(t, srv, "ghg_selection", map[string]interface{}{})
	text := getTextContent(t, result)

	var sel selectionPayload
	if err := json.Unmarshal([]byte(text), &sel); err != nil {
		t.Fatalf("parsing selection: %v", err)
	}
	if sel.CountryCode != "EARTH" {
		t.Errorf("default country = %q, want EARTH", sel.CountryCode)
	}
	if sel.Category != "M.0.EL" {
		t.Errorf("default category = %q, want M.0.EL", sel.Category)
	}
	if sel.Entity != "KYOTOGHG (AR6GWP100)" {
		t.Errorf("default entity = %q, want KYOTOGHG (AR6GWP100)", sel.Entity)
	}
	if len(sel.ScenarioOptions) == 0 {
		t.Error("expected non-empty source-scenario options")
	}
	if sel.SourceScenario != dataset.FixtureHISTCR {
		t.Errorf("default scenario = %q, want %q", sel.SourceScenario, dataset.FixtureHISTCR)
	}
}

func TestSelectTool(t *testing.T) {
	srv, sess := setupTestServer(t)

	result := callTool(t, srv, "ghg_select", map[string]interface{}{
		"country": "Germany",
	})
	if result.IsError {
		t.Fatalf("select failed: %s", getTextContent(t, result))
	}

	var sel selectionPayload
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &sel); err != nil {
		t.Fatalf("parsing selection: %v", err)
	}
	if sel.CountryCode != "DEU" {
		t.Errorf("country code = %q, want DEU", sel.CountryCode)
	}
	if sess.CategoryCode() != "M.0.EL" {
		t.Errorf("category changed unexpectedly to %q", sess.CategoryCode())
	}
}

func TestSelectToolUnknownOption(t *testing.T) {
	srv, _ := setupTestServer(t)

	result := callTool(t, srv, "ghg_select", map[string]interface{}{
		"country": "Atlantis",
	})
	if !result.IsError {
		t.Fatal("expected error for unknown country")
	}
}

func TestStepToolWrapsAround(t *testing.T) {
	srv, sess := setupTestServer(t)

	n := len(sess.CountryOptions())
	before := sess.CountryName()

	result := callTool(t, srv, "ghg_step", map[string]interface{}{
		"dimension": "country",
		"steps":     float64(-n),
	})
	if result.IsError {
		t.Fatalf("step failed: %s", getTextContent(t, result))
	}
	if got := sess.CountryName(); got != before {
		t.Errorf("stepping -%d countries moved selection from %q to %q", n, before, got)
	}
}

func TestStepToolAdvancesToken(t *testing.T) {
	srv, sess := setupTestServer(t)

	before := sess.Token()
	callTool(t, srv, "ghg_step", map[string]interface{}{"dimension": "entity"})
	if sess.Token() <= before {
		t.Errorf("token did not advance: %d -> %d", before, sess.Token())
	}
}

func TestChartsTool(t *testing.T) {
	srv, _ := setupTestServer(t)

	result := callTool(t, srv, "ghg_charts", map[string]interface{}{})
	text := getTextContent(t, result)

	var out map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("parsing charts payload: %v", err)
	}
	for _, key := range []string{"overview", "category_split", "entity_split"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing %q in charts payload", key)
		}
	}

	result = callTool(t, srv, "ghg_charts", map[string]interface{}{"chart": "overview"})
	out = nil
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &out); err != nil {
		t.Fatalf("parsing charts payload: %v", err)
	}
	if _, ok := out["category_split"]; ok {
		t.Error("chart=overview should not include category_split")
	}
}

func TestRelayoutToolPropagates(t *testing.T) {
	srv, _ := setupTestServer(t)

	result := callTool(t, srv, "ghg_relayout", map[string]interface{}{
		"source": "overview",
		"x0":     float64(1990),
		"x1":     float64(2010),
		"y0":     float64(0),
		"y1":     float64(100),
	})
	text := getTextContent(t, result)
	if !strings.Contains(text, "category-split") || !strings.Contains(text, "entity-split") {
		t.Errorf("expected both splits in updated list, got: %s", text)
	}
	if strings.Contains(text, `"chart": "overview"`) {
		t.Errorf("overview must not appear in its own update list, got: %s", text)
	}
}

func TestRelayoutToolNoop(t *testing.T) {
	srv, _ := setupTestServer(t)

	result := callTool(t, srv, "ghg_relayout", map[string]interface{}{
		"source": "category",
	})
	text := getTextContent(t, result)

	var out struct {
		Updated []json.RawMessage `json:"updated"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("parsing relayout payload: %v", err)
	}
	if len(out.Updated) != 0 {
		t.Errorf("no-op relayout updated %d charts, want 0", len(out.Updated))
	}
}

func TestNoteTools(t *testing.T) {
	srv, _ := setupTestServer(t)

	result := callTool(t, srv, "ghg_note_save", map[string]interface{}{
		"text": "global total looks plausible",
	})
	status := getTextContent(t, result)
	if !strings.Contains(status, "note saved") {
		t.Errorf("unexpected save status: %q", status)
	}

	// Saving again must append, not overwrite.
	callTool(t, srv, "ghg_note_save", map[string]interface{}{
		"text": "second pass, still plausible",
	})

	result = callTool(t, srv, "ghg_notes", map[string]interface{}{})
	var listed []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &listed); err != nil {
		t.Fatalf("parsing notes list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(listed))
	}
	if listed[0].Text != "global total looks plausible" {
		t.Errorf("unexpected first note: %q", listed[0].Text)
	}
}

func TestExportTool(t *testing.T) {
	srv, _ := setupTestServer(t)

	out := filepath.Join(t.TempDir(), "table.xlsx")
	result := callTool(t, srv, "ghg_export", map[string]interface{}{
		"path": out,
	})
	if result.IsError {
		t.Fatalf("export failed: %s", getTextContent(t, result))
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("exported workbook missing: %v", err)
	}
}

func TestTableTool(t *testing.T) {
	srv, _ := setupTestServer(t)

	result := callTool(t, srv, "ghg_table", map[string]interface{}{
		"from_year": float64(2000),
		"to_year":   float64(2005),
	})
	text := getTextContent(t, result)

	if !strings.HasPrefix(strings.SplitN(text, "\n", 3)[1], "year") {
		t.Errorf("missing year header row: %s", text)
	}
	if !strings.Contains(text, "2000") {
		t.Errorf("expected year 2000 in table, got: %s", text)
	}
	if strings.Contains(text, "\n1999\t") {
		t.Errorf("year outside window leaked into table: %s", text)
	}
}
