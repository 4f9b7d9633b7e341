package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openclimatedata/ghgdash/internal/session"
)

func registerSelectionResource(s *server.MCPServer, sess *session.Session) {
	resource := mcp.NewResource(
		"ghgdash://selection",
		"Current Selection",
		mcp.WithResourceDescription("The explorer's current selection and all option lists as JSON."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sessionMu.Lock()
		defer sessionMu.Unlock()

		data, err := json.MarshalIndent(snapshotSelection(sess), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling selection resource: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
