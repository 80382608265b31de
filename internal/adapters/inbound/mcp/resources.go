package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/config"
	"github.com/abdidvp/carouselaudit/internal/domain/scoring"
)

// registerResources registers the carouselaudit MCP resources on the given server.
func registerResources(s *server.MCPServer, configPath string) {
	// 1. carouselaudit://rubric - scoring criteria in evaluation order
	s.AddResource(
		mcplib.NewResource(
			"carouselaudit://rubric",
			"Rubric",
			mcplib.WithResourceDescription("The binary criteria a carousel is scored against"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRubricResource(),
	)

	// 2. carouselaudit://config - effective configuration
	s.AddResource(
		mcplib.NewResource(
			"carouselaudit://config",
			"Configuration",
			mcplib.WithResourceDescription("Effective audit configuration, defaults merged with .carouselaudit.yaml"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(configPath),
	)
}

func handleRubricResource() server.ResourceHandlerFunc {
	return func(_ context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return jsonContents(req.Params.URI, scoring.Criteria())
	}
}

func handleConfigResource(configPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := config.New().Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return jsonContents(req.Params.URI, cfg)
	}
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
