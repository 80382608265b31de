package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/config"
	"github.com/abdidvp/carouselaudit/internal/application"
)

// registerTools registers the carouselaudit MCP tools on the given server.
func registerTools(s *server.MCPServer, configPath string, audit Auditor) {
	// 1. carouselaudit_inspect_markup
	s.AddTool(
		mcplib.NewTool("carouselaudit_inspect_markup",
			mcplib.WithDescription("Detect carousel structure in raw HTML and score it against the WCAG 2.1 AA carousel rubric. No browser is needed."),
			mcplib.WithString("html",
				mcplib.Required(),
				mcplib.Description("Markup of the page or the carousel section"),
			),
			mcplib.WithString("section",
				mcplib.Description("CSS selector of the section to inspect (defaults to the configured section_selector)"),
			),
		),
		handleInspectMarkup(configPath),
	)

	// 2. carouselaudit_run
	s.AddTool(
		mcplib.NewTool("carouselaudit_run",
			mcplib.WithDescription("Run a live audit against the rendering site and return the full report as JSON"),
			mcplib.WithString("targets",
				mcplib.Description("Comma-separated implementation ids to audit (default: all registered)"),
			),
		),
		handleRun(audit),
	)
}

func handleInspectMarkup(configPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		markup, err := request.RequireString("html")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		section, _ := request.GetArguments()["section"].(string)
		if section == "" {
			cfg, err := config.New().Load(configPath)
			if err != nil {
				return errorResult(fmt.Sprintf("loading config: %v", err)), nil
			}
			section = cfg.SectionSelector
		}

		report, err := application.InspectMarkup(markup, section)
		if err != nil {
			return errorResult(fmt.Sprintf("inspection failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleRun(audit Auditor) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if audit == nil {
			return errorResult("live audits are not available in this server"), nil
		}

		var ids []string
		if raw, _ := request.GetArguments()["targets"].(string); raw != "" {
			ids = strings.Split(raw, ",")
		}

		report, err := audit(ctx, ids)
		if report == nil {
			return errorResult(fmt.Sprintf("audit failed: %v", err)), nil
		}
		if err != nil {
			// interrupted runs still carry the targets that finished
			res, jerr := jsonResult(report)
			if jerr != nil {
				return nil, jerr
			}
			res.IsError = true
			return res, nil
		}
		return jsonResult(report)
	}
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
