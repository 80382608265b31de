package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// Auditor runs a live audit restricted to the given implementation ids.
// An empty list audits the whole registry.
type Auditor func(ctx context.Context, ids []string) (*domain.AuditReport, error)

// NewCarouselAuditMCPServer creates an MCP server exposing the auditor's tools
// and resources. configPath locates .carouselaudit.yaml; audit may be nil, in
// which case carouselaudit_run reports that live audits are unavailable.
func NewCarouselAuditMCPServer(configPath string, audit Auditor) *server.MCPServer {
	s := server.NewMCPServer(
		"carouselaudit",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, configPath, audit)
	registerResources(s, configPath)

	return s
}
