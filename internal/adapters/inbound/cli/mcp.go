package cli

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/abdidvp/carouselaudit/internal/adapters/inbound/mcp"
	"github.com/abdidvp/carouselaudit/internal/domain"
	applog "github.com/abdidvp/carouselaudit/internal/log"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the carouselaudit MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the carouselaudit MCP server (stdio)",
		Long:  "Start the MCP server on stdio so AI assistants can inspect markup, read the rubric and run live audits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, so logs go to stderr as JSON
			logw := cmd.ErrOrStderr()
			run := func(ctx context.Context, ids []string) (*domain.AuditReport, error) {
				return audit(ctx, configPath, ids, logw, applog.FormatJSON)
			}
			s := mcpadapter.NewCarouselAuditMCPServer(configPath, run)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", ".", "Config file or directory containing .carouselaudit.yaml")

	return cmd
}
