// Package mcp implements a Model Context Protocol (MCP) server for revet using the mcp-go library.
//
// The server exposes the review engine to AI assistants over stdio
// (JSON-RPC 2.0): one tool to review a file against the pattern
// registries and available external scanners, and one to inspect the
// probed scanner table.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"revet/internal/config"
	"revet/internal/finding"
	"revet/internal/logging"
	"revet/internal/review"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Server represents an MCP server instance using mcp-go
type Server struct {
	config    *config.Config
	logger    *logging.AppLogger
	reviewer  *review.Reviewer
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance. The reviewer carries the
// probed scanner table; probing happened at construction, before the
// server accepts any request.
func NewServer(cfg *config.Config, logger *logging.AppLogger, reviewer *review.Reviewer) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		reviewer: reviewer,
	}
}

// Start initializes the MCP server and serves on stdio until the client
// disconnects.
func (s *Server) Start() error {
	s.logger.Info("Initializing MCP server", "root", s.reviewer.Root())

	s.mcpServer = server.NewMCPServer(
		"revet",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.mcpServer.AddTool(s.reviewFileTool(), s.handleReviewFile)
	s.mcpServer.AddTool(s.listScannersTool(), s.handleListScanners)

	s.logger.Info("MCP server created, starting stdio communication")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the MCP server
func (s *Server) Stop() error {
	s.logger.Info("Stopping MCP server")
	// The mcp-go server handles cleanup when the stdio transport closes
	return nil
}

func (s *Server) reviewFileTool() mcp.Tool {
	return mcp.NewTool("review_file",
		mcp.WithDescription("Review a source file with pattern-based static analysis and any installed external scanners. Returns findings ordered by severity and a pass/fail verdict."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path of the file to review, relative to the project root"),
		),
		mcp.WithString("content",
			mcp.Description("File content to review. When omitted, the file is read from disk"),
		),
		mcp.WithBoolean("include_external",
			mcp.Description("Run external scanners in addition to pattern rules (default true)"),
		),
		mcp.WithString("severity_threshold",
			mcp.Description("Minimum severity that fails the review: critical, high, medium or low"),
		),
	)
}

func (s *Server) handleReviewFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	filePath, ok := args["file_path"].(string)
	if !ok || filePath == "" {
		return mcp.NewToolResultError("file_path is required"), nil
	}

	content, _ := args["content"].(string)

	includeExternal := true
	if v, ok := args["include_external"].(bool); ok {
		includeExternal = v
	}

	threshold := s.config.Threshold
	if raw, ok := args["severity_threshold"].(string); ok && raw != "" {
		parsed, err := finding.ParseSeverity(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		threshold = parsed
	}

	s.logger.Debug("Handling review_file",
		"file", filePath,
		"include_external", includeExternal,
		"threshold", threshold,
	)

	report, err := s.reviewer.ReviewFile(ctx, filePath, content, review.Options{
		IncludeExternal: includeExternal,
		Threshold:       threshold,
	})
	if err != nil {
		// Invalid requests (escaping path, unreadable file) are tool
		// errors for the client, not protocol failures.
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) listScannersTool() mcp.Tool {
	return mcp.NewTool("list_scanners",
		mcp.WithDescription("List the known external scanners and whether each is installed and usable on this host."),
	)
}

type scannerStatus struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
}

func (s *Server) handleListScanners(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var statuses []scannerStatus
	for _, sc := range s.reviewer.Scanners() {
		statuses = append(statuses, scannerStatus{
			Name:      sc.Tool.Name(),
			Command:   sc.Tool.Command(),
			Available: sc.Available,
		})
	}

	payload, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding scanner table: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
