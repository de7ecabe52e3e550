package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	domainAnalytics "github.com/qualens/qualens/domains/analytics"
	domainAnomaly "github.com/qualens/qualens/domains/anomaly"
	domainConnection "github.com/qualens/qualens/domains/connection"
	domainProfiling "github.com/qualens/qualens/domains/profiling"
	domainValidation "github.com/qualens/qualens/domains/validation"
)

// QueryHandler exposes read-only quality data to AI agents. All tools are
// read-only: the MCP surface never mutates connections, rules or schedules.
type QueryHandler struct {
	connectionService domainConnection.IConnectionUsecase
	analyticsService  domainAnalytics.IAnalyticsUsecase
	profilingService  domainProfiling.IProfilingUsecase
	anomalyService    domainAnomaly.IAnomalyUsecase
	validationService domainValidation.IValidationUsecase
}

func InitMcpQuery(
	connectionService domainConnection.IConnectionUsecase,
	analyticsService domainAnalytics.IAnalyticsUsecase,
	profilingService domainProfiling.IProfilingUsecase,
	anomalyService domainAnomaly.IAnomalyUsecase,
	validationService domainValidation.IValidationUsecase,
) *QueryHandler {
	return &QueryHandler{
		connectionService: connectionService,
		analyticsService:  analyticsService,
		profilingService:  profilingService,
		anomalyService:    anomalyService,
		validationService: validationService,
	}
}

func (h *QueryHandler) AddQueryTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(h.toolListConnections(), h.handleListConnections)
	mcpServer.AddTool(h.toolQualityScore(), h.handleQualityScore)
	mcpServer.AddTool(h.toolTableProfile(), h.handleTableProfile)
	mcpServer.AddTool(h.toolListAnomalies(), h.handleListAnomalies)
	mcpServer.AddTool(h.toolValidationSummary(), h.handleValidationSummary)
}

func (h *QueryHandler) toolListConnections() mcp.Tool {
	return mcp.NewTool(
		"qualens_list_connections",
		mcp.WithDescription("List all monitored database connections with their health status."),
		mcp.WithTitleAnnotation("List Connections"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (h *QueryHandler) handleListConnections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_ = request
	connections, err := h.connectionService.List(ctx)
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("Found %d connections", len(connections))
	return mcp.NewToolResultStructured(connections, fallback), nil
}

func (h *QueryHandler) toolQualityScore() mcp.Tool {
	return mcp.NewTool(
		"qualens_quality_score",
		mcp.WithDescription("Get the composite data-quality score (0-100) for a connection, optionally narrowed to one table."),
		mcp.WithTitleAnnotation("Quality Score"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("connection_id",
			mcp.Description("The connection to score."),
			mcp.Required(),
		),
		mcp.WithString("table",
			mcp.Description("Optional table name to narrow the score to."),
		),
	)
}

func (h *QueryHandler) handleQualityScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connectionID, err := request.RequireString("connection_id")
	if err != nil {
		return nil, err
	}
	table := request.GetString("table", "")

	score, err := h.analyticsService.QualityScore(ctx, connectionID, table)
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("Quality score %.1f (grade %s)", score.Score, score.Grade)
	return mcp.NewToolResultStructured(score, fallback), nil
}

func (h *QueryHandler) toolTableProfile() mcp.Tool {
	return mcp.NewTool(
		"qualens_table_profile",
		mcp.WithDescription("Get the latest column-level profile (null rates, distinct counts, ranges) for a table."),
		mcp.WithTitleAnnotation("Table Profile"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("connection_id",
			mcp.Description("The connection the table belongs to."),
			mcp.Required(),
		),
		mcp.WithString("table",
			mcp.Description("The table to profile."),
			mcp.Required(),
		),
	)
}

func (h *QueryHandler) handleTableProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connectionID, err := request.RequireString("connection_id")
	if err != nil {
		return nil, err
	}
	table, err := request.RequireString("table")
	if err != nil {
		return nil, err
	}

	profile, err := h.profilingService.GetProfile(ctx, connectionID, table)
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("Profile of %s: %d rows, %d columns", profile.TableName, profile.RowCount, len(profile.Columns))
	return mcp.NewToolResultStructured(profile, fallback), nil
}

func (h *QueryHandler) toolListAnomalies() mcp.Tool {
	return mcp.NewTool(
		"qualens_list_anomalies",
		mcp.WithDescription("List detected data anomalies (row-count drops, null-rate spikes, freshness issues) for a connection."),
		mcp.WithTitleAnnotation("List Anomalies"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("connection_id",
			mcp.Description("The connection to inspect."),
			mcp.Required(),
		),
	)
}

func (h *QueryHandler) handleListAnomalies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connectionID, err := request.RequireString("connection_id")
	if err != nil {
		return nil, err
	}

	anomalies, err := h.anomalyService.List(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("Found %d anomalies", len(anomalies))
	return mcp.NewToolResultStructured(anomalies, fallback), nil
}

func (h *QueryHandler) toolValidationSummary() mcp.Tool {
	return mcp.NewTool(
		"qualens_validation_summary",
		mcp.WithDescription("Get the pass/fail summary of validation rules for a connection."),
		mcp.WithTitleAnnotation("Validation Summary"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("connection_id",
			mcp.Description("The connection to summarize."),
			mcp.Required(),
		),
	)
}

func (h *QueryHandler) handleValidationSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connectionID, err := request.RequireString("connection_id")
	if err != nil {
		return nil, err
	}

	summary, err := h.validationService.Summary(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	fallback := fmt.Sprintf("%d rules: %d passed, %d failed (%.1f%% pass rate)",
		summary.Total, summary.Passed, summary.Failed, summary.PassRate)
	return mcp.NewToolResultStructured(summary, fallback), nil
}
