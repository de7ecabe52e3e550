package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	uiMcp "github.com/qualens/qualens/ui/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the quality MCP server using SSE",
	Long: `Start a Qualens MCP (Model Context Protocol) server using Server-Sent
Events (SSE) transport. This lets AI agents query connections, quality
scores, profiles, anomalies and validation results through a standardized
protocol. All exposed tools are read-only.`,
	Run: mcpServer,
}

func init() {
	mcpCmd.Flags().String("port", "", "Port for the SSE MCP server")
	mcpCmd.Flags().String("host", "", "Host for the SSE MCP server")
	rootCmd.AddCommand(mcpCmd)
}

func mcpServer(cmd *cobra.Command, _ []string) {
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.MCP.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.MCP.Host = host
	}

	mcpSrv := server.NewMCPServer(
		"Qualens Data Quality MCP Server",
		cfg.App.Version,
		server.WithToolCapabilities(true),
	)

	queryHandler := uiMcp.InitMcpQuery(
		connectionUsecase,
		analyticsUsecase,
		profilingUsecase,
		anomalyUsecase,
		validationUsecase,
	)
	queryHandler.AddQueryTools(mcpSrv)

	sseServer := server.NewSSEServer(
		mcpSrv,
		server.WithBaseURL(fmt.Sprintf("http://%s:%s", cfg.MCP.Host, cfg.MCP.Port)),
		server.WithKeepAlive(true),
	)

	addr := fmt.Sprintf("%s:%s", cfg.MCP.Host, cfg.MCP.Port)
	logrus.Printf("Starting Qualens MCP SSE server on %s", addr)
	logrus.Printf("SSE endpoint: http://%s/sse", addr)

	if err := sseServer.Start(addr); err != nil {
		logrus.Fatalf("Failed to start SSE server: %v", err)
	}
}
