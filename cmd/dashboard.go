package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the composite overview",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID, _ := stateStore.ActiveConnection()
		if connFlag != "" {
			connectionID = connFlag
		}

		ctx, cancel := cliContext()
		defer cancel()

		overview, err := dashboardUsecase.Overview(ctx, connectionID)
		exitOnError(err)

		fmt.Printf("Connections: %d\n", len(overview.Connections))
		if overview.Score != nil {
			fmt.Printf("Quality score: %.1f (%s)\n", overview.Score.Score, overview.Score.Grade)
		}
		if overview.Validations != nil {
			fmt.Printf("Validations: %d/%d passed\n", overview.Validations.Passed, overview.Validations.Total)
		}
		fmt.Printf("Open anomalies: %d\n", len(overview.Anomalies))
		for _, warning := range overview.Warnings {
			fmt.Println("warning:", warning)
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent CLI request history",
	Run: func(cmd *cobra.Command, _ []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := stateStore.RecentHistory(limit)
		exitOnError(err)

		for _, entry := range entries {
			fmt.Printf("%-6s %-45s %-12s %8s  %s\n",
				entry.Method, entry.Path, entry.Outcome, entry.Elapsed.Round(time.Millisecond), ago(entry.CreatedAt))
		}
	},
}

func init() {
	dashboardCmd.Flags().String("connection", "", "connection id (defaults to the active one, may be empty)")
	historyCmd.Flags().Int("limit", 20, "number of entries to show")

	rootCmd.AddCommand(dashboardCmd, historyCmd)
}
