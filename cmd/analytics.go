package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Quality scores and trends",
}

var analyticsScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the quality score",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		table, _ := cmd.Flags().GetString("table")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		score, err := analyticsUsecase.QualityScore(ctx, connectionID, table)
		exitOnError(err)

		scope := "connection"
		if score.TableName != "" {
			scope = score.TableName
		}
		fmt.Printf("%s: %.1f (%s), computed %s\n", scope, score.Score, score.Grade, ago(score.ComputedAt))
	},
}

var analyticsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show the score trend",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		days, _ := cmd.Flags().GetInt("days")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		points, err := analyticsUsecase.Trends(ctx, connectionID, days)
		exitOnError(err)

		for _, point := range points {
			fmt.Printf("%s  %.1f\n", point.Date, point.Score)
		}
	},
}

var analyticsDimensionsCmd = &cobra.Command{
	Use:   "dimensions",
	Short: "Break the score down by dimension",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		dimensions, err := analyticsUsecase.Dimensions(ctx, connectionID)
		exitOnError(err)

		for _, dimension := range dimensions {
			fmt.Printf("%-20s %.1f\n", dimension.Name, dimension.Score)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{analyticsScoreCmd, analyticsTrendsCmd, analyticsDimensionsCmd} {
		c.Flags().String("connection", "", "connection id (defaults to the active one)")
	}
	analyticsScoreCmd.Flags().String("table", "", "score a single table instead of the connection")
	analyticsTrendsCmd.Flags().Int("days", 30, "lookback window in days")

	analyticsCmd.AddCommand(analyticsScoreCmd, analyticsTrendsCmd, analyticsDimensionsCmd)
	rootCmd.AddCommand(analyticsCmd)
}
