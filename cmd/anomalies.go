package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Review detected anomalies",
}

var anomaliesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List anomalies on the active connection",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		anomalies, err := anomalyUsecase.List(ctx, connectionID)
		exitOnError(err)

		if len(anomalies) == 0 {
			fmt.Println("No anomalies. Nice.")
			return
		}
		for _, a := range anomalies {
			target := a.TableName
			if a.ColumnName != "" {
				target += "." + a.ColumnName
			}
			fmt.Printf("%-8s %-13s %-35s observed %.2f (expected %.2f) %s  %s\n",
				a.Severity, a.Metric, target, a.Observed, a.Expected, ago(a.DetectedAt), a.ID)
		}
	},
}

var anomaliesAckCmd = &cobra.Command{
	Use:   "ack <id>",
	Short: "Acknowledge an anomaly",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		exitOnError(anomalyUsecase.Acknowledge(ctx, args[0]))
		fmt.Println("Acknowledged.")
	},
}

var anomaliesExplainCmd = &cobra.Command{
	Use:   "explain <id>",
	Short: "Generate a narrative explanation for an anomaly",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		explanation, err := anomalyUsecase.Explain(ctx, args[0])
		exitOnError(err)

		fmt.Println(explanation.Text)
		fmt.Printf("\n(generated by %s)\n", explanation.Model)
	},
}

var anomaliesConfigsCmd = &cobra.Command{
	Use:   "configs",
	Short: "List detector configurations",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		configs, err := anomalyUsecase.Configs(ctx, connectionID)
		exitOnError(err)
		printJSON(configs)
	},
}

func init() {
	anomaliesListCmd.Flags().String("connection", "", "connection id (defaults to the active one)")
	anomaliesConfigsCmd.Flags().String("connection", "", "connection id (defaults to the active one)")

	anomaliesCmd.AddCommand(anomaliesListCmd, anomaliesAckCmd, anomaliesExplainCmd, anomaliesConfigsCmd)
	rootCmd.AddCommand(anomaliesCmd)
}
