package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Metadata worker and coverage",
}

var metadataRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask the worker to re-crawl the active connection",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		err := metadataUsecase.Refresh(ctx, connectionID)
		trackHistory(http.MethodPost, "/metadata/refresh", start, err)
		exitOnError(err)

		fmt.Println("Refresh queued.")
	},
}

var metadataWorkerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Show the metadata worker status",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := cliContext()
		defer cancel()

		status, err := metadataUsecase.WorkerStatus(ctx)
		exitOnError(err)

		fmt.Printf("Worker %s, queue depth %d, last run %s\n",
			status.State, status.QueueDepth, ago(status.LastRunAt))
	},
}

var metadataCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show profiling coverage of the active connection",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		coverage, err := metadataUsecase.Coverage(ctx, connectionID)
		exitOnError(err)

		fmt.Printf("%d of %d tables profiled (%.1f%%)\n",
			coverage.TablesProfiled, coverage.TablesTotal, coverage.Percent)
	},
}

func init() {
	metadataRefreshCmd.Flags().String("connection", "", "connection id (defaults to the active one)")
	metadataCoverageCmd.Flags().String("connection", "", "connection id (defaults to the active one)")

	metadataCmd.AddCommand(metadataRefreshCmd, metadataWorkerCmd, metadataCoverageCmd)
	rootCmd.AddCommand(metadataCmd)
}
