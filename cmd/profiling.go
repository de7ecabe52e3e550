package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var profilingCmd = &cobra.Command{
	Use:   "profiling",
	Short: "Run and inspect table profiles",
}

var profilingRunCmd = &cobra.Command{
	Use:   "run <table>",
	Short: "Queue a profiling job for one table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		job, err := profilingUsecase.ProfileTable(ctx, connectionID, args[0])
		trackHistory(http.MethodPost, "/profiling/run", start, err)
		exitOnError(err)

		fmt.Printf("Job %s queued (%s)\n", job.ID, job.Status)

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			watchJob(job.ID)
		}
	},
}

var profilingShowCmd = &cobra.Command{
	Use:   "show <table>",
	Short: "Show the stored profile of one table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		profile, err := profilingUsecase.GetProfile(ctx, connectionID, args[0])
		exitOnError(err)
		printJSON(profile)
	},
}

var profilingLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List the most recent profile per table",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		profiles, err := profilingUsecase.LatestProfiles(ctx, connectionID)
		exitOnError(err)

		for _, profile := range profiles {
			fmt.Printf("%-30s %10d rows, %d columns, profiled %s\n",
				profile.TableName, profile.RowCount, len(profile.Columns), ago(profile.ProfiledAt))
		}
	},
}

var profilingJobCmd = &cobra.Command{
	Use:   "job <jobId>",
	Short: "Show (or follow) a profiling job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			watchJob(args[0])
			return
		}

		ctx, cancel := cliContext()
		defer cancel()

		job, err := profilingUsecase.JobStatus(ctx, args[0])
		exitOnError(err)
		printJSON(job)
	},
}

// watchJob polls until the job finishes, printing each status change.
func watchJob(jobID string) {
	ctx, cancel := cliContext()
	defer cancel()

	lastStatus := ""
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		job, err := profilingUsecase.JobStatus(ctx, jobID)
		exitOnError(err)

		if job.Status != lastStatus {
			fmt.Printf("%s %.0f%%\n", job.Status, job.Progress*100)
			lastStatus = job.Status
		}
		if job.Finished() {
			if job.Error != "" {
				fmt.Println("Job failed:", job.Error)
			}
			return
		}

		select {
		case <-ctx.Done():
			fmt.Println("stopped watching")
			return
		case <-ticker.C:
		}
	}
}

func init() {
	for _, c := range []*cobra.Command{profilingRunCmd, profilingShowCmd, profilingLatestCmd} {
		c.Flags().String("connection", "", "connection id (defaults to the active one)")
	}
	profilingRunCmd.Flags().Bool("watch", false, "follow the job until it finishes")
	profilingJobCmd.Flags().Bool("watch", false, "follow the job until it finishes")

	profilingCmd.AddCommand(profilingRunCmd, profilingShowCmd, profilingLatestCmd, profilingJobCmd)
	rootCmd.AddCommand(profilingCmd)
}
