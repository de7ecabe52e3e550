package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	domainAutomation "github.com/qualens/qualens/domains/automation"
)

var automationCmd = &cobra.Command{
	Use:   "automation",
	Short: "Manage scheduled quality jobs",
}

var automationSchedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "List schedules on the active connection",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		schedules, err := automationUsecase.ListSchedules(ctx, connectionID)
		exitOnError(err)

		for _, schedule := range schedules {
			state := "enabled"
			if !schedule.Enabled {
				state = "disabled"
			}
			fmt.Printf("%-25s %-12s %-15s %-8s last run %s  %s\n",
				schedule.Name, schedule.Kind, schedule.Cron, state, ago(schedule.LastRunAt), schedule.ID)
		}
	},
}

var automationScheduleAddCmd = &cobra.Command{
	Use:   "schedule-add",
	Short: "Create a schedule",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")

		var request domainAutomation.CreateScheduleRequest
		request.ConnectionID = resolveConnection(connFlag)
		request.Name, _ = cmd.Flags().GetString("name")
		request.Kind, _ = cmd.Flags().GetString("kind")
		request.Cron, _ = cmd.Flags().GetString("cron")

		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		schedule, err := automationUsecase.CreateSchedule(ctx, request)
		trackHistory(http.MethodPost, "/automation/schedules", start, err)
		exitOnError(err)

		fmt.Printf("Schedule %q created, next run %s\n", schedule.Name, ago(schedule.NextRunAt))
	},
}

var automationToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Enable or disable a schedule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		enabled, _ := cmd.Flags().GetBool("enabled")

		ctx, cancel := cliContext()
		defer cancel()

		schedule, err := automationUsecase.ToggleSchedule(ctx, args[0], enabled)
		exitOnError(err)

		state := "disabled"
		if schedule.Enabled {
			state = "enabled"
		}
		fmt.Printf("Schedule %q is now %s\n", schedule.Name, state)
	},
}

var automationRunCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Trigger a schedule immediately",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		run, err := automationUsecase.TriggerRun(ctx, args[0])
		trackHistory(http.MethodPost, "/automation/schedules/"+args[0]+"/run", start, err)
		exitOnError(err)

		fmt.Printf("Run %s started (%s)\n", run.ID, run.Status)
	},
}

var automationRunsCmd = &cobra.Command{
	Use:   "runs <id>",
	Short: "Show run history for a schedule",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		runs, err := automationUsecase.RunHistory(ctx, args[0])
		exitOnError(err)

		for _, run := range runs {
			line := fmt.Sprintf("%-8s started %s", run.Status, ago(run.StartedAt))
			if run.Error != "" {
				line += " error: " + run.Error
			}
			fmt.Println(line)
		}
	},
}

var automationStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the global scheduler status",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := cliContext()
		defer cancel()

		status, err := automationUsecase.GlobalStatus(ctx)
		exitOnError(err)

		fmt.Printf("Scheduler %s, %d active schedule(s), %d running job(s)\n",
			status.SchedulerState, status.ActiveSchedules, status.RunningJobs)
	},
}

func init() {
	automationSchedulesCmd.Flags().String("connection", "", "connection id (defaults to the active one)")
	automationScheduleAddCmd.Flags().String("connection", "", "connection id (defaults to the active one)")
	automationScheduleAddCmd.Flags().String("name", "", "schedule name")
	automationScheduleAddCmd.Flags().String("kind", "", "job kind: profiling, validation, anomaly_scan")
	automationScheduleAddCmd.Flags().String("cron", "", "cron expression | example: --cron=\"0 6 * * *\"")
	automationToggleCmd.Flags().Bool("enabled", true, "desired state")

	automationCmd.AddCommand(
		automationSchedulesCmd,
		automationScheduleAddCmd,
		automationToggleCmd,
		automationRunCmd,
		automationRunsCmd,
		automationStatusCmd,
	)
	rootCmd.AddCommand(automationCmd)
}
