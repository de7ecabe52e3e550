package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	domainValidation "github.com/qualens/qualens/domains/validation"
)

var validationsCmd = &cobra.Command{
	Use:   "validations",
	Short: "Manage and run data-quality rules",
}

var validationsRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List rules on the active connection",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		rules, err := validationUsecase.ListRules(ctx, connectionID)
		exitOnError(err)

		for _, rule := range rules {
			state := "enabled"
			if !rule.Enabled {
				state = "disabled"
			}
			target := rule.TableName
			if rule.ColumnName != "" {
				target += "." + rule.ColumnName
			}
			fmt.Printf("%-10s %-35s %-10s %-8s %s\n", rule.RuleType, target, rule.Severity, state, rule.ID)
		}
	},
}

var validationsRuleAddCmd = &cobra.Command{
	Use:   "rule-add",
	Short: "Create a rule",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")

		var request domainValidation.CreateRuleRequest
		request.ConnectionID = resolveConnection(connFlag)
		request.TableName, _ = cmd.Flags().GetString("table")
		request.ColumnName, _ = cmd.Flags().GetString("column")
		request.RuleType, _ = cmd.Flags().GetString("type")
		request.Severity, _ = cmd.Flags().GetString("severity")

		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		rule, err := validationUsecase.CreateRule(ctx, request)
		trackHistory(http.MethodPost, "/validations/rules", start, err)
		exitOnError(err)

		fmt.Printf("Rule %s created\n", rule.ID)
	},
}

var validationsRuleDeleteCmd = &cobra.Command{
	Use:   "rule-delete <id>",
	Short: "Delete a rule",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		exitOnError(validationUsecase.DeleteRule(ctx, args[0]))
		fmt.Println("Rule deleted.")
	},
}

var validationsRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all enabled rules now",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		run, err := validationUsecase.RunRules(ctx, connectionID)
		trackHistory(http.MethodPost, "/validations/run", start, err)
		exitOnError(err)

		fmt.Printf("Validation run %s started (%s)\n", run.ID, run.Status)
	},
}

var validationsResultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the latest rule results",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		results, err := validationUsecase.Results(ctx, connectionID)
		exitOnError(err)

		for _, result := range results {
			fmt.Printf("%-8s rule=%s %d/%d failed %s\n",
				result.Status, result.RuleID, result.FailedCount, result.TotalCount, ago(result.RanAt))
		}
	},
}

var validationsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the pass/fail summary",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		summary, err := validationUsecase.Summary(ctx, connectionID)
		exitOnError(err)

		fmt.Printf("%d rules: %d passed, %d failed (%.1f%% pass rate)\n",
			summary.Total, summary.Passed, summary.Failed, summary.PassRate*100)
	},
}

func init() {
	for _, c := range []*cobra.Command{
		validationsRulesCmd, validationsRuleAddCmd, validationsRunCmd,
		validationsResultsCmd, validationsSummaryCmd,
	} {
		c.Flags().String("connection", "", "connection id (defaults to the active one)")
	}
	validationsRuleAddCmd.Flags().String("table", "", "target table")
	validationsRuleAddCmd.Flags().String("column", "", "target column (rule types that need one)")
	validationsRuleAddCmd.Flags().String("type", "", "rule type: not_null, unique, range, regex, freshness, row_count")
	validationsRuleAddCmd.Flags().String("severity", "warning", "severity: info, warning, critical")

	validationsCmd.AddCommand(
		validationsRulesCmd,
		validationsRuleAddCmd,
		validationsRuleDeleteCmd,
		validationsRunCmd,
		validationsResultsCmd,
		validationsSummaryCmd,
	)
	rootCmd.AddCommand(validationsCmd)
}
