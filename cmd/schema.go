package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect table schemas and drift",
}

var schemaTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables on the active connection",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		tables, err := schemaUsecase.ListTables(ctx, connectionID)
		trackHistory(http.MethodGet, "/schema/"+connectionID+"/tables", start, err)
		exitOnError(err)

		for _, table := range tables {
			fmt.Printf("%-30s %10d rows %4d columns\n", table.Name, table.RowCount, table.ColumnCount)
		}
	},
}

var schemaShowCmd = &cobra.Command{
	Use:   "show <table>",
	Short: "Show the column layout of one table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		tableSchema, err := schemaUsecase.GetTableSchema(ctx, connectionID, args[0])
		exitOnError(err)
		printJSON(tableSchema)
	},
}

var schemaChangesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List detected schema drift events",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		changes, err := schemaUsecase.ListChanges(ctx, connectionID)
		exitOnError(err)

		if len(changes) == 0 {
			fmt.Println("No schema changes recorded.")
			return
		}
		for _, change := range changes {
			target := change.TableName
			if change.ColumnName != "" {
				target += "." + change.ColumnName
			}
			fmt.Printf("%-15s %-35s %s\n", change.ChangeType, target, ago(change.DetectedAt))
		}
	},
}

var schemaDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run drift detection now",
	Run: func(cmd *cobra.Command, _ []string) {
		connFlag, _ := cmd.Flags().GetString("connection")
		connectionID := resolveConnection(connFlag)

		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		changes, err := schemaUsecase.DetectChanges(ctx, connectionID)
		trackHistory(http.MethodPost, "/schema/"+connectionID+"/detect", start, err)
		exitOnError(err)

		fmt.Printf("Detection finished, %d new change(s)\n", len(changes))
	},
}

func init() {
	for _, c := range []*cobra.Command{schemaTablesCmd, schemaShowCmd, schemaChangesCmd, schemaDetectCmd} {
		c.Flags().String("connection", "", "connection id (defaults to the active one)")
	}
	schemaCmd.AddCommand(schemaTablesCmd, schemaShowCmd, schemaChangesCmd, schemaDetectCmd)
	rootCmd.AddCommand(schemaCmd)
}
