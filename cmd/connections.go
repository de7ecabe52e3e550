package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	domainConnection "github.com/qualens/qualens/domains/connection"
)

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Manage monitored database connections",
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connections",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		connections, err := connectionUsecase.List(ctx)
		trackHistory(http.MethodGet, "/connections", start, err)
		exitOnError(err)

		if len(connections) == 0 {
			fmt.Println("No connections yet; add one with `qualens connections add`.")
			return
		}

		active, _ := stateStore.ActiveConnection()
		for _, conn := range connections {
			marker := " "
			if conn.ID == active {
				marker = "*"
			}
			fmt.Printf("%s %-20s %-10s %-10s %s (created %s)\n",
				marker, conn.Name, conn.Type, conn.Status, conn.ID, ago(conn.CreatedAt))
		}
	},
}

var connectionsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one connection",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		conn, err := connectionUsecase.Get(ctx, args[0])
		exitOnError(err)
		printJSON(conn)
	},
}

var connectionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new connection",
	Run: func(cmd *cobra.Command, _ []string) {
		request := connectionRequestFromFlags(cmd)

		ctx, cancel := cliContext()
		defer cancel()

		if probe, _ := cmd.Flags().GetBool("probe"); probe {
			exitOnError(connectionUsecase.ProbeDSN(ctx, request))
			fmt.Println("Local probe succeeded.")
		}

		start := time.Now()
		conn, err := connectionUsecase.Create(ctx, request)
		trackHistory(http.MethodPost, "/connections", start, err)
		exitOnError(err)

		fmt.Printf("Connection %q created with id %s\n", conn.Name, conn.ID)
	},
}

var connectionsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a connection",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var request domainConnection.UpdateRequest
		request.Name, _ = cmd.Flags().GetString("name")
		request.Host, _ = cmd.Flags().GetString("host")
		request.Port, _ = cmd.Flags().GetInt("port")
		request.Database, _ = cmd.Flags().GetString("database")
		request.Username, _ = cmd.Flags().GetString("username")
		request.Password, _ = cmd.Flags().GetString("password")
		request.SSLMode, _ = cmd.Flags().GetString("ssl-mode")

		ctx, cancel := cliContext()
		defer cancel()

		conn, err := connectionUsecase.Update(ctx, args[0], request)
		exitOnError(err)
		fmt.Printf("Connection %q updated\n", conn.Name)
	},
}

var connectionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a connection",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		exitOnError(connectionUsecase.Delete(ctx, args[0]))
		fmt.Println("Connection deleted.")
	},
}

var connectionsTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Run the server-side connectivity check",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		result, err := connectionUsecase.Test(ctx, args[0])
		exitOnError(err)

		if result.Success {
			fmt.Printf("OK (%s)\n", result.Latency)
		} else {
			fmt.Printf("FAILED: %s\n", result.Message)
		}
	},
}

var connectionsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select the connection other commands default to",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		// Validate the id before persisting the selection.
		conn, err := connectionUsecase.Get(ctx, args[0])
		exitOnError(err)

		exitOnError(stateStore.SetActiveConnection(conn.ID))
		fmt.Printf("Active connection is now %q (%s)\n", conn.Name, conn.ID)
	},
}

func connectionRequestFromFlags(cmd *cobra.Command) domainConnection.CreateRequest {
	var request domainConnection.CreateRequest
	request.Name, _ = cmd.Flags().GetString("name")
	request.Type, _ = cmd.Flags().GetString("type")
	request.Host, _ = cmd.Flags().GetString("host")
	request.Port, _ = cmd.Flags().GetInt("port")
	request.Database, _ = cmd.Flags().GetString("database")
	request.Username, _ = cmd.Flags().GetString("username")
	request.Password, _ = cmd.Flags().GetString("password")
	request.SSLMode, _ = cmd.Flags().GetString("ssl-mode")
	return request
}

func init() {
	for _, c := range []*cobra.Command{connectionsAddCmd, connectionsUpdateCmd} {
		c.Flags().String("name", "", "display name")
		c.Flags().String("host", "", "database host")
		c.Flags().Int("port", 5432, "database port")
		c.Flags().String("database", "", "database name (or file path for sqlite)")
		c.Flags().String("username", "", "database user")
		c.Flags().String("password", "", "database password")
		c.Flags().String("ssl-mode", "", "postgres ssl mode")
	}
	connectionsAddCmd.Flags().String("type", "postgres", "connection type (postgres or sqlite)")
	connectionsAddCmd.Flags().Bool("probe", false, "probe the DSN locally before registering")

	connectionsCmd.AddCommand(
		connectionsListCmd,
		connectionsGetCmd,
		connectionsAddCmd,
		connectionsUpdateCmd,
		connectionsDeleteCmd,
		connectionsTestCmd,
		connectionsUseCmd,
	)
	rootCmd.AddCommand(connectionsCmd)
}
