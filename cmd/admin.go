package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	domainAdmin "github.com/qualens/qualens/domains/admin"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Organization administration",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List organization members",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := cliContext()
		defer cancel()

		users, err := adminUsecase.ListUsers(ctx)
		exitOnError(err)

		for _, user := range users {
			fmt.Printf("%-35s %-8s last sign-in %s  %s\n",
				user.Email, user.Role, ago(user.LastSignInAt), user.ID)
		}
	},
}

var adminInviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Invite a member by email",
	Run: func(cmd *cobra.Command, _ []string) {
		var request domainAdmin.InviteRequest
		request.Email, _ = cmd.Flags().GetString("email")
		request.Role, _ = cmd.Flags().GetString("role")

		ctx, cancel := cliContext()
		defer cancel()

		start := time.Now()
		user, err := adminUsecase.InviteUser(ctx, request)
		trackHistory(http.MethodPost, "/admin/users/invite", start, err)
		exitOnError(err)

		fmt.Printf("Invited %s as %s\n", user.Email, user.Role)
	},
}

var adminRoleCmd = &cobra.Command{
	Use:   "role <id>",
	Short: "Change a member's role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		role, _ := cmd.Flags().GetString("role")

		ctx, cancel := cliContext()
		defer cancel()

		user, err := adminUsecase.UpdateUserRole(ctx, args[0], role)
		exitOnError(err)
		fmt.Printf("%s is now %s\n", user.Email, user.Role)
	},
}

var adminRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a member",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx, cancel := cliContext()
		defer cancel()

		exitOnError(adminUsecase.DeleteUser(ctx, args[0]))
		fmt.Println("Member removed.")
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show organization-wide counters",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := cliContext()
		defer cancel()

		stats, err := adminUsecase.OrgStats(ctx)
		exitOnError(err)

		fmt.Printf("%d user(s), %d connection(s), %d active rule(s), %d open anomalie(s)\n",
			stats.Users, stats.Connections, stats.ActiveRules, stats.OpenAnomalies)
	},
}

func init() {
	adminInviteCmd.Flags().String("email", "", "invitee email")
	adminInviteCmd.Flags().String("role", "viewer", "role: admin, editor, viewer")
	adminRoleCmd.Flags().String("role", "", "new role: admin, editor, viewer")

	adminCmd.AddCommand(adminUsersCmd, adminInviteCmd, adminRoleCmd, adminRemoveCmd, adminStatsCmd)
	rootCmd.AddCommand(adminCmd)
}
