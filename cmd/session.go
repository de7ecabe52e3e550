package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the authenticated session",
}

var sessionSignInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email and password",
	Run: func(cmd *cobra.Command, _ []string) {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			email = promptLine("Email: ")
		}
		if password == "" {
			password = os.Getenv("QUALENS_PASSWORD")
		}
		if password == "" {
			password = promptLine("Password: ")
		}

		ctx, cancel := cliContext()
		defer cancel()

		session, err := authService.SignIn(ctx, email, password)
		exitOnError(err)

		fmt.Printf("Signed in as %s (%s), session valid until %s\n",
			session.User.Email, session.User.Role, session.ExpiresAt.Format("15:04 MST"))
	},
}

var sessionSignUpCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new account",
	Run: func(cmd *cobra.Command, _ []string) {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			email = promptLine("Email: ")
		}
		if password == "" {
			password = promptLine("Password: ")
		}

		ctx, cancel := cliContext()
		defer cancel()

		exitOnError(authService.SignUp(ctx, email, password))
		fmt.Println("Account created; check your email if confirmation is required, then sign in.")
	},
}

var sessionSignOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and discard the stored session",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := cliContext()
		defer cancel()

		exitOnError(authService.SignOut(ctx))
		fmt.Println("Signed out.")
	},
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Run: func(_ *cobra.Command, _ []string) {
		session := authService.Current()
		if session == nil {
			logrus.Fatalln("Not signed in; run `qualens session signin`")
		}
		fmt.Printf("Signed in as %s (%s)\n", session.User.Email, session.User.Role)
		fmt.Printf("Session expires %s\n", ago(session.ExpiresAt))
	},
}

func init() {
	for _, c := range []*cobra.Command{sessionSignInCmd, sessionSignUpCmd} {
		c.Flags().String("email", "", "account email")
		c.Flags().String("password", "", "account password (or QUALENS_PASSWORD env)")
	}
	sessionCmd.AddCommand(sessionSignInCmd, sessionSignUpCmd, sessionSignOutCmd, sessionStatusCmd)
	rootCmd.AddCommand(sessionCmd)
}
