package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Start a session as a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		sess, u, err := svc.Session.Login(ctx, args[0])
		if err != nil {
			return MapError(err)
		}
		if err := writeSessionToken(svc.Workspace.Config, sess.Token); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"user": u, "expiresAt": sess.ExpiresAt})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s) until %s\n",
			u.Name, u.Role, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		cfg := svc.Workspace.Config
		token, err := readSessionToken(cfg)
		if err != nil {
			return err
		}
		if token == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		if err := svc.Session.Logout(ctx, token); err != nil {
			return MapError(err)
		}
		if err := clearSessionToken(cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		u, ok := access.UserFrom(ctx)
		if !ok {
			return &CLIError{Message: "not logged in", Hint: "Run 'nihulit login <username>'", ExitCode: ExitAuth}
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), u)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) role %s\n", u.Name, u.Username, u.Role)
		if !u.Role.IsAdmin() {
			fmt.Fprintf(cmd.OutOrStdout(), "projects: %v\n", u.AccessibleProjects)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
