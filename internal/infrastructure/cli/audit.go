package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
}

var auditLimit int

var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recorded audit events, newest last",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		evts, err := svc.Audit.Timeline(ctx)
		if err != nil {
			return err
		}
		if auditLimit > 0 && len(evts) > auditLimit {
			evts = evts[len(evts)-auditLimit:]
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), evts)
		}
		for _, e := range evts {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-28s %-12s %v\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.Actor, e.Metadata)
		}
		return nil
	},
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the audit hash chain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		violations, err := svc.Audit.VerifyIntegrity(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), violations); err != nil {
				return err
			}
		} else {
			for _, v := range violations {
				fmt.Fprintln(cmd.OutOrStdout(), styleLate.Render(v.String()))
			}
		}
		if len(violations) > 0 {
			return &CLIError{Message: fmt.Sprintf("audit chain broken at %d event(s)", len(violations)), ExitCode: 1}
		}
		if !jsonOutput {
			fmt.Fprintln(cmd.OutOrStdout(), styleDone.Render("audit chain intact"))
		}
		return nil
	},
}

func init() {
	auditLogCmd.Flags().IntVarP(&auditLimit, "limit", "n", 50, "Show at most n events (0 for all)")
	auditCmd.AddCommand(auditLogCmd, auditVerifyCmd)
	RootCmd.AddCommand(auditCmd)
}
