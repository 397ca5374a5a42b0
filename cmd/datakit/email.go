package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/datakit/pkg/datakit/record"
)

func newEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "email <address>...",
		Short: "Check addresses for an '@' and a '.'",
		Long: `Runs the shape check used for record emails. It only looks for an
'@' and a '.', so many malformed addresses pass.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, addr := range args {
				verdict := "invalid"
				if record.IsValidEmail(addr) {
					verdict = "valid"
				}
				fmt.Fprintf(out, "%s\t%s\n", addr, verdict)
			}
			return nil
		},
	}
}
