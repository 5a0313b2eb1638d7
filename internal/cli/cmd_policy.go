package cli

import (
	"github.com/spf13/cobra"
)

func newPolicyCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:         "policy",
		Short:       "Print the effective sanitize policy",
		Args:        exactArgs(0),
		Annotations: map[string]string{noDBAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			cfg := app.docs.Policy().Config()
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}
			writePolicyTable(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}
