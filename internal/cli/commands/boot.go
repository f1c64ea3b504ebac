package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewBootCommand creates the boot command.
func NewBootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "boot",
		Short: "Boot the model namespace and report proxy bindings",
		Long: `Load model definitions, connect the datasource, fire the boot signal,
resolve proxy configurations, and install forwarding operations. The
resulting bindings are printed per proxy, including configurations whose
internal model could not be resolved.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			eng := cmdCtx.Engine
			if err := eng.Boot(cmd.Context()); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Public Model", "Proxy For", "Method", "Scope", "State"})
			for _, res := range eng.Resolutions() {
				cfg := res.Handle.Config()
				for _, d := range cfg.Methods {
					t.AppendRow(table.Row{
						cfg.Public.Name(), cfg.ProxyFor, d.Name, d.Scope.String(), res.Handle.State().String(),
					})
				}
			}
			t.Render()
			return nil
		},
	}
}
