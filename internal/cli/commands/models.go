package commands

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewModelsCommand creates the models command.
func NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List registered models and their operations",
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
			t.AppendHeader(table.Row{"Model", "Fields", "Operations", "Record Operations"})
			for _, m := range eng.Namespace().Models() {
				ops := m.OperationNames()
				recOps := m.RecordOperationNames()
				sort.Strings(ops)
				sort.Strings(recOps)
				t.AppendRow(table.Row{
					m.Name(),
					strings.Join(m.Schema().FieldNames(), ", "),
					strings.Join(ops, ", "),
					strings.Join(recOps, ", "),
				})
			}
			t.Render()
			return nil
		},
	}
}
