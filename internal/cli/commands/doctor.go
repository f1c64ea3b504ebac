package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/modelproxy/internal/loader"
	"github.com/leapstack-labs/modelproxy/pkg/connector"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, model definitions, and datasource connectivity",
		Long: `Run project health checks: the configuration must validate, every model
definition must parse, proxy targets must reference defined models, and the
configured datasource must accept a connection. Checks run concurrently.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				defs, err := loader.LoadDir(cfg.ModelsDir)
				if err != nil {
					return fmt.Errorf("model definitions: %w", err)
				}
				defined := make(map[string]bool, len(defs))
				for _, def := range defs {
					defined[def.Name] = true
				}
				for _, def := range defs {
					if def.Proxy != nil && !defined[def.Proxy.For] {
						fmt.Fprintf(cmd.OutOrStdout(),
							"warning: model %s proxies %q, which is not defined and will fail at boot\n",
							def.Name, def.Proxy.For)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d model definitions in %s\n", len(defs), cfg.ModelsDir)
				return nil
			})

			g.Go(func() error {
				ds, err := connector.New(cfg.Datasource.ToConnectorConfig(), nil)
				if err != nil {
					return fmt.Errorf("datasource: %w", err)
				}
				if err := ds.Connect(ctx); err != nil {
					return fmt.Errorf("datasource: %w", err)
				}
				defer ds.Close()
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %s datasource reachable\n", ds.Name())
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all checks passed")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Overall check timeout")
	return cmd
}
