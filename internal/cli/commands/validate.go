package commands

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	cliconfig "github.com/leapstack-labs/modelproxy/internal/cli/config"
	"github.com/leapstack-labs/modelproxy/internal/loader"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate model definition files",
		Long: `Parse every model definition in the models directory and report errors.
With --watch, the directory is re-validated whenever a definition changes.
Note that a running process only resolves names registered before its boot
signal; editing definitions requires a restart to take effect.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			logger := cliconfig.GetLogger(cmd.Context())

			if err := validateDir(cmd, cfg.ModelsDir); err != nil && !watch {
				return err
			}
			if !watch {
				return nil
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer watcher.Close()
			if err := watcher.Add(cfg.ModelsDir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", cfg.ModelsDir, err)
			}
			logger.Info("watching for definition changes", "dir", cfg.ModelsDir)

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !isDefinitionFile(event.Name) {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					if err := validateDir(cmd, cfg.ModelsDir); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %v\n", err)
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("watch error", "error", err)
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate on definition changes")
	return cmd
}

func validateDir(cmd *cobra.Command, dir string) error {
	defs, err := loader.LoadDir(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d model definitions valid\n", len(defs))
	return nil
}

func isDefinitionFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
