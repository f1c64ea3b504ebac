package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

// NewCallCommand creates the call command.
func NewCallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "call <Model.op | Model.prototype.op> [id] [field=value ...]",
		Short: "Invoke a model operation and print the result",
		Long: `Boot the namespace and invoke an operation. Type-level operations take
positional arguments; record-level operations take the record identifier
first. field=value pairs are collected into a single field-map argument.`,
		Example: `  # Create a record through a proxied operation
  modelproxy call CoffeeShop.create name="Coffee Corner" city=Utrecht

  # Load it back
  modelproxy call CoffeeShop.findById 42

  # Update through a record-level proxy
  modelproxy call CoffeeShop.prototype.updateAttributes 42 city=Leiden`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			eng := cmdCtx.Engine
			if err := eng.Boot(cmd.Context()); err != nil {
				return err
			}

			callArgs, err := parseCallArgs(args[1:])
			if err != nil {
				return err
			}

			result, err := eng.Call(cmd.Context(), args[0], callArgs...)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
}

// parseCallArgs turns CLI arguments into operation arguments: plain values
// stay positional, and all field=value pairs collapse into one field map.
func parseCallArgs(args []string) ([]any, error) {
	var out []any
	fields := make(map[string]any)
	for _, arg := range args {
		if name, value, ok := strings.Cut(arg, "="); ok {
			if name == "" {
				return nil, fmt.Errorf("invalid argument %q: empty field name", arg)
			}
			fields[name] = value
			continue
		}
		if len(fields) > 0 {
			return nil, fmt.Errorf("positional argument %q after field=value pairs", arg)
		}
		out = append(out, arg)
	}
	if len(fields) > 0 {
		out = append(out, fields)
	}
	return out, nil
}

// printResult renders an operation result as JSON.
func printResult(cmd *cobra.Command, result any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resultValue(result))
}

func resultValue(result any) any {
	switch v := result.(type) {
	case nil:
		return nil
	case *model.Record:
		return map[string]any{"type": v.TypeName(), "fields": v.Fields()}
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = resultValue(elem)
		}
		return out
	default:
		return v
	}
}
