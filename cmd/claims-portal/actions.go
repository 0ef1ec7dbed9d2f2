// cmd/claims-portal/actions.go
package main

import (
	"fmt"
	"text/tabwriter"

	"claims-portal/internal/common/config"
	"claims-portal/pkg/registry"

	"github.com/spf13/cobra"
)

func newActionsCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List portal actions and whether this configuration enables them",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			if file != "" {
				var err error
				if reg, err = registry.LoadRegistry(file); err != nil {
					return err
				}
			}
			if err := a.load("stderr"); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tROUTE\tENABLED\tDESCRIPTION")
			for _, act := range reg.Actions {
				route := "-"
				if act.Path != "" {
					route = act.Method + " " + act.Path
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", act.TaskType, route, config.IsActionEnabled(a.cfg, act.TaskType), act.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "registry", "", "read the catalog from a JSON file instead of the built-in one")
	return cmd
}
