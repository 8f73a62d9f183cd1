package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthonydresser/fluent-bit-hist/options"
)

func init() {
	rootCmd.AddCommand(axesCmd)
}

var axesCmd = &cobra.Command{
	Use:   "axes",
	Short: "Print the axes of every configured histogram",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := options.LoadHistogramConfig(configFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, def := range conf.Histograms {
			fmt.Fprintf(out, "%s (%s)\n", def.Name, def.Kind())
			for _, a := range def.Axes {
				v, err := a.Axis()
				if err != nil {
					return fmt.Errorf("histogram %q: %w", def.Name, err)
				}
				fmt.Fprintf(out, "  %s: %s, %d bins, edges %v\n", a.Field, v.Kind(), v.NBins(), v.Edges())
			}
		}
		return nil
	},
}
