package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm/hxpage"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [file]",
		Short: "Print the effective settings",
		Long: `Print the settings an application would use, as YAML. With a file, the
file is validated and overlaid on the defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := hxpage.DefaultSettings()
			if len(args) == 1 {
				var err error
				if settings, err = hxpage.LoadSettings(args[0]); err != nil {
					return err
				}
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(settings); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
