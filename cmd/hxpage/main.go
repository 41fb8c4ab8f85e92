package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/hxpage/lib/markup"
)

// set at build time
var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hxpage",
		Short: "hxpage - component pages for Go and HTMX",
		Long: `hxpage works with the markup files of hxpage pages, panels and borders.

It lists the component tags of a file, renders a file with placeholder
components and checks application settings.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newInspectCmd(),
		newRenderCmd(),
		newConfigCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "hxpage version %s\n", version)
			},
		},
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// readMarkup parses the markup file at path, or standard input for "-".
func readMarkup(cmd *cobra.Command, path string) (*markup.Markup, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	m, err := markup.ParseReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
