package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/hxpage"
	"github.com/pthm/hxpage/lib/markup"
)

func newRenderCmd() *cobra.Command {
	var (
		configPath   string
		labels       map[string]string
		messages     map[string]string
		placeholders bool
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a markup file as a page",
		Long: `Render a markup file as a page. Tags named with --label render as labels;
with --placeholders every other component tag renders its markup body.
Without them, unknown component tags are reported as errors.`,
		Example: `  hxpage render page.html --label title="Hello" --placeholders`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readMarkup(cmd, args[0])
			if err != nil {
				return err
			}
			settings := hxpage.DefaultSettings()
			if configPath != "" {
				if settings, err = hxpage.LoadSettings(configPath); err != nil {
					return err
				}
			}
			logger, err := hxpage.NewLogger(cmd.ErrOrStderr(), settings.Logging)
			if err != nil {
				return err
			}

			resolve := hxpage.ResolverFunc(func(_ *hxpage.Component, _ *markup.Stream, tag *markup.ComponentTag) *hxpage.Component {
				if text, ok := labels[tag.ID]; ok {
					return hxpage.NewLabel(tag.ID, text)
				}
				if placeholders && !tag.Framework {
					return hxpage.NewContainer(tag.ID)
				}
				return nil
			})
			app := hxpage.NewApplication([]byte("hxpage-cli"),
				hxpage.WithSettings(settings),
				hxpage.WithLogger(logger),
				hxpage.WithResolver(resolve),
				hxpage.WithMessages(messages),
			)

			page := hxpage.NewPage(m)
			app.NewSession().AddPage(page)
			defer page.Detach()
			return page.Render(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML settings file")
	cmd.Flags().StringToStringVarP(&labels, "label", "l", nil, "render the tag with this id as a label (id=text)")
	cmd.Flags().StringToStringVarP(&messages, "message", "m", nil, "message for <wicket:message> tags (key=text)")
	cmd.Flags().BoolVarP(&placeholders, "placeholders", "p", false, "render unknown component tags with their markup body")
	return cmd
}
