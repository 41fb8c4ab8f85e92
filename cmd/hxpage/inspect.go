package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm/hxpage/lib/markup"
)

type tagInfo struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Line      int        `yaml:"line"`
	Framework bool       `yaml:"framework,omitempty"`
	Auto      bool       `yaml:"auto,omitempty"`
	Children  []*tagInfo `yaml:"children,omitempty"`
}

func newInspectCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the component tags of a markup file",
		Long: `List the component tags of a markup file as a tree. Each tag needs a
component with the same id in the container bound to its parent tag, or an
auto component created by a resolver.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readMarkup(cmd, args[0])
			if err != nil {
				return err
			}
			tags := tagTree(m)
			switch format {
			case "text":
				writeTree(cmd, tags, 0)
				return nil
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(tags); err != nil {
					return err
				}
				return enc.Close()
			}
			return fmt.Errorf("unknown format %q", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or yaml")
	return cmd
}

// tagTree nests the component tags of m by their open and close tags.
func tagTree(m *markup.Markup) []*tagInfo {
	var roots []*tagInfo
	var stack []*tagInfo
	for i := 0; i < m.Len(); i++ {
		tag := m.Tag(i)
		if tag == nil {
			continue
		}
		if tag.IsClose() {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		info := &tagInfo{ID: tag.ID, Name: tag.Name, Line: tag.Line, Framework: tag.Framework, Auto: tag.AutoID}
		if len(stack) == 0 {
			roots = append(roots, info)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, info)
		}
		if tag.IsOpen() {
			stack = append(stack, info)
		}
	}
	return roots
}

func writeTree(cmd *cobra.Command, tags []*tagInfo, depth int) {
	for _, t := range tags {
		var flags []string
		if t.Framework {
			flags = append(flags, "framework")
		}
		if t.Auto {
			flags = append(flags, "auto")
		}
		line := fmt.Sprintf("%s%s <%s> line %d", strings.Repeat("  ", depth), t.ID, t.Name, t.Line)
		if len(flags) > 0 {
			line += " (" + strings.Join(flags, ", ") + ")"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		writeTree(cmd, t.Children, depth+1)
	}
}
