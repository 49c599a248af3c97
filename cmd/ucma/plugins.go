package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/ucma/internal/config"
	"github.com/nao1215/ucma/internal/plugin"
)

// NewPluginsCmd creates the plugins command.
func NewPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins [capability]",
		Short: "List discovered plugins",
		Long: `Plugins lists the discovered plugin descriptors for each capability in
discovery order. A configured name selects the first descriptor whose location
starts with it.

The capability may be extractor, analyzer or reporter (or the legacy names
git_processor, metrics_calculator and report_generator).

Examples:
  ucma plugins
  ucma plugins reporter
  ucma plugins --plugins-file plugins.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPluginsCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (its plugins_file is used)")
	cmd.Flags().String("plugins-file", "",
		"Plugin listing file that replaces the built-in discovery order")

	return cmd
}

// runPluginsCmd executes the plugins command.
func runPluginsCmd(cmd *cobra.Command, args []string) error {
	capabilities := plugin.Capabilities()
	if len(args) == 1 {
		c, err := plugin.ParseCapability(args[0])
		if err != nil {
			return err
		}
		capabilities = []plugin.Capability{c}
	}

	pluginsFile, err := cmd.Flags().GetString("plugins-file")
	if err != nil {
		return err
	}
	if pluginsFile == "" {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		pluginsFile = cfg.PluginsFile
	}

	registry, err := newRegistry(pluginsFile)
	if err != nil {
		return fmt.Errorf("plugin discovery failed: %w", err)
	}

	printPlugins(cmd.OutOrStdout(), registry, capabilities)
	return nil
}

// printPlugins writes each capability's descriptors, marking those the
// binary cannot link.
func printPlugins(w io.Writer, registry *plugin.Registry, capabilities []plugin.Capability) {
	for i, c := range capabilities {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s):\n", c, c.Group())

		descs := registry.Descriptors(c)
		if len(descs) == 0 {
			fmt.Fprintln(w, "  (none)")
			continue
		}
		for _, d := range descs {
			if _, ok := plugin.DefaultCatalog.Lookup(d); ok {
				fmt.Fprintf(w, "  %s:%s\n", d.Location, d.Entry)
			} else {
				fmt.Fprintf(w, "  %s:%s (not linked)\n", d.Location, d.Entry)
			}
		}
	}
}
