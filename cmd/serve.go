package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptdeco/promptdeco/internal/config"
	"github.com/promptdeco/promptdeco/internal/logger"
	"github.com/promptdeco/promptdeco/internal/mcpserver"
	"github.com/promptdeco/promptdeco/internal/watcher"
)

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the decorator engine as an MCP stdio server",
	Long: `Run an MCP server over stdio with three tools:

  list_decorators    Enumerate registered decorators
  get_decorator      Fetch the definition of one decorator
  apply_decorators   Rewrite annotated prompt text

With --watch, definition files are polled in the background and the
registry is reloaded when they change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Hot-reload definitions on change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	logger.Info("[Serve] Registry ready with %d decorators", reg.Len())

	if serveWatch || cfg.Watcher.Enabled {
		w := watcher.New(reg, cfg.RegistryDir(), cfg.Watcher.Interval)
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	s := mcpserver.New(reg, cfg.Registry.Strict)
	if err := mcpserver.Serve(s); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
