package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptdeco/promptdeco/internal/config"
	"github.com/promptdeco/promptdeco/internal/decorator"
	"github.com/promptdeco/promptdeco/internal/logger"
	"github.com/promptdeco/promptdeco/internal/transform"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "promptdeco",
	Short: "Prompt decorator engine",
	Long: `promptdeco parses +++Decorator(param=value) annotations embedded in
prompt text and rewrites the prompt according to data-driven decorator
definitions.

Commands:
  promptdeco apply      Apply inline decorator annotations to a prompt
  promptdeco list       List registered decorators
  promptdeco info       Show details of one decorator
  promptdeco validate   Validate definition documents in a directory
  promptdeco serve      Expose the engine as an MCP stdio server
  promptdeco preview    Send a decorated prompt to an LLM and print the reply`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal")
}

// loadRegistry builds the default registry from the configured definition
// directory, with builtin transform functions installed.
func loadRegistry() (*decorator.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	reg := decorator.New(cfg.RegistryDir())
	transform.RegisterBuiltins(reg)
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("load decorator registry: %w", err)
	}
	return reg, nil
}

// loadStrict reports whether strict mode is enabled by config.
func loadStrict() bool {
	if cfg, err := config.Load(); err == nil {
		return cfg.Registry.Strict
	}
	return false
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
