package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptdeco/promptdeco/internal/config"
	"github.com/promptdeco/promptdeco/internal/engine"
	"github.com/promptdeco/promptdeco/internal/logger"
	"github.com/promptdeco/promptdeco/internal/preview"
)

var previewTimeout time.Duration

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Decorate a prompt and send it to an LLM",
	Long: `Apply the prompt's decorator annotations, send the rewritten prompt to
the configured OpenAI-compatible endpoint, and print the model's reply.
Requires ai.api_key in the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&applyText, "text", "", "Prompt text (instead of a file or stdin)")
	previewCmd.Flags().DurationVar(&previewTimeout, "timeout", 60*time.Second, "Completion request timeout")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, args []string) error {
	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	client, err := preview.New(cfg.AI)
	if err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	eng := engine.New(reg)
	eng.Strict = cfg.Registry.Strict
	decorated, applied, err := eng.ApplyAnnotations(prompt)
	if err != nil {
		return err
	}
	logger.Info("[Preview] Applied %d decorators, sending to %s", len(applied), client.Model())

	ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
	defer cancel()

	reply, err := client.Complete(ctx, decorated)
	if err != nil {
		return err
	}

	fmt.Println("--- decorated prompt ---")
	fmt.Println(decorated)
	fmt.Println("--- model reply ---")
	fmt.Println(reply)
	return nil
}
