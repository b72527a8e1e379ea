package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptdeco/promptdeco/internal/engine"
)

var (
	applyText   string
	applyStrict bool
	applyJSON   bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Apply inline decorator annotations to a prompt",
	Long: `Read a prompt from a file, from --text, or from stdin, resolve its
+++Decorator(...) annotations against the registry, and print the
rewritten prompt.

Examples:
  promptdeco apply prompt.txt
  promptdeco apply --text '+++Tone(style=formal) Explain DNS.'
  echo '+++StepByStep Why is the sky blue?' | promptdeco apply`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyText, "text", "", "Prompt text (instead of a file or stdin)")
	applyCmd.Flags().BoolVar(&applyStrict, "strict", false, "Fail on unknown decorator names")
	applyCmd.Flags().BoolVar(&applyJSON, "json", false, "Output as JSON with the applied decorator list")
	rootCmd.AddCommand(applyCmd)
}

func readPrompt(args []string) (string, error) {
	if applyText != "" {
		return applyText, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read prompt file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func runApply(_ *cobra.Command, args []string) error {
	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	eng := engine.New(reg)
	eng.Strict = applyStrict || loadStrict()

	result, applied, err := eng.ApplyAnnotations(prompt)
	if err != nil {
		return err
	}

	if applyJSON {
		out, err := json.MarshalIndent(map[string]any{
			"text":    result,
			"applied": applied,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(result)
	return nil
}
