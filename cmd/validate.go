package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptdeco/promptdeco/internal/config"
	"github.com/promptdeco/promptdeco/internal/decorator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate decorator definition documents",
	Long: `Parse every definition document under a directory and report, per file,
whether it is a valid decorator definition. Scans the same layout the
registry loads: the core/ and extensions/ subfolders, then documents in
the directory itself. Defaults to the configured registry directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		dir = cfg.RegistryDir()
	}

	checked, failed, err := validateTree(dir)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d documents checked, %d invalid\n", checked, failed)
	if failed > 0 {
		os.Exit(1)
	}
	return nil
}

// validateTree checks every definition document the loader would scan
// under dir: core/ and extensions/ first, then the directory itself.
func validateTree(dir string) (checked, failed int, err error) {
	if _, err := os.Stat(dir); err != nil {
		return 0, 0, fmt.Errorf("read definition directory: %w", err)
	}

	for _, sub := range decorator.SourceSubdirs() {
		c, f := validateDir(filepath.Join(dir, sub))
		checked += c
		failed += f
	}
	c, f := validateDir(dir)
	checked += c
	failed += f
	return checked, failed, nil
}

// validateDir checks one directory level; a missing directory counts as
// zero documents, matching the loader.
func validateDir(dir string) (checked, failed int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		checked++

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", path, err)
			continue
		}
		def, err := decorator.ParseDocument(data, ext)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", path, err)
			continue
		}
		fmt.Printf("OK    %s (%s)\n", path, def.Name)
	}
	return checked, failed
}
