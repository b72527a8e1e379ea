package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptdeco/promptdeco/internal/decorator"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered decorators",
	RunE:  runList,
}

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show detailed information about a decorator",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	infoCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	defs := reg.List()
	if listJSON {
		type entry struct {
			Name        string `json:"name"`
			Description string `json:"description,omitempty"`
			Version     string `json:"version,omitempty"`
			Params      int    `json:"params"`
		}
		entries := make([]entry, 0, len(defs))
		for _, d := range defs {
			entries = append(entries, entry{
				Name:        d.Name,
				Description: d.Description,
				Version:     d.Version,
				Params:      len(d.Parameters),
			})
		}
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(defs) == 0 {
		fmt.Println("No decorators registered.")
		return nil
	}
	for _, d := range defs {
		line := d.Name
		if d.Version != "" {
			line += " v" + d.Version
		}
		if d.Description != "" {
			line += "  " + d.Description
		}
		fmt.Println(line)
	}
	return nil
}

func runInfo(_ *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	def, ok := reg.Get(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown decorator %q.\n", args[0])
		os.Exit(1)
	}

	if listJSON {
		out, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Name:        %s\n", def.Name)
	if def.Version != "" {
		fmt.Printf("Version:     %s\n", def.Version)
	}
	if def.Description != "" {
		fmt.Printf("Description: %s\n", def.Description)
	}
	if def.Transform.Template != nil {
		fmt.Printf("Placement:   %s\n", def.Transform.Template.Placement)
		fmt.Printf("Composition: %s\n", def.Transform.Template.CompositionBehavior)
	} else {
		fmt.Printf("Function:    %s\n", def.Transform.Function)
	}
	if len(def.Parameters) == 0 {
		fmt.Println("Parameters:  none")
		return nil
	}
	fmt.Println("Parameters:")
	for _, p := range def.Parameters {
		fmt.Printf("  %s\n", formatParam(p))
	}
	return nil
}

func formatParam(p decorator.ParameterSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", p.Name, p.Type)
	if p.Required {
		b.WriteString(" required")
	}
	if p.Default != nil {
		fmt.Fprintf(&b, " default=%v", p.Default)
	}
	if len(p.EnumValues) > 0 {
		fmt.Fprintf(&b, " values=[%s]", strings.Join(p.EnumValues, ", "))
	}
	if p.Description != "" {
		b.WriteString("  " + p.Description)
	}
	return b.String()
}
