package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fabric-sync/core/collect"
	"fabric-sync/core/config"
	"fabric-sync/core/logger"
	"fabric-sync/core/pipeline"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored pipelines",
	Long:  `Lists every stored pipeline with its step counts and validity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, collectors, err := openDefinitionStore()
		if err != nil {
			return err
		}

		stored, err := store.List()
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			fmt.Println("No pipelines stored.")
			return nil
		}

		fmt.Printf("%-20s %-24s %-8s %-8s %-6s\n", "ID", "NAME", "STEPS", "ENABLED", "VALID")
		for _, p := range stored {
			valid := "yes"
			if len(pipeline.Validate(p, collectors)) > 0 {
				valid = "no"
			}
			enabled := "yes"
			if !p.Enabled {
				enabled = "no"
			}
			steps := fmt.Sprintf("%d/%d", len(p.EnabledSteps()), len(p.Steps))
			fmt.Printf("%-20s %-24s %-8s %-8s %-6s\n", p.ID, p.Name, steps, enabled, valid)
		}
		return nil
	},
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <pipeline>",
	Short: "Show a stored pipeline definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openDefinitionStore()
		if err != nil {
			return err
		}

		p, err := store.Get(args[0])
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Install a pipeline definition file",
	Long: `Reads a pipeline definition (JSON or YAML), validates it, and installs
it into the pipeline directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openDefinitionStore()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read definition: %w", err)
		}

		var p pipeline.Pipeline
		ext := strings.ToLower(filepath.Ext(args[0]))
		if ext == ".yaml" || ext == ".yml" {
			err = yaml.Unmarshal(data, &p)
		} else {
			err = json.Unmarshal(data, &p)
		}
		if err != nil {
			return fmt.Errorf("failed to parse definition: %w", err)
		}

		if err := store.Save(p); err != nil {
			return err
		}
		fmt.Printf("Pipeline %q installed (%d steps).\n", p.ID, len(p.Steps))
		return nil
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <pipeline>",
	Short: "Delete a stored pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openDefinitionStore()
		if err != nil {
			return err
		}

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Pipeline %q deleted.\n", args[0])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(listCmd, showCmd, createCmd, deleteCmd)
}

// openDefinitionStore builds the pipeline store exactly as the server wires
// it, so CLI and HTTP always see the same definitions.
func openDefinitionStore() (*pipeline.Store, []string, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	collectors := collect.NewRegistry(cfg.Collect, logg).Known()
	return pipeline.NewStore(cfg.Pipelines.Dir, collectors), collectors, nil
}
