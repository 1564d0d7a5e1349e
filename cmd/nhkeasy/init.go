package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/basjacobs93/nhk-web-easy/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/nhkeasy.yml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new nhkeasy configuration file",
		Long: `Init creates a new nhkeasy.yml configuration file in the current
directory.

The generated file includes:
- Default settings for scraping, annotation, and site generation
- Commented examples for every available option
- Notes on where the WaniKani and NHK tokens are read from

Examples:
  # Create nhkeasy.yml in the current directory
  nhkeasy init

  # Create the config file at a specific path
  nhkeasy init -o config/nhkeasy.yml

  # Force overwrite an existing file
  nhkeasy init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/nhkeasy.yml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - How many articles to fetch and how fast")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The tokenizer dictionary and preview length")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The site title and output directory")

	return nil
}
